// Package workspace prepares the output area of a split run.
//
// The output root holds the index page, one folder per top-level section and
// a single shared media folder. Reset wipes and recreates that layout for
// clean runs; Ensure only creates what is missing so incremental runs keep
// unchanged pages in place.
package workspace
