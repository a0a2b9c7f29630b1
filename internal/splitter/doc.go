// Package splitter orchestrates a split run: it discovers the source
// document in the input folder, prepares the output folder, copies assets,
// builds the page tree, emits it and checks the links of the result.
package splitter
