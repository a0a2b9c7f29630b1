// Package errors provides the classified error type used across docsplit.
//
// A ClassifiedError carries a category (config, validation, not_found,
// filesystem, build, runtime, internal), a severity and a retry strategy,
// plus structured context. The CLI adapter maps categories to process exit
// codes.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryFileSystem, "write page failed").
//		Warning().
//		WithContext("path", target).
//		Build()
package errors
