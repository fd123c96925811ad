// Package errors provides the classified error primitives used across blogsmith.
//
// A ClassifiedError carries a broad category (config, parse, render, ...),
// a severity and a small context map. Errors are built with a fluent API:
//
//	err := errors.WrapError(cause, errors.CategoryFileSystem, "write page").
//		WithContext("page", pagename).
//		Build()
//
// The CLI adapter turns a classified error into a user-facing message and
// a process exit code.
package errors
