// Package pages resolves human page selections such as "1-5", "1,3,5" or
// "2,4-6,9" into zero-based page indices.
//
// Selections use 1-based page numbers and inclusive ranges. The result is
// ascending, de-duplicated and bounded by the document length: indices past
// the end of the document are dropped silently, while malformed tokens are
// reported as a [*ParseError].
package pages
