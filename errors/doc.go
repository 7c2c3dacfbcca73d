// Package errors provides the structured error type shared by linekit
// packages. Every error raised by the engine itself (as opposed to errors
// surfaced from a line source or sink) is an *AppError carrying a
// machine-readable code, so hosts can tell configuration mistakes apart from
// I/O failures with errors.As or HasCode.
package errors
