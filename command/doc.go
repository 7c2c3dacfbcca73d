// Package command defines the execution unit of a linekit pipeline.
//
// A command kind (sort, grep, ...) is described once by a Kind: its name, its
// fixed execution Mode, the closed alphabet of Options it understands and a
// Build function that validates an argument set and returns the transform
// for one run. A Cmd binds a Kind to an immutable Args value; WithArgs
// produces a new Cmd and never touches the receiver.
//
// # Execution modes
//
// There are exactly two transform protocols:
//
//   - LineByLine (LineFunc): every input line is handed to the transform as
//     it arrives and may produce zero or more output lines right away.
//   - CompleteInput (BatchFunc): every input line is materialized first; the
//     transform sees the whole slice and its result is written once the
//     input is exhausted. Nothing is written before that point.
//
// # Deferred validation
//
// Building Args never fails. Contradictory combinations are rejected by the
// Kind's Build function, which Open calls before any input is read and before
// anything is written to the output.
package command
