// Package lineio defines the line stream contract consumed and produced by
// linekit commands.
//
// An Input is a pull-based, forward-only, finite sequence of text lines:
// callers ask HasMoreLines before every ReadLine. An Output appends lines in
// order and offers no read-back. Neither is restartable once consumed, and
// both are owned by exactly one stage at a time.
//
// The adapters in this package connect the contract to slices, strings,
// io.Reader and io.Writer values and pull iterators. Buffer is the in-memory
// channel a pipeline allocates between two adjacent stages.
//
//	in := lineio.FromString("banana\napple\n")
//	out := lineio.NewCollector()
//	n, err := lineio.Drain(in, out)
package lineio
