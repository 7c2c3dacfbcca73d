// Package unix is the catalog of linekit commands: sort, grep, head, tail,
// uniq, wc and cat, each mirroring the behavior of its shell namesake on a
// stream of lines.
//
// Every command has a factory taking its options variadically (no options
// means default behavior) plus a *With variant taking a prepared argument
// set:
//
//	out := lineio.NewCollector()
//	err := unix.Sort(unix.SortDescending).Execute(ctx, lineio.FromSlice(lines), out)
//
// Commands chain fluently through Start:
//
//	lines, err := unix.Start().
//	    Grep("error", unix.GrepIgnoreCase).
//	    Sort().
//	    Uniq(unix.UniqCount).
//	    RunLines(ctx, input)
//
// The Registry resolves commands by name for hosts that build pipelines from
// configuration or user input.
package unix
