package pipeline

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/linekit/command"
	"github.com/kbukum/linekit/env"
	"github.com/kbukum/linekit/errors"
	"github.com/kbukum/linekit/lineio"
	"github.com/kbukum/linekit/logger"
	"github.com/kbukum/linekit/observability"
)

type opt uint8

const (
	optDesc opt = iota
	optAsc
)

func (o opt) String() string {
	if o == optDesc {
		return "desc"
	}
	return "asc"
}

// events records the order in which stages see lines.
type events struct {
	mu  sync.Mutex
	log []string
}

func (e *events) add(s string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.log = append(e.log, s)
}

func (e *events) all() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.log)
}

// tag is a LineByLine command recording each line it sees before passing it on.
func tag(name string, ev *events) command.Command {
	return command.New(&command.Kind[opt]{
		Name: name,
		Mode: command.LineByLine,
		Build: func(context.Context, command.Args[opt]) (command.Transform, error) {
			return command.LineFunc{
				Line: func(line string, out lineio.Output) error {
					ev.add(name + ":" + line)
					return out.WriteLine(line)
				},
			}, nil
		},
	}, command.NewArgs[opt]())
}

var sortKind = &command.Kind[opt]{
	Name:     "sort",
	Mode:     command.CompleteInput,
	Alphabet: []opt{optDesc, optAsc},
	Build: func(_ context.Context, args command.Args[opt]) (command.Transform, error) {
		if err := command.RequireExclusive("sort", args, optDesc, optAsc); err != nil {
			return nil, err
		}
		return command.BatchFunc(func(lines []string) ([]string, error) {
			slices.Sort(lines)
			if args.HasOpt(optDesc) {
				slices.Reverse(lines)
			}
			return lines, nil
		}), nil
	},
}

func sortCmd(opts ...opt) command.Command {
	return command.New(sortKind, command.NewArgs(opts...))
}

var upperKind = &command.Kind[opt]{
	Name: "upper",
	Mode: command.LineByLine,
	Build: func(context.Context, command.Args[opt]) (command.Transform, error) {
		return command.LineFunc{
			Line: func(line string, out lineio.Output) error {
				return out.WriteLine(strings.ToUpper(line))
			},
		}, nil
	},
}

func upper() command.Command { return command.New(upperKind, command.NewArgs[opt]()) }

var errBad = stderrors.New("bad line")

// failOn fails when it sees line.
func failOn(line string) command.Command {
	return command.New(&command.Kind[opt]{
		Name: "fail",
		Mode: command.LineByLine,
		Build: func(context.Context, command.Args[opt]) (command.Transform, error) {
			return command.LineFunc{
				Line: func(l string, out lineio.Output) error {
					if l == line {
						return errBad
					}
					return out.WriteLine(l)
				},
			}, nil
		},
	}, command.NewArgs[opt]())
}

// pwd ignores its input and writes the current directory it was opened with.
var pwdKind = &command.Kind[opt]{
	Name: "pwd",
	Mode: command.LineByLine,
	Build: func(ctx context.Context, _ command.Args[opt]) (command.Transform, error) {
		dir := env.FromContext(ctx).CurrentDirectory()
		return command.LineFunc{
			Line: func(string, lineio.Output) error { return nil },
			Done: func(out lineio.Output) error { return out.WriteLine(dir) },
		}, nil
	},
}

// closingInput records Close.
type closingInput struct {
	lineio.Input
	closed bool
}

func (c *closingInput) Close() error {
	c.closed = true
	return nil
}

// emit writes its own lines and never reads its input.
func emit(src lineio.Input) command.Command {
	return command.New(&command.Kind[opt]{
		Name: "emit",
		Mode: command.LineByLine,
		Build: func(context.Context, command.Args[opt]) (command.Transform, error) {
			return command.LineFunc{
				Line:   func(l string, out lineio.Output) error { return out.WriteLine(l) },
				Source: src,
			}, nil
		},
	}, command.NewArgs[opt]())
}

type countingInput struct {
	lineio.Input
	reads int
}

func (c *countingInput) ReadLine() (string, error) {
	c.reads++
	return c.Input.ReadLine()
}

type failingInput struct{ err error }

func (f failingInput) HasMoreLines() (bool, error) { return false, f.err }
func (f failingInput) ReadLine() (string, error)   { return "", f.err }

func assertLines(t *testing.T, got, want []string) {
	t.Helper()
	if !slices.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRun_Empty(t *testing.T) {
	_, err := Start().RunLines(context.Background(), []string{"a"})
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}

	_, err = Start(upper()).Then(nil).RunLines(context.Background(), []string{"a"})
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT for nil stage, got %v", err)
	}
}

func TestRun_SingleStageMatchesExecute(t *testing.T) {
	in := []string{"b", "c", "a"}
	direct := lineio.NewCollector()
	if err := sortCmd().Execute(context.Background(), lineio.FromSlice(in), direct); err != nil {
		t.Fatal(err)
	}
	got, err := Start(sortCmd()).RunLines(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	assertLines(t, got, direct.Lines())
}

func TestRun_Chain(t *testing.T) {
	got, err := Start(upper(), sortCmd(optDesc)).RunLines(context.Background(), []string{"b", "a", "c"})
	if err != nil {
		t.Fatal(err)
	}
	assertLines(t, got, []string{"C", "B", "A"})
}

func TestRun_EmptyInput(t *testing.T) {
	got, err := Start(upper(), sortCmd(), upper()).RunLines(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	assertLines(t, got, []string{})
}

func TestRun_LineByLineStreams(t *testing.T) {
	ev := &events{}
	_, err := Start(tag("a", ev), tag("b", ev)).RunLines(context.Background(), []string{"1", "2", "3"})
	if err != nil {
		t.Fatal(err)
	}
	assertLines(t, ev.all(), []string{"a:1", "b:1", "a:2", "b:2", "a:3", "b:3"})
}

func TestRun_CompleteInputIsABarrier(t *testing.T) {
	ev := &events{}
	_, err := Start(tag("before", ev), sortCmd(), tag("after", ev)).
		RunLines(context.Background(), []string{"2", "3", "1"})
	if err != nil {
		t.Fatal(err)
	}
	assertLines(t, ev.all(), []string{
		"before:2", "before:3", "before:1",
		"after:1", "after:2", "after:3",
	})
}

func TestRun_AdjacentCompleteInputStages(t *testing.T) {
	ev := &events{}
	got, err := Start(sortCmd(), sortCmd(optDesc), tag("after", ev)).
		RunLines(context.Background(), []string{"b", "c", "a"})
	if err != nil {
		t.Fatal(err)
	}
	assertLines(t, got, []string{"c", "b", "a"})
	assertLines(t, ev.all(), []string{"after:c", "after:b", "after:a"})
}

func TestRun_SourceStageSkipsUpstream(t *testing.T) {
	boom := stderrors.New("upstream broken")
	src := &closingInput{Input: lineio.FromSlice([]string{"x", "y"})}
	ev := &events{}

	out := lineio.NewCollector()
	err := Start(tag("before", ev), emit(src), upper()).Run(context.Background(), failingInput{err: boom}, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertLines(t, out.Lines(), []string{"X", "Y"})
	if len(ev.all()) != 0 {
		t.Errorf("upstream stage ran: %q", ev.all())
	}
	if !src.closed {
		t.Error("source was not closed after the run")
	}
}

func TestRun_SourceClosedOnError(t *testing.T) {
	src := &closingInput{Input: lineio.FromSlice([]string{"ok", "bad"})}
	_, err := Start(emit(src), failOn("bad")).RunLines(context.Background(), nil)
	if err != errBad {
		t.Fatalf("expected the command error unchanged, got %v", err)
	}
	if !src.closed {
		t.Error("source was not closed after a failed run")
	}
}

func TestRun_ValidationBeforeInput(t *testing.T) {
	in := &countingInput{Input: lineio.FromSlice([]string{"a", "b"})}
	out := lineio.NewCollector()

	err := Start(upper(), sortCmd(optAsc, optDesc)).Run(context.Background(), in, out)
	if !errors.HasCode(err, errors.ErrCodeInvalidConfiguration) {
		t.Fatalf("expected INVALID_CONFIGURATION, got %v", err)
	}
	if in.reads != 0 {
		t.Errorf("read %d lines before failing", in.reads)
	}
	if out.Len() != 0 {
		t.Errorf("expected no output, got %q", out.Lines())
	}
}

func TestRun_ErrorReturnedUnchanged(t *testing.T) {
	got, err := Start(failOn("bad"), upper()).RunLines(context.Background(), []string{"ok", "bad", "never"})
	if err != errBad {
		t.Fatalf("expected the command error unchanged, got %v", err)
	}
	assertLines(t, got, []string{"OK"})
}

func TestRun_OutputErrorReturnedUnchanged(t *testing.T) {
	errOut := stderrors.New("disk full")
	n := 0
	out := lineio.OutputFunc(func(string) error {
		n++
		if n == 2 {
			return errOut
		}
		return nil
	})
	err := Start(upper()).Run(context.Background(), lineio.FromSlice([]string{"a", "b", "c"}), out)
	if err != errOut {
		t.Fatalf("expected output error unchanged, got %v", err)
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Start(upper()).RunLines(ctx, []string{"a"})
	if !stderrors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRun_WithEnv(t *testing.T) {
	dir := t.TempDir()
	got, err := Start(upper(), command.New(pwdKind, command.NewArgs[opt]())).
		WithEnv(env.NewWithDir(dir)).
		RunLines(context.Background(), []string{"x"})
	if err != nil {
		t.Fatal(err)
	}
	assertLines(t, got, []string{dir})
}

func TestRun_Rerun(t *testing.T) {
	b := Start(upper(), sortCmd())
	for i := 0; i < 3; i++ {
		got, err := b.RunLines(context.Background(), []string{"b", "a"})
		if err != nil {
			t.Fatal(err)
		}
		assertLines(t, got, []string{"A", "B"})
	}

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			in := []string{fmt.Sprint(i), "z"}
			got, err := b.RunLines(context.Background(), in)
			if err == nil && !slices.Equal(got, []string{fmt.Sprint(i), "Z"}) {
				err = fmt.Errorf("run %d got %q", i, got)
			}
			errs[i] = err
		}()
	}
	wg.Wait()
	if err := stderrors.Join(errs...); err != nil {
		t.Error(err)
	}
}

func TestBuilder_Accessors(t *testing.T) {
	b := Start(upper()).Then(sortCmd(optDesc))
	if b.Len() != 2 {
		t.Errorf("Len() = %d", b.Len())
	}
	if got := b.String(); got != "upper | sort --desc" {
		t.Errorf("String() = %q", got)
	}
	if b.Name() != b.String() {
		t.Errorf("unnamed pipeline should be named by its stages, got %q", b.Name())
	}
	if b.Named("p").Name() != "p" {
		t.Error("Named did not apply")
	}

	cmds := b.Commands()
	cmds[0] = nil
	if b.Commands()[0] == nil {
		t.Error("Commands must return a copy")
	}
}

func TestRun_Logs(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: logger.FormatJSON}, "test", &buf)

	_, err := Start(upper(), sortCmd()).Named("p").WithLogger(log).
		RunLines(context.Background(), []string{"b", "a"})
	if err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if c := strings.Count(out, `"message":"stage opened"`); c != 2 {
		t.Errorf("expected 2 stage lines, got %d in %s", c, out)
	}
	for _, want := range []string{`"run_id":`, `"pipeline":"p"`, `"message":"pipeline finished"`, `"lines_in":2`, `"lines_out":2`} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %s: %s", want, out)
		}
	}
}

func TestRun_Span(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	_, _ = Start(failOn("x")).WithLogger(logger.Nop()).RunLines(context.Background(), []string{"x"})

	spans := exporter.GetSpans()
	if len(spans) != 1 || spans[0].Name != observability.SpanPipelineRun {
		t.Fatalf("spans = %v", spans)
	}
	attrs := map[string]bool{}
	for _, kv := range spans[0].Attributes {
		attrs[string(kv.Key)] = true
	}
	for _, k := range []string{observability.AttrRunID, observability.AttrStages, observability.AttrLinesIn} {
		if !attrs[k] {
			t.Errorf("missing span attribute %s", k)
		}
	}
	if len(spans[0].Events) == 0 {
		t.Error("expected the error to be recorded")
	}
}

func TestRun_Metrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := observability.NewPipelineMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatal(err)
	}

	b := Start(failOn("bad")).WithMetrics(metrics).WithLogger(logger.Nop())
	_, _ = b.RunLines(context.Background(), []string{"a", "b"})
	_, _ = b.RunLines(context.Background(), []string{"bad"})

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatal(err)
	}
	got := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					got[m.Name] += dp.Value
				}
			}
		}
	}
	if got["pipeline.runs"] != 2 || got["pipeline.stage_errors"] != 1 || got["pipeline.lines_out"] != 2 {
		t.Errorf("metrics = %v", got)
	}
}
