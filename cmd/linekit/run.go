package main

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/linekit/definition"
	"github.com/kbukum/linekit/lineio"
	"github.com/kbukum/linekit/pipeline"
	"github.com/kbukum/linekit/unix"
)

func (a *app) newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run NAME",
		Short: "Run a named pipeline from the definitions file over stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := definition.Load(a.cfg.Pipelines)
			if err != nil {
				return err
			}
			name := args[0]
			p, err := defs.Build(name, unix.DefaultRegistry)
			if err != nil {
				return err
			}
			if d, _ := defs.Lookup(name); d.Dir == "" {
				p.WithEnv(a.cfg.EnvContext())
			}
			return a.runPipeline(cmd, p)
		},
	}
}

func (a *app) newExecCmd() *cobra.Command {
	var opts []string
	cmd := &cobra.Command{
		Use:   "exec COMMAND [OPERAND...]",
		Short: "Run a single command over stdin",
		Example: `  linekit exec head 5 < app.log
  linekit exec uniq --opt count --opt ignoreCase < sorted.txt
  linekit exec grep -- -v < notes.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := unix.DefaultRegistry.Build(args[0], opts, args[1:])
			if err != nil {
				return err
			}
			return a.runPipeline(cmd, pipeline.Start(c).Named(args[0]).WithEnv(a.cfg.EnvContext()))
		},
	}
	cmd.Flags().StringSliceVarP(&opts, "opt", "o", nil, "command option by name, repeatable")
	return cmd
}

// runPipeline streams stdin through p to stdout. Output written before a
// failure is still flushed.
func (a *app) runPipeline(cmd *cobra.Command, p *pipeline.Builder) error {
	out := lineio.ToWriter(cmd.OutOrStdout())
	err := p.Run(cmd.Context(), lineio.FromReader(cmd.InOrStdin()), out)
	if flushErr := out.Flush(); err == nil {
		err = flushErr
	}
	return err
}
