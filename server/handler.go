package server

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/linekit/definition"
	"github.com/kbukum/linekit/env"
	"github.com/kbukum/linekit/errors"
	"github.com/kbukum/linekit/lineio"
	"github.com/kbukum/linekit/observability"
	"github.com/kbukum/linekit/pipeline"
	"github.com/kbukum/linekit/unix"
	"github.com/kbukum/linekit/validation"
)

// RunRequest is the body of POST /v1/run.
type RunRequest struct {
	Stages []definition.Stage `json:"stages" validate:"min=1,dive"`
	Lines  []string           `json:"lines"`
}

// RunResponse is the body answered by POST /v1/run.
type RunResponse struct {
	Lines []string `json:"lines"`
}

// Handler serves the command catalog and runs pipelines over request
// bodies.
type Handler struct {
	registry *unix.Registry
	defs     *definition.File
	env      *env.Context
	metrics  *observability.PipelineMetrics
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithDefinitions serves the named pipelines of f.
func WithDefinitions(f *definition.File) HandlerOption {
	return func(h *Handler) {
		if f != nil {
			h.defs = f
		}
	}
}

// WithEnv sets the environment of runs whose definition names no directory.
func WithEnv(e *env.Context) HandlerOption {
	return func(h *Handler) { h.env = e }
}

// WithMetrics records every run on m.
func WithMetrics(m *observability.PipelineMetrics) HandlerOption {
	return func(h *Handler) { h.metrics = m }
}

// NewHandler creates a handler resolving commands through registry.
func NewHandler(registry *unix.Registry, opts ...HandlerOption) *Handler {
	h := &Handler{
		registry: registry,
		defs:     &definition.File{Pipelines: map[string]definition.Definition{}},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the handler routes on rg.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/commands", h.listCommands)
	rg.GET("/pipelines", h.listPipelines)
	rg.POST("/pipelines/:name/run", h.runNamed)
	rg.POST("/run", h.run)
}

func (h *Handler) listCommands(c *gin.Context) {
	RespondOK(c, h.registry.Describe())
}

func (h *Handler) listPipelines(c *gin.Context) {
	RespondOK(c, h.defs.Summaries())
}

// runNamed runs a defined pipeline over the request body, one line per
// input line, and answers the output as plain text.
func (h *Handler) runNamed(c *gin.Context) {
	name := c.Param("name")
	p, err := h.defs.Build(name, h.registry)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	d, _ := h.defs.Lookup(name)
	h.decorate(p, d.Dir == "")

	out := lineio.NewCollector()
	if err := p.Run(c.Request.Context(), lineio.FromReader(c.Request.Body), out); err != nil {
		RespondWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(out.String()))
}

// run builds an ad-hoc pipeline from a JSON body.
func (h *Handler) run(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, errors.Validation("invalid request body").WithCause(err))
		return
	}
	if err := validation.Validate(&req); err != nil {
		RespondWithError(c, err)
		return
	}

	if err := h.confine(req.Stages); err != nil {
		RespondWithError(c, err)
		return
	}

	p, err := definition.Definition{Stages: req.Stages}.Build(h.registry)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	h.decorate(p, true)

	lines, err := p.RunLines(c.Request.Context(), req.Lines)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, RunResponse{Lines: lines})
}

// confine rejects file operands that leave the run's directory. Ad-hoc runs
// may only read files below it.
func (h *Handler) confine(stages []definition.Stage) error {
	for i, st := range stages {
		e, ok := h.registry.Lookup(st.Command)
		if !ok || !e.Files {
			continue
		}
		for _, name := range st.Operands {
			if !filepath.IsLocal(name) {
				return errors.InvalidInput(st.Command,
					fmt.Sprintf("file %q is outside the working directory", name)).
					WithDetail("stage", i)
			}
		}
	}
	return nil
}

func (h *Handler) decorate(p *pipeline.Builder, withEnv bool) {
	if withEnv && h.env != nil {
		p.WithEnv(h.env)
	}
	if h.metrics != nil {
		p.WithMetrics(h.metrics)
	}
}
