// Package server exposes the registry, inspection, CDN and command-builder
// operations as named tools. Every call returns rendered text together with
// the structured result.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/git-pkgs/jsregistry/cdn"
	"github.com/git-pkgs/jsregistry/client"
	"github.com/git-pkgs/jsregistry/inspect"
	"github.com/git-pkgs/jsregistry/internal/core"
)

const (
	DefaultName    = "jsregistry"
	DefaultVersion = "0.1.0"
)

// Options configures a Server.
type Options struct {
	// DefaultRegistry is used when a call names no registry. Empty means
	// detect from the package name.
	DefaultRegistry core.Kind
	Logger          *log.Logger
	Name            string
	Version         string
}

// Server dispatches tool calls.
type Server struct {
	registries      *core.Aggregator
	inspector       *inspect.Inspector
	cdn             *cdn.Searcher
	defaultRegistry core.Kind
	logger          *log.Logger
	name            string
	version         string
	tools           *toolRegistry
}

// New creates a Server over the given components.
func New(registries *core.Aggregator, inspector *inspect.Inspector, cdnSearch *cdn.Searcher, opts Options) *Server {
	s := &Server{
		registries:      registries,
		inspector:       inspector,
		cdn:             cdnSearch,
		defaultRegistry: opts.DefaultRegistry,
		logger:          opts.Logger,
		name:            opts.Name,
		version:         opts.Version,
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.name == "" {
		s.name = DefaultName
	}
	if s.version == "" {
		s.version = DefaultVersion
	}
	s.tools = s.buildTools()
	return s
}

// NewDefault wires the registered registries, the inspector and the CDN
// searcher to c.
func NewDefault(c *client.Client, opts Options, inspectOpts ...inspect.Option) (*Server, error) {
	if c == nil {
		c = client.DefaultClient()
	}
	agg, err := core.NewDefaultAggregator(c)
	if err != nil {
		return nil, err
	}
	npmReg, ok := agg.Registry(core.NPM)
	if !ok {
		return nil, fmt.Errorf("npm registry is not registered")
	}
	insp := inspect.New(agg, c, inspectOpts...)
	return New(agg, insp, cdn.NewSearcher(c, npmReg), opts), nil
}

// Tools returns the tool table in registration order.
func (s *Server) Tools() []Tool {
	out := make([]Tool, 0, len(s.tools.order))
	for _, t := range s.tools.order {
		out = append(out, *t)
	}
	return out
}

// Result is the envelope returned for every call.
type Result struct {
	Text    string `json:"text"`
	Data    any    `json:"data,omitempty"`
	IsError bool   `json:"isError,omitempty"`
}

// JSON returns Data serialized as indented JSON, or "" when there is none.
func (r *Result) JSON() string {
	if r.Data == nil {
		return ""
	}
	var b strings.Builder
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r.Data); err != nil {
		return ""
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func errorResult(err error) *Result {
	return &Result{Text: "Error: " + err.Error(), IsError: true}
}

// Call runs the named tool. Unknown tools and invalid arguments produce an
// error envelope; upstream failures are reported inside the structured result.
func (s *Server) Call(ctx context.Context, name string, arguments map[string]any) *Result {
	t, ok := s.tools.get(name)
	if !ok {
		s.logger.Warn("unknown tool", "tool", name)
		return errorResult(fmt.Errorf("unknown tool: %s", name))
	}

	start := time.Now()
	data, text, err := t.handler(ctx, args(arguments))
	res := &Result{Text: text, Data: data}
	if err != nil {
		res = errorResult(err)
	}
	s.logger.Debug("tool call", "tool", name, "duration", time.Since(start), "error", res.IsError)
	return res
}
