// Package commands provides the shared context type and all CLI subcommands.
package commands

import (
	"context"

	"github.com/f9-o/apiprobe/internal/core/config"
	"github.com/f9-o/apiprobe/internal/core/logger"
	"github.com/f9-o/apiprobe/internal/probe"
	"github.com/f9-o/apiprobe/pkg/pprint"
)

// contextKey is the key type for values stored in a command context.
type contextKey string

const runtimeContextKey contextKey = "apiprobe.runtime"

// GlobalFlags holds the parsed global flags for use by subcommands.
type GlobalFlags struct {
	Debug bool
}

// Runtime is the shared dependency bundle injected into each subcommand via context.
type Runtime struct {
	Config *config.Config
	Log    *logger.Logger
	Out    *pprint.Printer
	Client *probe.Client
	RunID  string
	Flags  GlobalFlags
}

// NewContext returns a new context carrying the Runtime.
func NewContext(parent context.Context, rt *Runtime) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithValue(parent, runtimeContextKey, rt)
}

// Lookup returns the Runtime carried by ctx, if any.
func Lookup(ctx context.Context) (*Runtime, bool) {
	if ctx == nil {
		return nil, false
	}
	rt, ok := ctx.Value(runtimeContextKey).(*Runtime)
	return rt, ok && rt != nil
}

// FromContext extracts the Runtime from ctx. Panics if not present (programming error).
func FromContext(ctx context.Context) *Runtime {
	rt, ok := ctx.Value(runtimeContextKey).(*Runtime)
	if !ok || rt == nil {
		panic("apiprobe: Runtime not found in context — missing PersistentPreRunE?")
	}
	return rt
}
