package config

import (
	"context"

	"github.com/zclconf/go-cty/cty"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads configuration from the given paths, translates it into the
	// format-agnostic model, and returns a matching Converter.
	Load(ctx context.Context, paths ...string) (*Model, Converter, error)
}

// Converter is the interface for a format-specific data binding and type
// conversion implementation. It acts as the bridge between evaluated
// configuration values and the Go types used by workloads.
type Converter interface {
	// DecodeArguments decodes evaluated workload arguments into the fields of
	// target, a non-nil pointer to a struct. Fields are matched by their
	// `jobgrid` tag. Fields without a matching argument keep their current
	// value, which lets callers pre-fill defaults. Arguments without a
	// matching field are an error.
	DecodeArguments(ctx context.Context, target any, args map[string]cty.Value) error
}
