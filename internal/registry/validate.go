package registry

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/vk/jobgridgo/internal/config"
	"github.com/vk/jobgridgo/internal/ctxlog"
)

// ValidateModel checks every workload of the model against the registry: its
// kind must be registered and every argument must exist in the kind's
// argument struct.
func (r *Registry) ValidateModel(ctx context.Context, model *config.Model) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, wl := range model.Workloads {
		reg, ok := r.Workloads[wl.Kind]
		if !ok {
			errs = append(errs, fmt.Sprintf("workload '%s': unknown kind '%s' (known: %s)", wl.ID(), wl.Kind, strings.Join(r.Kinds(), ", ")))
			continue
		}
		if reg.ArgsType == nil {
			logger.Warn("Workload kind has no declared argument type, skipping argument validation.", "kind", wl.Kind)
			continue
		}

		known := argNames(reg.ArgsType)
		var unknown []string
		for name := range wl.Arguments {
			if _, ok := known[name]; !ok {
				unknown = append(unknown, name)
			}
		}
		sort.Strings(unknown)
		for _, name := range unknown {
			errs = append(errs, fmt.Sprintf("workload '%s': unsupported argument '%s'", wl.ID(), name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// argNames returns the `jobgrid` tag names of the exported fields of t.
func argNames(t reflect.Type) map[string]struct{} {
	names := make(map[string]struct{})
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		tagName := strings.Split(field.Tag.Get("jobgrid"), ",")[0]
		if tagName != "" && tagName != "-" {
			names[tagName] = struct{}{}
		}
	}
	return names
}
