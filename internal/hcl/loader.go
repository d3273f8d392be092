package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/jobgridgo/internal/config"
	"github.com/vk/jobgridgo/internal/ctxlog"
	"github.com/vk/jobgridgo/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file found under the given paths and merges the
// blocks into one model. A path may be a file or a directory.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, config.Converter, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	hclFiles, err := fsutil.FindFilesByExtension(paths, ".hcl")
	if err != nil {
		return nil, nil, err
	}
	if len(hclFiles) == 0 {
		return nil, nil, fmt.Errorf("no .hcl files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	model := config.NewModel()
	seenScheduler := ""
	seenWorkloads := make(map[string]string)
	parser := hclparse.NewParser()
	evalCtx := newEvalContext()

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &root)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, s := range root.Scheduler {
			if seenScheduler != "" {
				return nil, nil, fmt.Errorf("duplicate scheduler block in %s, first defined in %s", file, seenScheduler)
			}
			seenScheduler = file
			model.Scheduler = &config.Scheduler{
				Threads:        s.Threads,
				MaxGroups:      s.MaxGroups,
				StartProcessor: s.StartProcessor,
			}
		}

		for _, w := range root.Workloads {
			wl, err := l.translateWorkload(w, evalCtx)
			if err != nil {
				return nil, nil, fmt.Errorf("workload %s.%s in %s: %w", w.Kind, w.Name, file, err)
			}
			if prev, dup := seenWorkloads[wl.ID()]; dup {
				return nil, nil, fmt.Errorf("duplicate workload %s in %s, first defined in %s", wl.ID(), file, prev)
			}
			seenWorkloads[wl.ID()] = file
			model.Workloads = append(model.Workloads, wl)
		}

		for _, r := range root.Reports {
			model.Reports = append(model.Reports, &config.Report{
				Kind:               r.Kind,
				URL:                r.URL,
				Namespace:          r.Namespace,
				Event:              r.Event,
				InsecureSkipVerify: r.InsecureSkipVerify,
			})
		}
	}

	logger.Debug("HCL loading complete.", "workloads", len(model.Workloads), "reports", len(model.Reports), "scheduler_block", seenScheduler != "")
	return model, NewConverter(), nil
}

// translateWorkload evaluates the arguments of a workload block.
func (l *Loader) translateWorkload(w *workloadBlock, evalCtx *hcl.EvalContext) (*config.Workload, error) {
	args, diags := evalAttributes(w.Body, evalCtx)
	if diags.HasErrors() {
		return nil, diags
	}
	return &config.Workload{
		Kind:      w.Kind,
		Name:      w.Name,
		Arguments: args,
	}, nil
}
