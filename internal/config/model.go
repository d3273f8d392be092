package config

import "github.com/zclconf/go-cty/cty"

// Model is the unified, format-agnostic representation of the entire
// application configuration.
type Model struct {
	Scheduler *Scheduler
	Workloads []*Workload
	Reports   []*Report
}

// Scheduler holds the settings of the `scheduler` block. Nil fields were not
// set in the configuration and fall back to the scheduler's defaults.
type Scheduler struct {
	Threads        *int
	MaxGroups      *int
	StartProcessor *int
}

// Workload is the format-agnostic representation of a `workload` block.
type Workload struct {
	Kind      string
	Name      string
	Arguments map[string]cty.Value
}

// ID returns the workload's address, e.g. "counter.smoke".
func (w *Workload) ID() string {
	return w.Kind + "." + w.Name
}

// Report is the format-agnostic representation of a `report` block.
type Report struct {
	Kind               string
	URL                string
	Namespace          string
	Event              string
	InsecureSkipVerify bool
}

// NewModel returns an empty model with a non-nil Scheduler.
func NewModel() *Model {
	return &Model{Scheduler: &Scheduler{}}
}
