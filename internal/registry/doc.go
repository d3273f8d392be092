// Package registry provides the central "glue" for the workload module system.
//
// The Registry maps the workload kinds used in configuration files (e.g. the
// "counter" in `workload "counter" "smoke" {}`) to the compiled Go functions
// that drive that kind of work through the job scheduler, together with the
// argument struct each function expects.
package registry
