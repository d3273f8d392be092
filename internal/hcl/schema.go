package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Scheduler []*schedulerBlock `hcl:"scheduler,block"`
	Workloads []*workloadBlock  `hcl:"workload,block"`
	Reports   []*reportBlock    `hcl:"report,block"`
}

// schedulerBlock is the `scheduler` block.
type schedulerBlock struct {
	Threads        *int `hcl:"threads,optional"`
	MaxGroups      *int `hcl:"max_groups,optional"`
	StartProcessor *int `hcl:"start_processor,optional"`
}

// workloadBlock is a `workload "<kind>" "<name>"` block. Its arguments depend
// on the kind and are evaluated later as plain attributes.
type workloadBlock struct {
	Kind string   `hcl:"kind,label"`
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

// reportBlock is a `report "<kind>"` block.
type reportBlock struct {
	Kind               string `hcl:"kind,label"`
	URL                string `hcl:"url"`
	Namespace          string `hcl:"namespace,optional"`
	Event              string `hcl:"event,optional"`
	InsecureSkipVerify bool   `hcl:"insecure_skip_verify,optional"`
}
