package jobsched

import "fmt"

// JobFunc is the body of a job. It receives the payload it was submitted with;
// the returned value is stored into the job's result cell, if it has one.
type JobFunc func(data any) any

// Job is a single unit of work. The scheduler borrows Data and Result: the
// submitter keeps both alive until the group is observed finished.
type Job struct {
	Fn     JobFunc
	Data   any
	Result *any
}

func (j *Job) run() {
	v := j.Fn(j.Data)
	if j.Result != nil {
		*j.Result = v
	}
}

// GroupID identifies one lifetime of a group slot. The zero value is invalid.
type GroupID struct {
	slot uint32
	gen  uint32
}

// IsZero reports whether id is the zero GroupID.
func (id GroupID) IsZero() bool {
	return id.gen == 0
}

// Slot returns the index of the physical slot backing the group.
func (id GroupID) Slot() int {
	return int(id.slot)
}

// Generation returns the slot lifetime the id was issued for.
func (id GroupID) Generation() uint32 {
	return id.gen
}

func (id GroupID) String() string {
	return fmt.Sprintf("group(%d#%d)", id.slot, id.gen)
}
