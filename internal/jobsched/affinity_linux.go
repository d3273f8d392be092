//go:build linux

package jobsched

import "golang.org/x/sys/unix"

// pinThread restricts the calling OS thread to a single CPU.
func pinThread(cpu int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	return unix.SchedSetaffinity(0, &set)
}
