//go:build !linux

package jobsched

// pinThread is a no-op on platforms without a thread affinity API.
func pinThread(cpu int) error {
	return nil
}
