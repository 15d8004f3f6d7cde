//go:build linux

package osdep

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// ResourceUsage returns user and system CPU time (nanoseconds) consumed by the process
func ResourceUsage() (int64, int64) {
	var usage unix.Rusage
	var utime, stime int64
	if err := unix.Getrusage(unix.RUSAGE_SELF, &usage); err == nil {
		utime = usage.Utime.Nano()
		stime = usage.Stime.Nano()
	}
	return utime, stime
}

// AvailableCPU returns the number of CPUs this process is allowed to run on.
// It takes the affinity mask into account (taskset, cgroup cpusets).
func AvailableCPU() int {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return runtime.NumCPU()
	}
	if n := set.Count(); n > 0 {
		return n
	}
	return runtime.NumCPU()
}
