//go:build darwin || freebsd || openbsd || netbsd || dragonfly

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

// AvailableCPU returns the number of logical CPUs
func AvailableCPU() int {
	return runtime.NumCPU()
}
