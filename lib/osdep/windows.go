//go:build windows

package osdep

import (
	"runtime"

	"golang.org/x/sys/windows"
)

// ResourceUsage returns user and system CPU time (nanoseconds) consumed by the process
func ResourceUsage() (int64, int64) {
	var creation, exit, kernel, user windows.Filetime
	err := windows.GetProcessTimes(windows.CurrentProcess(), &creation, &exit, &kernel, &user)
	if err != nil {
		return 0, 0
	}
	return filetimeDuration(user), filetimeDuration(kernel)
}

// durations are given in 100-nanosecond intervals
func filetimeDuration(ft windows.Filetime) int64 {
	return (int64(ft.HighDateTime)<<32 | int64(ft.LowDateTime)) * 100
}

// AvailableCPU returns the number of logical CPUs
func AvailableCPU() int {
	return runtime.NumCPU()
}
