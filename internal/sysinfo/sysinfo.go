// Package sysinfo carries the ambient concerns of a large encode/decode
// run: raising the open-file rlimit up front, and reporting progress with
// elapsed/ETA and host telemetry alongside it.
package sysinfo

import (
	"fmt"
	"log"
	"syscall"
)

// RaiseFileLimit raises the process's open-file rlimit to want (clamped to
// the hard limit), logging rather than failing the caller if the platform
// refuses — a large encode may hold many concurrent AVIF encodes' buffers
// and temp handles open at once.
func RaiseFileLimit(want uint64) {
	var rLimit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Printf("[!] could not read open-file limit: %v", err)
		return
	}

	if rLimit.Cur >= want {
		return
	}
	rLimit.Cur = want
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Printf("[!] could not raise open-file limit: %v", err)
		return
	}
	fmt.Printf("[*] open-file limit raised to %d\n", rLimit.Cur)
}
