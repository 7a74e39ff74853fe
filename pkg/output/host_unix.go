//go:build unix

package output

import (
	"os"

	"golang.org/x/sys/unix"
)

// CurrentHost describes the machine the snapshot is taken on.
func CurrentHost() HostInfo {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		hostname, _ := os.Hostname()
		return HostInfo{Hostname: hostname}
	}
	return HostInfo{
		Hostname: unix.ByteSliceToString(uts.Nodename[:]),
		Kernel:   unix.ByteSliceToString(uts.Sysname[:]) + " " + unix.ByteSliceToString(uts.Release[:]),
		Machine:  unix.ByteSliceToString(uts.Machine[:]),
	}
}
