//go:build !unix

package output

import (
	"os"
	"runtime"
)

// CurrentHost describes the machine the snapshot is taken on.
func CurrentHost() HostInfo {
	hostname, _ := os.Hostname()
	return HostInfo{Hostname: hostname, Kernel: runtime.GOOS, Machine: runtime.GOARCH}
}
