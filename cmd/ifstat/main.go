// Command ifstat prints, exports and cross-checks per-interface network
// statistics read from sysfs.
package main

import (
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
