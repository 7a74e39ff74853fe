//go:build !linux

package crosscheck

// DefaultSources returns no sources: procfs and netlink are Linux only.
func DefaultSources() []CounterSource {
	return nil
}
