package output

import "strings"

// HostInfo identifies the host in rendered output.
type HostInfo struct {
	Hostname string `json:"hostname"`
	Kernel   string `json:"kernel,omitempty"`
	Machine  string `json:"machine,omitempty"`
}

func (h HostInfo) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{h.Hostname, h.Kernel, h.Machine} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "unknown host"
	}
	return strings.Join(parts, " ")
}
