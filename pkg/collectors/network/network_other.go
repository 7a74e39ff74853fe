//go:build !linux

package network

import "fmt"

// DefaultEnumerator returns the net package enumerator.
func DefaultEnumerator() Enumerator {
	return NetEnumerator{}
}

// EnumeratorByName returns the enumerator called name. Only "auto" and "net"
// are available outside Linux.
func EnumeratorByName(name string) (Enumerator, error) {
	switch name {
	case "", "auto", "net":
		return NetEnumerator{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEnumerator, name)
}
