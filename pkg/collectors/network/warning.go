package network

import "fmt"

const fieldAddress = "address"

// Warning describes a recoverable, per-field collection failure. The field it
// names was left at its zero value and the record was still produced.
type Warning struct {
	Interface string
	Field     string
	Path      string
	Err       error
}

func (w *Warning) Error() string {
	if w.Path != "" {
		return fmt.Sprintf("%s: cannot read %s from %s: %v", w.Interface, w.Field, w.Path, w.Err)
	}
	return fmt.Sprintf("%s: cannot read %s: %v", w.Interface, w.Field, w.Err)
}

func (w *Warning) Unwrap() error {
	return w.Err
}
