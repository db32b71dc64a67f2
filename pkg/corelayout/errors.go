// Package corelayout is the top-level pipeline orchestrator; this file
// defines the error taxonomy from spec §7.
package corelayout

import (
	"fmt"

	"go.uber.org/multierr"
)

// ErrorKind is the small fixed set of internal result-type variants named in
// spec §7: "internal passes use an explicit result type with a small fixed
// set of variants InvalidTree | InvalidInput | CacheMiss | Unsupported."
type ErrorKind int

const (
	InvalidTree ErrorKind = iota
	InvalidInput
	CacheMiss
	Unsupported
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidTree:
		return "InvalidTree"
	case InvalidInput:
		return "InvalidInput"
	case CacheMiss:
		return "CacheMiss"
	case Unsupported:
		return "Unsupported"
	default:
		return "Unknown"
	}
}

// LayoutError carries one ErrorKind plus context, and is the payload every
// internal pass returns instead of ad-hoc errors.
type LayoutError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *LayoutError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *LayoutError) Unwrap() error { return e.Err }

func NewError(kind ErrorKind, op string, err error) *LayoutError {
	return &LayoutError{Kind: kind, Op: op, Err: err}
}

// Fatal reports whether an ErrorKind belongs to §7 category 1 (fatal
// internal invariants) — tree inconsistency or an unbalanced display list.
// Category 2/3/4 kinds are recoverable: callers log-and-continue or turn
// them into debug-protocol error payloads instead of aborting.
func (k ErrorKind) Fatal() bool {
	return k == InvalidTree
}

// AggregateErrors combines independent soft failures from parallel-ish work
// within one frame (e.g. several iframe callbacks) into one error, per
// SPEC_FULL.md's multierr wiring note. A nil is returned if errs is empty
// after filtering nils.
func AggregateErrors(errs ...error) error {
	var out error
	for _, e := range errs {
		out = multierr.Append(out, e)
	}
	return out
}
