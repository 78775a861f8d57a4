// Package antivirus screens uploaded resume files before any parser touches them.
package antivirus

import (
	"context"
	"errors"
)

// ErrUnavailable means no scanner could be reached.
var ErrUnavailable = errors.New("antivirus: no scanner available")

// Verdict is the outcome of scanning one file. A non-nil Err is treated as infected.
type Verdict struct {
	Infected bool
	Threat   string
	Scanner  string
	Err      error
}

// Rejected reports whether the file must not be processed.
func (v Verdict) Rejected() bool {
	return v.Infected || v.Err != nil
}

// Scanner inspects file contents.
type Scanner interface {
	Scan(ctx context.Context, filename string, data []byte) Verdict
	Name() string
}

// NoOp accepts everything. It is used when no daemon is configured.
type NoOp struct{}

var _ Scanner = NoOp{}

func (NoOp) Scan(context.Context, string, []byte) Verdict { return Verdict{Scanner: "noop"} }
func (NoOp) Name() string                                  { return "noop" }
