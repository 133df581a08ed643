package service

import (
	"errors"
	"fmt"
)

// WriteOutcome is the result of one persistence step.
type WriteOutcome struct {
	Target   string
	Critical bool
	Err      error
}

// Bookkeeping collects write outcomes for one request. Non-critical failures
// are reported but never fail the request; critical ones do.
type Bookkeeping struct {
	Outcomes []WriteOutcome
}

func (b *Bookkeeping) Record(target string, critical bool, err error) {
	b.Outcomes = append(b.Outcomes, WriteOutcome{Target: target, Critical: critical, Err: err})
}

// Failed lists every failed write.
func (b *Bookkeeping) Failed() []WriteOutcome {
	var failed []WriteOutcome
	for _, o := range b.Outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// Consistent reports whether every write succeeded.
func (b *Bookkeeping) Consistent() bool {
	return len(b.Failed()) == 0
}

// Err joins the critical failures, or returns nil.
func (b *Bookkeeping) Err() error {
	var errs []error
	for _, o := range b.Outcomes {
		if o.Critical && o.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", o.Target, o.Err))
		}
	}
	return errors.Join(errs...)
}
