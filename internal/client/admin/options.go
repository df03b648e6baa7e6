package admin

import (
	"fmt"
	"time"
)

const DefaultTimeout = 15 * time.Second

// DuplicatePolicy decides what a second delete of an id already in flight
// does.
type DuplicatePolicy string

const (
	// DuplicateWait joins the in-flight request and returns its result.
	DuplicateWait DuplicatePolicy = "wait"
	// DuplicateReject fails fast with ErrAlreadyInProgress.
	DuplicateReject DuplicatePolicy = "reject"
)

func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch p := DuplicatePolicy(s); p {
	case DuplicateWait, DuplicateReject:
		return p, nil
	case "":
		return DuplicateWait, nil
	default:
		return "", fmt.Errorf("unknown duplicate delete policy %q", s)
	}
}

type options struct {
	timeout    time.Duration
	duplicates DuplicatePolicy
}

type Option func(*options)

// WithTimeout bounds every outbound request. Non-positive values keep the
// default.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

func WithDuplicatePolicy(p DuplicatePolicy) Option {
	return func(o *options) {
		if p != "" {
			o.duplicates = p
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{timeout: DefaultTimeout, duplicates: DuplicateWait}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
