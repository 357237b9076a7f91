package engine

import "github.com/dshills/scriv/internal/engine/history"

type options struct {
	maxHistory int
}

func defaultOptions() options {
	return options{
		maxHistory: history.DefaultMaxEntries,
	}
}

// Option configures an Engine.
type Option func(*options)

// WithMaxHistory caps the number of history log entries.
// Values <= 0 fall back to the default.
func WithMaxHistory(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxHistory = n
		}
	}
}
