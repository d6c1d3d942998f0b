package nshuffle

import "context"

// Option configures a single Shuffle or ExtendedShuffle call.
type Option func(*options)

type options struct {
	maxAttempts int
	ctx         context.Context
}

func newOptions(opts []Option) options {
	o := options{ctx: context.Background()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithMaxAttempts limits the number of permutations drawn. A value of zero
// or less leaves the call unbounded, which is the default.
func WithMaxAttempts(n int) Option {
	return func(o *options) {
		o.maxAttempts = n
	}
}

// WithContext stops the call once ctx is done. The context is checked
// before every draw.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}
