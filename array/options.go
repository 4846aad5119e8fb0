package array

// Allocator returns size bytes of zeroed storage aligned to at least the
// element item size.
type Allocator func(size int) ([]byte, error)

type options struct {
	alloc    Allocator
	readOnly bool
	hooks    []func() error
}

// Option configures array construction.
type Option func(*options)

// WithAllocator replaces the default aligned heap allocator.
//
// The facade uses this to charge allocations against a memory budget.
func WithAllocator(alloc Allocator) Option {
	return func(o *options) {
		o.alloc = alloc
	}
}

// WithReadOnly marks the array read-only: element writes fail with ErrReadOnly
// and exported descriptors are flagged read-only.
func WithReadOnly() Option {
	return func(o *options) {
		o.readOnly = true
	}
}

// WithReleaseHook registers fn to run when the array is released.
// Hooks run in reverse registration order.
func WithReleaseHook(fn func() error) Option {
	return func(o *options) {
		if fn != nil {
			o.hooks = append(o.hooks, fn)
		}
	}
}

func applyOptions(opts []Option) options {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
