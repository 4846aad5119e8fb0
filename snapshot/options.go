package snapshot

import (
	"github.com/hupe1980/fixedarray/array"
	"github.com/hupe1980/fixedarray/resource"
)

type options struct {
	compression  Compression
	controller   *resource.Controller
	arrayOpts    []array.Option
	skipChecksum bool
}

// Option configures snapshot reads and writes.
type Option func(*options)

// WithCompression selects the payload codec for writes. Reads detect the codec
// from the header.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithController throttles payload IO and bounds SaveAll/LoadAll concurrency.
func WithController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

// WithArrayOptions forwards options to the constructor of arrays being read.
func WithArrayOptions(opts ...array.Option) Option {
	return func(o *options) {
		o.arrayOpts = append(o.arrayOpts, opts...)
	}
}

// WithoutChecksum skips payload checksum verification on memory-mapped opens,
// leaving pages untouched until the array is accessed. Headers are always verified.
func WithoutChecksum() Option {
	return func(o *options) {
		o.skipChecksum = true
	}
}

func applyOptions(opts []Option) options {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

func (o options) concurrency() int {
	if n := o.controller.Config().MaxConcurrentTransfers; n > 0 {
		return int(n)
	}
	return 4
}
