package crt

import (
	"runtime"

	"github.com/gogpu/crt/shadertypes"
)

// Option configures a renderer during creation.
//
// Example:
//
//	// CPU only, four workers
//	r := crt.NewLutFilterRenderer(crt.WithoutAccelerator(), crt.WithWorkers(4))
type Option func(*options)

type options struct {
	workers        int
	groupW, groupH int

	accel      Accelerator
	accelSet   bool
	supportDir string
	cacheDir   string
}

func defaultOptions() options {
	return options{
		workers: runtime.GOMAXPROCS(0),
		groupW:  shadertypes.WorkgroupSize,
		groupH:  shadertypes.WorkgroupSize,
	}
}

func newOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithWorkers sets the number of CPU workers used for dispatches.
// Values below 1 keep the default of GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithThreadgroupSize sets the CPU threadgroup size. It only changes how
// work is split between workers, not the result. The GPU always uses the
// workgroup size compiled into the shaders.
func WithThreadgroupSize(w, h int) Option {
	return func(o *options) {
		if w > 0 && h > 0 {
			o.groupW, o.groupH = w, h
		}
	}
}

// WithAccelerator uses a instead of the registered accelerator.
func WithAccelerator(a Accelerator) Option {
	return func(o *options) {
		o.accel, o.accelSet = a, true
	}
}

// WithoutAccelerator forces CPU rendering.
func WithoutAccelerator() Option {
	return WithAccelerator(nil)
}

// WithFilterDirs overrides the base directories used to resolve LUT paths
// for FilterDirSupport and FilterDirCache. Empty strings keep the default.
func WithFilterDirs(support, cache string) Option {
	return func(o *options) {
		o.supportDir, o.cacheDir = support, cache
	}
}

// accelerator returns the accelerator a renderer should try, or nil.
func (o *options) accelerator() Accelerator {
	if o.accelSet {
		return o.accel
	}
	return CurrentAccelerator()
}
