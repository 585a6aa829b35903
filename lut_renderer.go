package crt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gogpu/crt/internal/kernel"
	"github.com/gogpu/crt/internal/parallel"
	"github.com/gogpu/crt/shadertypes"
)

// FilterDir selects the base directory LUT paths are resolved against.
type FilterDir int

const (
	// FilterDirSupport resolves against the user configuration directory,
	// where bundled filters are installed.
	FilterDirSupport FilterDir = 0
	// FilterDirCache resolves against the user cache directory, where
	// downloaded filters are stored.
	FilterDirCache FilterDir = 1
)

// filterSubdir is the directory below the base directory holding LUTs.
const filterSubdir = "crt"

// LutFilterRenderer applies a lookup table, film grain and a vignette.
//
// Parameters may be changed from any goroutine while frames are rendered;
// each Render uses a consistent snapshot.
type LutFilterRenderer struct {
	opts  options
	stage stage

	mu     sync.Mutex
	lut    *LUT
	params LutParams
}

var _ FilterRenderer = (*LutFilterRenderer)(nil)

// NewLutFilterRenderer creates an unprepared renderer with no LUT and all
// parameters zero.
func NewLutFilterRenderer(opts ...Option) *LutFilterRenderer {
	return &LutFilterRenderer{opts: newOptions(opts)}
}

// Name implements FilterRenderer.
func (r *LutFilterRenderer) Name() string { return "crt-lut" }

// IsPrepared implements FilterRenderer.
func (r *LutFilterRenderer) IsPrepared() bool { return r.stage.isPrepared() }

// Prepare implements FilterRenderer.
func (r *LutFilterRenderer) Prepare(input FormatDescription, outputRetainedBufferCountHint int) error {
	return r.stage.prepare(r.Name(), input, outputRetainedBufferCountHint, r.opts.workers)
}

// Reset implements FilterRenderer. The LUT and parameters are kept.
func (r *LutFilterRenderer) Reset() { r.stage.reset() }

// InputFormat implements FilterRenderer.
func (r *LutFilterRenderer) InputFormat() (FormatDescription, bool) { return r.stage.format() }

// OutputFormat implements FilterRenderer. Output frames have the input
// format.
func (r *LutFilterRenderer) OutputFormat() (FormatDescription, bool) { return r.stage.format() }

// SetColorFilter configures the whole filter at once. Nil parameters are
// treated as 0. lutPath is relative to the directory selected by dir; a nil
// path, or one that cannot be loaded, clears the LUT. The returned error
// reports a LUT load failure; the other parameters are applied regardless.
func (r *LutFilterRenderer) SetColorFilter(lutPath *string, intensity, grain, vignette *float32, dir FilterDir) error {
	var (
		lut     *LUT
		loadErr error
	)
	if lutPath != nil {
		lut, loadErr = r.loadFilter(*lutPath, dir)
		if loadErr != nil {
			Logger().Warn("crt: LUT cleared", "path", *lutPath, "dir", int(dir), "err", loadErr)
		}
	}

	r.mu.Lock()
	r.lut = lut
	r.params = LutParams{
		Intensity: valueOrZero(intensity),
		Grain:     valueOrZero(grain),
		Vignette:  valueOrZero(vignette),
	}
	r.mu.Unlock()
	return loadErr
}

// SetColorFilterIntensity changes only the LUT intensity.
func (r *LutFilterRenderer) SetColorFilterIntensity(intensity float32) {
	r.mu.Lock()
	r.params.Intensity = intensity
	r.mu.Unlock()
}

// SetLut replaces the LUT. Nil disables the LUT stage.
func (r *LutFilterRenderer) SetLut(lut *LUT) {
	r.mu.Lock()
	r.lut = lut
	r.mu.Unlock()
}

// SetParams replaces all scalar parameters.
func (r *LutFilterRenderer) SetParams(p LutParams) {
	r.mu.Lock()
	r.params = p
	r.mu.Unlock()
}

// Params returns the current LUT and parameters.
func (r *LutFilterRenderer) Params() (*LUT, LutParams) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lut, r.params
}

// FilterPath resolves a LUT path against the directory selected by dir.
func (r *LutFilterRenderer) FilterPath(lutPath string, dir FilterDir) (string, error) {
	base, err := r.filterDir(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(base, filepath.Clean("/"+lutPath)), nil
}

func (r *LutFilterRenderer) filterDir(dir FilterDir) (string, error) {
	if dir == FilterDirCache {
		if r.opts.cacheDir != "" {
			return r.opts.cacheDir, nil
		}
		base, err := os.UserCacheDir()
		if err != nil {
			return "", fmt.Errorf("crt: filter cache directory: %w", err)
		}
		return filepath.Join(base, filterSubdir), nil
	}
	if r.opts.supportDir != "" {
		return r.opts.supportDir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("crt: filter support directory: %w", err)
	}
	return filepath.Join(base, filterSubdir), nil
}

func (r *LutFilterRenderer) loadFilter(lutPath string, dir FilterDir) (*LUT, error) {
	path, err := r.FilterPath(lutPath, dir)
	if err != nil {
		return nil, err
	}
	return LoadLUT(path)
}

// Render implements FilterRenderer. The returned frame belongs to the
// renderer's pool; call Release when done with it.
func (r *LutFilterRenderer) Render(ctx context.Context, frame *Frame) (*Frame, error) {
	out, workers, err := r.stage.begin(frame)
	if err != nil {
		return nil, err
	}
	defer r.stage.end()

	lut, p := r.Params()

	if a := r.opts.accelerator(); a != nil && a.CanAccelerate(AccelLut) {
		err := a.ApplyLut(ctx, out, frame, lut, p)
		if err == nil {
			return out, nil
		}
		if ctx.Err() != nil {
			out.Release()
			return nil, ctx.Err()
		}
		logFallback(a, "lut", err)
	}

	if err := r.renderCPU(ctx, workers, out, frame, lut, p); err != nil {
		out.Release()
		return nil, err
	}
	return out, nil
}

// renderCPU binds the pass resources at their slots and dispatches the
// reference kernel.
func (r *LutFilterRenderer) renderCPU(ctx context.Context, workers *parallel.WorkerPool, dst, src *Frame, lut *LUT, p LutParams) error {
	in := src.texture()
	out := kernel.NewTexture(dst.width, dst.height)

	var args kernel.LutArgs
	args.SetTexture(shadertypes.TextureIndexInput, in)
	args.SetTexture(shadertypes.TextureIndexOutput, out)
	if lut != nil {
		args.SetTexture(shadertypes.TextureIndexLut, lut.texture())
	}
	args.SetBytes(shadertypes.BufferIndexIntensity, shadertypes.EncodeScalar(p.Intensity))
	args.SetBytes(shadertypes.BufferIndexGrain, shadertypes.EncodeScalar(p.Grain))
	args.SetBytes(shadertypes.BufferIndexVignette, shadertypes.EncodeScalar(p.Vignette))

	k, err := kernel.LutFilter(&args)
	if err != nil {
		return fmt.Errorf("crt: lut kernel: %w", err)
	}
	grid := kernel.GridFor(dst.width, dst.height, r.opts.groupW, r.opts.groupH)
	Logger().Debug("crt: lut dispatch", "groups_x", grid.GroupsX, "groups_y", grid.GroupsY, "lut", lut != nil)
	if err := kernel.Dispatch(ctx, workers, grid, k); err != nil {
		return err
	}
	dst.storeTexture(out)
	return nil
}

func logFallback(a Accelerator, pass string, err error) {
	if errors.Is(err, ErrFallbackToCPU) {
		Logger().Debug("crt: CPU fallback", "accelerator", a.Name(), "pass", pass)
		return
	}
	Logger().Warn("crt: accelerator failed, using CPU", "accelerator", a.Name(), "pass", pass, "err", err)
}

func valueOrZero(v *float32) float32 {
	if v == nil {
		return 0
	}
	return *v
}
