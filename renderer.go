// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package crt

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/crt/internal/parallel"
)

// Renderer errors.
var (
	// ErrNotPrepared is returned by Render before Prepare or after Reset.
	ErrNotPrepared = errors.New("crt: renderer is not prepared")

	// ErrFormatMismatch is returned for a frame whose description differs
	// from the prepared input format.
	ErrFormatMismatch = errors.New("crt: frame format does not match")
)

// FilterRenderer turns input frames into output frames of a prepared
// format.
//
// A renderer is prepared once per input format. Render may then be called
// from any goroutine; output frames come from a pool sized by the retained
// buffer count hint and go back with Frame.Release.
type FilterRenderer interface {
	// Name identifies the renderer in logs.
	Name() string

	// IsPrepared reports whether Render may be called.
	IsPrepared() bool

	// Prepare allocates resources for input frames described by input.
	// outputRetainedBufferCountHint is the number of output frames the
	// caller may hold at once; 0 means unbounded.
	Prepare(input FormatDescription, outputRetainedBufferCountHint int) error

	// Reset releases the resources acquired by Prepare.
	Reset()

	// InputFormat returns the prepared input format.
	InputFormat() (FormatDescription, bool)

	// OutputFormat returns the prepared output format.
	OutputFormat() (FormatDescription, bool)

	// Render filters frame into a new output frame.
	Render(ctx context.Context, frame *Frame) (*Frame, error)
}

// stage holds the prepared state shared by renderers: the input format,
// the output pool and the CPU workers.
type stage struct {
	mu       sync.RWMutex
	prepared bool
	input    FormatDescription
	pool     *FramePool
	workers  *parallel.WorkerPool
}

func (s *stage) prepare(name string, input FormatDescription, hint, workers int) error {
	if err := input.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	s.input = input
	s.pool = NewFramePool(hint)
	s.workers = parallel.NewWorkerPool(workers)
	s.prepared = true
	Logger().Info("crt: renderer prepared", "renderer", name, "input", input.String(), "retained", hint)
	return nil
}

func (s *stage) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *stage) resetLocked() {
	if s.workers != nil {
		s.workers.Close()
		s.workers = nil
	}
	if s.pool != nil {
		s.pool.Clear()
		s.pool = nil
	}
	s.prepared = false
	s.input = FormatDescription{}
}

func (s *stage) isPrepared() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prepared
}

func (s *stage) format() (FormatDescription, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.input, s.prepared
}

// begin validates frame against the prepared format and takes an output
// frame from the pool. The caller must call end when done with the
// workers.
func (s *stage) begin(frame *Frame) (*Frame, *parallel.WorkerPool, error) {
	s.mu.RLock()
	if !s.prepared {
		s.mu.RUnlock()
		return nil, nil, ErrNotPrepared
	}
	if frame == nil {
		s.mu.RUnlock()
		return nil, nil, fmt.Errorf("%w: nil frame", ErrFormatMismatch)
	}
	if got := frame.Description(); got != s.input {
		s.mu.RUnlock()
		return nil, nil, fmt.Errorf("%w: got %v, prepared for %v", ErrFormatMismatch, got, s.input)
	}
	out, err := s.pool.Get(s.input)
	if err != nil {
		s.mu.RUnlock()
		return nil, nil, err
	}
	return out, s.workers, nil
}

func (s *stage) end() {
	s.mu.RUnlock()
}
