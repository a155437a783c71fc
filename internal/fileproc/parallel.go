// Package fileproc provides concurrent file processing utilities.
package fileproc

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/sourcegraph/conc/pool"
)

// ProcessingError represents an error that occurred while processing a file.
type ProcessingError struct {
	Path string
	Err  error
}

func (e ProcessingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e ProcessingError) Unwrap() error {
	return e.Err
}

// ProcessingErrors collects multiple file processing errors.
type ProcessingErrors struct {
	Errors []ProcessingError
	mu     sync.Mutex
}

// Add appends an error to the collection (thread-safe).
func (e *ProcessingErrors) Add(path string, err error) {
	e.mu.Lock()
	e.Errors = append(e.Errors, ProcessingError{Path: path, Err: err})
	e.mu.Unlock()
}

// HasErrors returns true if any errors were collected.
func (e *ProcessingErrors) HasErrors() bool {
	if e == nil {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.Errors) > 0
}

// Len returns the number of collected errors.
func (e *ProcessingErrors) Len() int {
	if e == nil {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.Errors)
}

// Error implements the error interface.
func (e *ProcessingErrors) Error() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d files failed to process (first: %v)", len(e.Errors), e.Errors[0])
}

// Unwrap returns nil (ProcessingErrors doesn't wrap a single error).
func (e *ProcessingErrors) Unwrap() error {
	return nil
}

// Sort orders the collected errors by path so reports are stable.
func (e *ProcessingErrors) Sort() {
	e.mu.Lock()
	defer e.mu.Unlock()
	sort.SliceStable(e.Errors, func(i, j int) bool {
		return e.Errors[i].Path < e.Errors[j].Path
	})
}

// DefaultWorkerMultiplier is the multiplier applied to NumCPU for worker count.
const DefaultWorkerMultiplier = 2

// DefaultWorkers returns the default pool size.
func DefaultWorkers() int {
	return runtime.NumCPU() * DefaultWorkerMultiplier
}

// ProgressFunc is called after each file is processed.
type ProgressFunc func()

// ErrorFunc is called when a file processing error occurs.
type ErrorFunc func(path string, err error)

type options struct {
	workers    int
	onProgress ProgressFunc
	onError    ErrorFunc
}

// Option configures a parallel run.
type Option func(*options)

// WithWorkers caps the number of goroutines. Values <= 0 use DefaultWorkers.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithProgress registers a callback invoked once per item, success or not.
func WithProgress(fn ProgressFunc) Option {
	return func(o *options) {
		o.onProgress = fn
	}
}

// WithErrorHandler registers a callback invoked for each failed item.
func WithErrorHandler(fn ErrorFunc) Option {
	return func(o *options) {
		o.onError = fn
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers <= 0 {
		o.workers = DefaultWorkers()
	}
	return o
}

// MapIndexed processes items in parallel and returns the successful results
// in input order. key names an item in error reports. Failed items are
// omitted from the results and recorded in the returned ProcessingErrors,
// which is nil when every item succeeded. Items not started before ctx is
// canceled are recorded with the context error.
func MapIndexed[I, T any](ctx context.Context, items []I, key func(I) string, fn func(I) (T, error), opts ...Option) ([]T, *ProcessingErrors) {
	if len(items) == 0 {
		return nil, nil
	}

	o := buildOptions(opts)
	slots := make([]T, len(items))
	ok := make([]bool, len(items))
	errs := &ProcessingErrors{}

	fail := func(item I, err error) {
		path := key(item)
		errs.Add(path, err)
		if o.onError != nil {
			o.onError(path, err)
		}
	}

	p := pool.New().WithMaxGoroutines(o.workers).WithContext(ctx)
	for i, item := range items {
		p.Go(func(ctx context.Context) error {
			if o.onProgress != nil {
				defer o.onProgress()
			}

			select {
			case <-ctx.Done():
				fail(item, ctx.Err())
				return nil
			default:
			}

			result, err := fn(item)
			if err != nil {
				fail(item, err)
				return nil // one bad file never stops the pool
			}

			// Each goroutine owns its own index.
			slots[i] = result
			ok[i] = true
			return nil
		})
	}
	_ = p.Wait()

	results := make([]T, 0, len(items))
	for i := range slots {
		if ok[i] {
			results = append(results, slots[i])
		}
	}

	if !errs.HasErrors() {
		return results, nil
	}
	errs.Sort()
	return results, errs
}

// ForEachFile processes file paths in parallel, preserving input order in
// the results.
func ForEachFile[T any](ctx context.Context, files []string, fn func(string) (T, error), opts ...Option) ([]T, *ProcessingErrors) {
	return MapIndexed(ctx, files, func(path string) string { return path }, fn, opts...)
}
