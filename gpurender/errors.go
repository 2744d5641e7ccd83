package gpurender

import "fmt"

// ShaderCompileFailedError wraps a GLSL compiler failure, with the
// driver's info log attached.
type ShaderCompileFailedError struct {
	Stage  string // "vertex" or "fragment"
	Source string
}

func (e *ShaderCompileFailedError) Error() string {
	return fmt.Sprintf("gpurender: %s shader compile failed: %s", e.Stage, e.Source)
}

// ShaderLinkFailedError wraps a GL program link failure.
type ShaderLinkFailedError struct {
	Log string
}

func (e *ShaderLinkFailedError) Error() string {
	return fmt.Sprintf("gpurender: program link failed: %s", e.Log)
}

// ResourceAllocationFailedError covers any GL object (buffer, texture,
// VAO) that failed to allocate.
type ResourceAllocationFailedError struct {
	Resource string
	Cause    error
}

func (e *ResourceAllocationFailedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("gpurender: failed to allocate %s: %v", e.Resource, e.Cause)
	}
	return fmt.Sprintf("gpurender: failed to allocate %s", e.Resource)
}

func (e *ResourceAllocationFailedError) Unwrap() error {
	return e.Cause
}

// OutOfBoundsError is returned by Batch cell-mutation calls given
// coordinates outside the grid; the call fails without silently
// clamping and the batch remains valid for further writes.
type OutOfBoundsError struct {
	X, Y          int
	Width, Height int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("gpurender: cell (%d,%d) is out of bounds for a %dx%d grid", e.X, e.Y, e.Width, e.Height)
}

// BatchInProgressError is returned by TerminalGrid.Batch when a
// previously obtained Batch has not yet been released via Flush.
type BatchInProgressError struct{}

func (e *BatchInProgressError) Error() string {
	return "gpurender: a batch is already in progress for this grid"
}
