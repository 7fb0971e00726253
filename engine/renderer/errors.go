package renderer

import (
	"errors"
	"fmt"
)

var (
	// ErrNoUniformBuffer is returned when drawing or writing before InitUniformBuffer.
	ErrNoUniformBuffer = errors.New("uniform buffer not initialized")

	// ErrFrameInProgress is returned by BeginFrame while a previous frame is still held.
	ErrFrameInProgress = errors.New("previous frame not yet presented")
)

// BufferBuildError reports a uniform buffer that could not be allocated.
type BufferBuildError struct {
	Size uint64
	Err  error
}

func (e *BufferBuildError) Error() string {
	return fmt.Sprintf("build uniform buffer of %d bytes: %v", e.Size, e.Err)
}

func (e *BufferBuildError) Unwrap() error {
	return e.Err
}
