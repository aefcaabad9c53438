package renderer

import "errors"

var (
	// ErrEnvironmentUnavailable is returned when no adapter, device or surface configuration can be obtained.
	ErrEnvironmentUnavailable = errors.New("graphics environment unavailable")

	// ErrResourceCreation is returned when a buffer, texture, sampler, layout, shader or pipeline cannot be created.
	ErrResourceCreation = errors.New("gpu resource creation failed")

	// ErrSubmission is returned when a frame's uploads, encoding, submission or presentation fail.
	ErrSubmission = errors.New("frame submission failed")

	// ErrNotReady is returned by Render before Initialize has created the pipeline.
	ErrNotReady = errors.New("renderer not initialized")
)
