package pipeline

import (
	"errors"
	"fmt"
)

// Code classifies pipeline failures for the caller.
type Code string

const (
	// CodeUnsupportedFormat: the subtitle input matched no known format.
	CodeUnsupportedFormat Code = "unsupported_format"
	// CodeMalformedModelResponse: one chunk's model reply never parsed.
	// Chunk-scoped and absorbed; never fatal on its own.
	CodeMalformedModelResponse Code = "malformed_model_response"
	// CodeModelUnavailable: auth/rate-limit/network failure after retries.
	// Chunk-scoped and absorbed.
	CodeModelUnavailable Code = "model_unavailable"
	// CodeFrameDecodeFailure: one moment's frame could not be decoded.
	// Moment-scoped; surfaces as an image-less note.
	CodeFrameDecodeFailure Code = "frame_decode_failure"
	// CodePipelineTimeout: the overall deadline expired before anything
	// was produced.
	CodePipelineTimeout Code = "pipeline_timeout"
	// CodeNoUsableContent: zero cues or zero moments after all recovery.
	CodeNoUsableContent Code = "no_usable_content"
)

// Error is the structured error returned across the pipeline boundary.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf extracts the pipeline error code, or empty for foreign errors.
func CodeOf(err error) Code {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}
