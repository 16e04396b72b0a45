//go:build darwin || linux

package lavdec

import (
	"errors"
	"fmt"
	"io"
)

// Common errors.
var (
	// ErrInvalidArgument is returned for nil/closed sessions, nil buffers
	// and other caller mistakes caught before any library call.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrBufferTooSmall is returned when the caller's output buffer cannot
	// hold the next decoded unit. Nothing is written for that unit; the
	// caller may retry with a larger buffer.
	ErrBufferTooSmall = errors.New("output buffer too small")

	// ErrCodecNotFound is returned when the named decoder is not compiled
	// into the loaded libavcodec.
	ErrCodecNotFound = errors.New("codec not found")

	// ErrInternal signals an internal consistency violation, e.g. the
	// resampler holding residual samples after a full drain. It indicates a
	// bug, not a recoverable condition.
	ErrInternal = errors.New("internal consistency error")
)

// CodecError is a non-zero result from an FFmpeg call that the decode loop
// could not absorb. Call names the library function, Code is the raw
// AVERROR value.
type CodecError struct {
	Call string
	Code int32
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("%s: %s (%d)", e.Call, avErrorString(e.Code), e.Code)
}

// codecErr wraps a library result code with its originating call.
func codecErr(call string, code int32) error {
	return &CodecError{Call: call, Code: code}
}

// errorCode flattens an error from the Go API into the negative code
// convention of the bridge boundary: AVERROR values pass through, the
// package sentinels map onto their library equivalents. Byte counts are
// always >= 0, so codes never collide with a valid result.
func errorCode(err error) int32 {
	var ce *CodecError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &ce):
		return ce.Code
	case errors.Is(err, ErrBufferTooSmall):
		return averrorBufferTooSmall
	case errors.Is(err, ErrInternal):
		return averrorBug
	case errors.Is(err, io.EOF):
		return averrorEOF
	case errors.Is(err, ErrInvalidArgument):
		return averrorEINVAL
	default:
		return averrorEINVAL
	}
}
