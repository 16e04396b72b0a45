//go:build darwin || linux

package lavdec

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"syscall"
	"testing"
)

func TestFFErrTag(t *testing.T) {
	tests := []struct {
		name string
		got  int32
		want int32
	}{
		{"AVERROR_EOF", averrorEOF, -0x20464F45},
		{"AVERROR_INVALIDDATA", averrorInvalidData, -0x41444E49},
		{"AVERROR_BUFFER_TOO_SMALL", averrorBufferTooSmall, -0x53465542},
		{"AVERROR_BUG", averrorBug, -0x21475542},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %d, want %d", tt.name, tt.got, tt.want)
		}
	}
}

func TestAverrorErrno(t *testing.T) {
	if averrorEAGAIN != -int32(syscall.EAGAIN) {
		t.Errorf("averrorEAGAIN = %d, want %d", averrorEAGAIN, -int32(syscall.EAGAIN))
	}
	if averrorEINVAL >= 0 || averrorENOMEM >= 0 {
		t.Error("errno-derived AVERROR codes must be negative")
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int32
	}{
		{"nil", nil, 0},
		{"buffer too small", ErrBufferTooSmall, averrorBufferTooSmall},
		{"wrapped buffer too small", fmt.Errorf("audio: %w", ErrBufferTooSmall), averrorBufferTooSmall},
		{"internal", ErrInternal, averrorBug},
		{"wrapped internal", fmt.Errorf("%w: residual samples", ErrInternal), averrorBug},
		{"eof", io.EOF, averrorEOF},
		{"invalid argument", ErrInvalidArgument, averrorEINVAL},
		{"codec error passes through", codecErr("avcodec_send_packet", -42), -42},
		{"unknown error", errors.New("boom"), averrorEINVAL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorCode(tt.err); got != tt.want {
				t.Errorf("errorCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCodecError_Error(t *testing.T) {
	err := codecErr("avcodec_open2", averrorInvalidData)
	msg := err.Error()
	if !strings.Contains(msg, "avcodec_open2") {
		t.Errorf("CodecError message %q does not name the failing call", msg)
	}

	var ce *CodecError
	if !errors.As(err, &ce) || ce.Code != averrorInvalidData {
		t.Errorf("CodecError does not expose its code: %v", err)
	}
}
