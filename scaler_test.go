//go:build darwin || linux

package lavdec

import (
	"errors"
	"testing"
)

// newTestFrame allocates a blank YUV420P picture through libavutil so the
// scaler tests do not depend on a real video bitstream.
func newTestFrame(t *testing.T, width, height int) *Frame {
	t.Helper()
	requireFFmpeg(t)

	ptr := avFrameAlloc()
	if ptr == 0 {
		t.Fatal("av_frame_alloc returned nil")
	}
	frameSetVideoParams(ptr, int32(width), int32(height), 0)
	if ret := avFrameGetBuffer(ptr, 0); ret < 0 {
		freeFramePtr(ptr)
		t.Fatalf("av_frame_get_buffer: %s", avErrorString(ret))
	}
	f := &Frame{ptr: ptr}
	t.Cleanup(f.Free)
	return f
}

func TestFrameAccessors(t *testing.T) {
	f := newTestFrame(t, 64, 48)

	if f.Width() != 64 || f.Height() != 48 {
		t.Errorf("frame is %dx%d, want 64x48", f.Width(), f.Height())
	}
	frameSetPts(f.ptr, 90210)
	if got := f.PTS(); got != 90210 {
		t.Errorf("PTS = %d, want 90210", got)
	}

	f.Free()
	if f.Width() != 0 || f.Height() != 0 || f.PTS() != 0 {
		t.Error("accessors on a freed frame must return 0")
	}
	f.Free() // idempotent
}

func TestFrameAccessors_Nil(t *testing.T) {
	var f *Frame
	if f.Width() != 0 || f.Height() != 0 || f.PTS() != 0 {
		t.Error("nil frame accessors must return 0")
	}
	f.Free()
}

func TestScaler_Downscale(t *testing.T) {
	f := newTestFrame(t, 64, 48)

	s, err := NewScaler(f, 32, 24)
	if err != nil {
		t.Fatalf("NewScaler: %v", err)
	}
	defer s.Free()

	stride := 32 * 2
	out := make([]byte, RGB565Size(32, 24))
	rows, err := s.Scale(f, out, stride)
	if err != nil {
		t.Fatalf("Scale: %v", err)
	}
	if rows != 24 {
		t.Errorf("Scale wrote %d rows, want 24", rows)
	}
}

func TestScaler_BufferTooSmall(t *testing.T) {
	f := newTestFrame(t, 64, 48)

	s, err := NewScaler(f, 32, 24)
	if err != nil {
		t.Fatalf("NewScaler: %v", err)
	}
	defer s.Free()

	out := make([]byte, RGB565Size(32, 24)-1)
	if _, err := s.Scale(f, out, 32*2); !errors.Is(err, ErrBufferTooSmall) {
		t.Errorf("Scale(short buffer) error = %v, want ErrBufferTooSmall", err)
	}
}

func TestScaler_InvalidArguments(t *testing.T) {
	requireFFmpeg(t)

	if _, err := NewScaler(nil, 32, 24); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("NewScaler(nil) error = %v, want ErrInvalidArgument", err)
	}

	f := newTestFrame(t, 64, 48)
	if _, err := NewScaler(f, 0, 24); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("NewScaler(0 width) error = %v, want ErrInvalidArgument", err)
	}

	s, err := NewScaler(f, 32, 24)
	if err != nil {
		t.Fatalf("NewScaler: %v", err)
	}
	out := make([]byte, RGB565Size(32, 24))
	if _, err := s.Scale(nil, out, 32*2); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Scale(nil frame) error = %v, want ErrInvalidArgument", err)
	}
	// A stride below one RGB565 row would let the last row run past the
	// buffer even when stride*height fits.
	if _, err := s.Scale(f, out, 32*2-1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Scale(narrow stride) error = %v, want ErrInvalidArgument", err)
	}

	s.Free()
	s.Free() // idempotent
	if _, err := s.Scale(f, out, 32*2); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Scale after Free error = %v, want ErrInvalidArgument", err)
	}
}

func TestBridge_ScalerLifecycle(t *testing.T) {
	f := newTestFrame(t, 64, 48)
	h := bridge.putFrame(f)
	defer FreeFrame(h)

	if got := GetFrameWidth(h); got != 64 {
		t.Errorf("GetFrameWidth = %d, want 64", got)
	}
	if got := GetFrameHeight(h); got != 48 {
		t.Errorf("GetFrameHeight = %d, want 48", got)
	}

	sc := CreateScaler(h, 32, 24)
	if sc == 0 {
		t.Fatal("CreateScaler = 0")
	}
	out := make([]byte, RGB565Size(32, 24))
	if rows := ScaleFrame(sc, h, out, 32*2); rows != 24 {
		t.Errorf("ScaleFrame = %d, want 24", rows)
	}

	FreeScaler(sc)
	if got := ScaleFrame(sc, h, out, 32*2); got != averrorEINVAL {
		t.Errorf("ScaleFrame after FreeScaler = %d, want %d", got, averrorEINVAL)
	}
	FreeScaler(sc) // no-op on the dead handle
}
