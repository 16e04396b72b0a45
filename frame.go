//go:build darwin || linux

// Decoded video frame handles.

package lavdec

// Frame is an opaque handle to one decoded picture. The decode loop
// allocates it and transfers ownership to the caller, who must release it
// with Free once consumed (typically after scaling). A Frame outlives its
// Decoder: releasing the session does not invalidate frames already handed
// out.
type Frame struct {
	ptr uintptr
}

// Width returns the picture width in pixels, 0 on a nil or freed frame.
func (f *Frame) Width() int {
	if f == nil || f.ptr == 0 {
		return 0
	}
	return int(frameWidth(f.ptr))
}

// Height returns the picture height in pixels, 0 on a nil or freed frame.
func (f *Frame) Height() int {
	if f == nil || f.ptr == 0 {
		return 0
	}
	return int(frameHeight(f.ptr))
}

// PTS returns the frame's presentation timestamp as fed into Decode.
func (f *Frame) PTS() int64 {
	if f == nil || f.ptr == 0 {
		return 0
	}
	return framePts(f.ptr)
}

// Free releases the underlying picture. Safe on nil and idempotent.
func (f *Frame) Free() {
	if f == nil || f.ptr == 0 {
		return
	}
	freeFramePtr(f.ptr)
	f.ptr = 0
}

// RGB565Size returns the byte size of a packed RGB565 image.
func RGB565Size(width, height int) int {
	return width * height * 2
}
