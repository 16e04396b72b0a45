//go:build darwin || linux

// Video scaling stage: pixel format conversion of decoded frames to packed
// RGB565 for display.

package lavdec

import (
	"runtime"
	"unsafe"
)

// Scaler converts decoded pictures from their native dimensions and pixel
// format to a fixed RGB565 target, bilinear filtered. A Scaler is bound to
// the source geometry of the frame it was created from; recreate it when
// the stream's dimensions change. Its lifetime is independent of the
// Decoder's. Release with Free.
type Scaler struct {
	ctx  uintptr
	dstW int
	dstH int
}

// NewScaler builds a converter from frame's current dimensions and pixel
// format to dstWidth x dstHeight RGB565.
func NewScaler(frame *Frame, dstWidth, dstHeight int) (*Scaler, error) {
	if frame == nil || frame.ptr == 0 || dstWidth <= 0 || dstHeight <= 0 {
		return nil, ErrInvalidArgument
	}
	if err := loadSWScale(); err != nil {
		return nil, err
	}
	ctx := swsGetContext(
		frameWidth(frame.ptr),
		frameHeight(frame.ptr),
		frameFormat(frame.ptr),
		int32(dstWidth),
		int32(dstHeight),
		pixFmtRGB565LE,
		swsBilinear,
		0, 0, 0,
	)
	if ctx == 0 {
		return nil, codecErr("sws_getContext", averrorENOMEM)
	}
	return &Scaler{ctx: ctx, dstW: dstWidth, dstH: dstHeight}, nil
}

// Scale converts frame into out, a single-plane destination with the given
// row stride in bytes, and returns the number of output rows processed. The
// stride must hold one RGB565 row (2 bytes per target pixel).
func (s *Scaler) Scale(frame *Frame, out []byte, stride int) (int, error) {
	if s == nil || s.ctx == 0 || frame == nil || frame.ptr == 0 || out == nil || stride < 2*s.dstW {
		return 0, ErrInvalidArgument
	}
	if len(out) < stride*s.dstH {
		return 0, ErrBufferTooSmall
	}

	// The frame pointer doubles as the source plane array (data[] at
	// offset 0) and frame+frameOffLinesize as the stride array.
	dst := new([1]uintptr)
	dst[0] = uintptr(unsafe.Pointer(&out[0]))
	dstStride := new([1]int32)
	dstStride[0] = int32(stride)
	rows := swsScale(
		s.ctx,
		frame.ptr,
		frame.ptr+frameOffLinesize,
		0,
		frameHeight(frame.ptr),
		uintptr(unsafe.Pointer(dst)),
		uintptr(unsafe.Pointer(dstStride)),
	)
	runtime.KeepAlive(dst)
	runtime.KeepAlive(dstStride)
	runtime.KeepAlive(out)
	if rows < 0 {
		return 0, codecErr("sws_scale", rows)
	}
	return int(rows), nil
}

// Free releases the converter. Safe on nil and idempotent.
func (s *Scaler) Free() {
	if s == nil || s.ctx == 0 {
		return
	}
	swsFreeContext(s.ctx)
	s.ctx = 0
}
