//go:build darwin || linux

// Bindings to FFmpeg's libswscale via purego, used by the video scaling
// path.

package lavdec

import (
	"sync"

	"github.com/ebitengine/purego"
)

var (
	swscaleOnce    sync.Once
	swscaleHandle  uintptr
	swscaleInitErr error
)

var (
	swsGetContext  func(srcW, srcH, srcFormat, dstW, dstH, dstFormat, flags int32, srcFilter, dstFilter, param uintptr) uintptr
	swsScale       func(ctx, srcSlice, srcStride uintptr, srcSliceY, srcSliceH int32, dst, dstStride uintptr) int32
	swsFreeContext func(ctx uintptr)
)

// swsBilinear is the SWS_BILINEAR flag.
const swsBilinear = 2

func loadSWScale() error {
	if err := loadAVUtil(); err != nil {
		return err
	}
	swscaleOnce.Do(func() {
		handle, err := openLibrary("swscale", swscaleMajor)
		if err != nil {
			swscaleInitErr = err
			return
		}
		swscaleHandle = handle

		purego.RegisterLibFunc(&swsGetContext, handle, "sws_getContext")
		purego.RegisterLibFunc(&swsScale, handle, "sws_scale")
		purego.RegisterLibFunc(&swsFreeContext, handle, "sws_freeContext")
	})
	return swscaleInitErr
}
