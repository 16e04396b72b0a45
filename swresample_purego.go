//go:build darwin || linux

// Bindings to FFmpeg's libswresample via purego. The bridge uses it for
// sample format conversion only; rate and channel count pass through.

package lavdec

import (
	"sync"

	"github.com/ebitengine/purego"
)

var (
	swresampleOnce    sync.Once
	swresampleHandle  uintptr
	swresampleInitErr error
)

var (
	swrAlloc         func() uintptr
	swrInit          func(ctx uintptr) int32
	swrFree          func(pctx uintptr)
	swrConvert       func(ctx, out uintptr, outCount int32, in uintptr, inCount int32) int32
	swrGetOutSamples func(ctx uintptr, inSamples int32) int32
)

func loadSWResample() error {
	if err := loadAVUtil(); err != nil {
		return err
	}
	swresampleOnce.Do(func() {
		handle, err := openLibrary("swresample", swresampleMajor)
		if err != nil {
			swresampleInitErr = err
			return
		}
		swresampleHandle = handle

		purego.RegisterLibFunc(&swrAlloc, handle, "swr_alloc")
		purego.RegisterLibFunc(&swrInit, handle, "swr_init")
		purego.RegisterLibFunc(&swrFree, handle, "swr_free")
		purego.RegisterLibFunc(&swrConvert, handle, "swr_convert")
		purego.RegisterLibFunc(&swrGetOutSamples, handle, "swr_get_out_samples")
	})
	return swresampleInitErr
}
