//go:build darwin || linux

// Bindings to FFmpeg's libavutil via purego: frame allocation, option
// setting, memory helpers and error strings.

package lavdec

import (
	"runtime"
	"sync"
	"syscall"
	"unsafe"

	"github.com/ebitengine/purego"
)

// Pinned FFmpeg major versions (FFmpeg 6.x). Struct offsets below are only
// valid for these; bump them together.
const (
	avutilMajor     = 58
	avcodecMajor    = 60
	swresampleMajor = 4
	swscaleMajor    = 7
)

var (
	avutilOnce    sync.Once
	avutilHandle  uintptr
	avutilInitErr error
)

var (
	avFrameAlloc              func() uintptr
	avFrameFree               func(pframe uintptr)
	avFrameGetBuffer          func(frame uintptr, align int32) int32
	avMalloc                  func(size uintptr) uintptr
	avFree                    func(ptr uintptr)
	avStrerror                func(errnum int32, buf uintptr, bufSize uintptr) int32
	avGetBytesPerSample       func(sampleFmt int32) int32
	avGetDefaultChannelLayout func(nbChannels int32) int64
	avOptSetInt               func(obj uintptr, name string, val int64, searchFlags int32) int32
)

func loadAVUtil() error {
	avutilOnce.Do(func() {
		handle, err := openLibrary("avutil", avutilMajor)
		if err != nil {
			avutilInitErr = err
			return
		}
		avutilHandle = handle

		purego.RegisterLibFunc(&avFrameAlloc, handle, "av_frame_alloc")
		purego.RegisterLibFunc(&avFrameFree, handle, "av_frame_free")
		purego.RegisterLibFunc(&avFrameGetBuffer, handle, "av_frame_get_buffer")
		purego.RegisterLibFunc(&avMalloc, handle, "av_malloc")
		purego.RegisterLibFunc(&avFree, handle, "av_free")
		purego.RegisterLibFunc(&avStrerror, handle, "av_strerror")
		purego.RegisterLibFunc(&avGetBytesPerSample, handle, "av_get_bytes_per_sample")
		purego.RegisterLibFunc(&avGetDefaultChannelLayout, handle, "av_get_default_channel_layout")
		purego.RegisterLibFunc(&avOptSetInt, handle, "av_opt_set_int")
	})
	return avutilInitErr
}

// Selected libavutil enum values.
const (
	mediaTypeVideo = 0 // AVMEDIA_TYPE_VIDEO
	mediaTypeAudio = 1 // AVMEDIA_TYPE_AUDIO

	sampleFmtS16 = 1 // AV_SAMPLE_FMT_S16

	pixFmtRGB565LE = 37 // AV_PIX_FMT_RGB565LE (AV_PIX_FMT_RGB565 on little-endian)

	noPtsValue = int64(-0x8000000000000000) // AV_NOPTS_VALUE
)

// ffErrTag ports FFERRTAG() from libavutil/error.h.
func ffErrTag(a, b, c, d byte) int32 {
	return -(int32(a) | int32(b)<<8 | int32(c)<<16 | int32(d)<<24)
}

// averror ports the AVERROR() macro: POSIX errnos are returned negated.
func averror(errno syscall.Errno) int32 {
	return -int32(errno)
}

// Error codes the decode loop distinguishes. EAGAIN is platform dependent,
// matching the library's own AVERROR(EAGAIN) on this OS.
var (
	averrorEAGAIN         = averror(syscall.EAGAIN)
	averrorEINVAL         = averror(syscall.EINVAL)
	averrorENOMEM         = averror(syscall.ENOMEM)
	averrorEOF            = ffErrTag('E', 'O', 'F', ' ')
	averrorInvalidData    = ffErrTag('I', 'N', 'D', 'A')
	averrorBufferTooSmall = ffErrTag('B', 'U', 'F', 'S')
	averrorBug            = ffErrTag('B', 'U', 'G', '!')
)

// avErrorString returns the library's human-readable description of an
// AVERROR code.
func avErrorString(code int32) string {
	if avStrerror == nil {
		return "ffmpeg not loaded"
	}
	buf := make([]byte, 256)
	if avStrerror(code, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf))) < 0 {
		return "unknown error"
	}
	s := goStringFromPtr(uintptr(unsafe.Pointer(&buf[0])))
	runtime.KeepAlive(buf)
	return s
}

// AVFrame field offsets (FFmpeg 6.x). data[8] and linesize[8] lead the
// struct, so a frame pointer doubles as the uint8_t** plane array expected
// by swr_convert and sws_scale.
const (
	frameOffData      = 0   // uint8_t *data[8]
	frameOffLinesize  = 64  // int linesize[8]
	frameOffWidth     = 104 // int width
	frameOffHeight    = 108 // int height
	frameOffNbSamples = 112 // int nb_samples
	frameOffFormat    = 116 // int format
	frameOffPts       = 136 // int64_t pts
)

func frameWidth(f uintptr) int32 {
	return *(*int32)(unsafe.Pointer(f + frameOffWidth))
}

func frameHeight(f uintptr) int32 {
	return *(*int32)(unsafe.Pointer(f + frameOffHeight))
}

func frameNbSamples(f uintptr) int32 {
	return *(*int32)(unsafe.Pointer(f + frameOffNbSamples))
}

func frameFormat(f uintptr) int32 {
	return *(*int32)(unsafe.Pointer(f + frameOffFormat))
}

func framePts(f uintptr) int64 {
	return *(*int64)(unsafe.Pointer(f + frameOffPts))
}

func frameSetVideoParams(f uintptr, width, height, format int32) {
	*(*int32)(unsafe.Pointer(f + frameOffWidth)) = width
	*(*int32)(unsafe.Pointer(f + frameOffHeight)) = height
	*(*int32)(unsafe.Pointer(f + frameOffFormat)) = format
}

func frameSetPts(f uintptr, pts int64) {
	*(*int64)(unsafe.Pointer(f + frameOffPts)) = pts
}

// freeFramePtr releases a frame through av_frame_free, which takes AVFrame**.
func freeFramePtr(f uintptr) {
	if f == 0 {
		return
	}
	holder := new(uintptr)
	*holder = f
	avFrameFree(uintptr(unsafe.Pointer(holder)))
	runtime.KeepAlive(holder)
}
