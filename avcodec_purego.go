//go:build darwin || linux

// Bindings to FFmpeg's libavcodec via purego: decoder lookup, codec
// contexts and the send-packet/receive-frame API.

package lavdec

import (
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

var (
	avcodecOnce    sync.Once
	avcodecHandle  uintptr
	avcodecInitErr error
)

var (
	avcodecVersion           func() uint32
	avcodecFindDecoderByName func(name string) uintptr
	avcodecAllocContext3     func(codec uintptr) uintptr
	avcodecFreeContext       func(pctx uintptr)
	avcodecOpen2             func(ctx, codec, options uintptr) int32
	avcodecSendPacket        func(ctx, pkt uintptr) int32
	avcodecReceiveFrame      func(ctx, frame uintptr) int32
	avcodecFlushBuffers      func(ctx uintptr)

	avPacketAlloc func() uintptr
	avPacketFree  func(ppkt uintptr)
)

// loadAVCodec loads libavcodec (and libavutil, which it depends on) exactly
// once per process. This is the bridge's registry initialization: with
// modern FFmpeg there is no avcodec_register_all, loading the library makes
// every compiled-in decoder visible.
func loadAVCodec() error {
	if err := loadAVUtil(); err != nil {
		return err
	}
	avcodecOnce.Do(func() {
		handle, err := openLibrary("avcodec", avcodecMajor)
		if err != nil {
			avcodecInitErr = err
			return
		}
		avcodecHandle = handle

		purego.RegisterLibFunc(&avcodecVersion, handle, "avcodec_version")
		purego.RegisterLibFunc(&avcodecFindDecoderByName, handle, "avcodec_find_decoder_by_name")
		purego.RegisterLibFunc(&avcodecAllocContext3, handle, "avcodec_alloc_context3")
		purego.RegisterLibFunc(&avcodecFreeContext, handle, "avcodec_free_context")
		purego.RegisterLibFunc(&avcodecOpen2, handle, "avcodec_open2")
		purego.RegisterLibFunc(&avcodecSendPacket, handle, "avcodec_send_packet")
		purego.RegisterLibFunc(&avcodecReceiveFrame, handle, "avcodec_receive_frame")
		purego.RegisterLibFunc(&avcodecFlushBuffers, handle, "avcodec_flush_buffers")

		purego.RegisterLibFunc(&avPacketAlloc, handle, "av_packet_alloc")
		purego.RegisterLibFunc(&avPacketFree, handle, "av_packet_free")
	})
	return avcodecInitErr
}

// Load makes the FFmpeg libraries this bridge uses available. It is
// idempotent and safe to call from multiple goroutines; the first caller
// pays the dlopen cost. Every session constructor calls it implicitly, but
// hosts that want to fail fast can call it at startup.
func Load() error {
	if err := loadAVCodec(); err != nil {
		return err
	}
	if err := loadSWResample(); err != nil {
		return err
	}
	return loadSWScale()
}

// Available reports whether the FFmpeg libraries could be loaded.
func Available() bool {
	return Load() == nil
}

// inputBufferPaddingSize is AV_INPUT_BUFFER_PADDING_SIZE: decoders may read
// up to this many bytes past the end of extradata, so it must be
// zero-padded by that much.
const inputBufferPaddingSize = 64

// AVCodecContext field offsets (FFmpeg 6.x, 64-bit). These vary between
// FFmpeg major versions; verified against lavc 60 with offsetof().
const (
	ctxOffCodecType        = 12  // enum AVMediaType codec_type
	ctxOffExtradata        = 88  // uint8_t *extradata
	ctxOffExtradataSize    = 96  // int extradata_size
	ctxOffDelay            = 112 // int delay
	ctxOffSampleRate       = 352 // int sample_rate
	ctxOffChannels         = 356 // int channels
	ctxOffSampleFmt        = 360 // enum AVSampleFormat sample_fmt
	ctxOffChannelLayout    = 384 // uint64_t channel_layout
	ctxOffRequestSampleFmt = 404 // enum AVSampleFormat request_sample_fmt
)

func ctxCodecType(ctx uintptr) int32 {
	return *(*int32)(unsafe.Pointer(ctx + ctxOffCodecType))
}

func ctxSetExtradata(ctx, data uintptr, size int32) {
	*(*uintptr)(unsafe.Pointer(ctx + ctxOffExtradata)) = data
	*(*int32)(unsafe.Pointer(ctx + ctxOffExtradataSize)) = size
}

func ctxSetDelay(ctx uintptr, delay int32) {
	*(*int32)(unsafe.Pointer(ctx + ctxOffDelay)) = delay
}

func ctxSampleRate(ctx uintptr) int32 {
	return *(*int32)(unsafe.Pointer(ctx + ctxOffSampleRate))
}

func ctxChannels(ctx uintptr) int32 {
	return *(*int32)(unsafe.Pointer(ctx + ctxOffChannels))
}

func ctxSampleFmt(ctx uintptr) int32 {
	return *(*int32)(unsafe.Pointer(ctx + ctxOffSampleFmt))
}

func ctxChannelLayout(ctx uintptr) uint64 {
	return *(*uint64)(unsafe.Pointer(ctx + ctxOffChannelLayout))
}

func ctxSetRequestSampleFmt(ctx uintptr, fmt int32) {
	*(*int32)(unsafe.Pointer(ctx + ctxOffRequestSampleFmt)) = fmt
}

// AVPacket field offsets (FFmpeg 6.x/7.x).
const (
	pktOffPts  = 8  // int64_t pts
	pktOffDts  = 16 // int64_t dts
	pktOffData = 24 // uint8_t *data
	pktOffSize = 32 // int size
)

func pktSet(pkt, data uintptr, size int32, pts, dts int64) {
	*(*uintptr)(unsafe.Pointer(pkt + pktOffData)) = data
	*(*int32)(unsafe.Pointer(pkt + pktOffSize)) = size
	*(*int64)(unsafe.Pointer(pkt + pktOffPts)) = pts
	*(*int64)(unsafe.Pointer(pkt + pktOffDts)) = dts
}

// freeContextPtr releases a context through avcodec_free_context, which
// takes AVCodecContext**.
func freeContextPtr(ctx uintptr) {
	if ctx == 0 {
		return
	}
	holder := new(uintptr)
	*holder = ctx
	avcodecFreeContext(uintptr(unsafe.Pointer(holder)))
	runtime.KeepAlive(holder)
}

// freePacketPtr releases a packet through av_packet_free (AVPacket**).
func freePacketPtr(pkt uintptr) {
	if pkt == 0 {
		return
	}
	holder := new(uintptr)
	*holder = pkt
	avPacketFree(uintptr(unsafe.Pointer(holder)))
	runtime.KeepAlive(holder)
}

// Version returns the libavcodec identification string, e.g. "Lavc60.3.100".
// It never fails; when the library is unavailable the string says so.
func Version() string {
	if err := loadAVCodec(); err != nil {
		return "Lavc unavailable"
	}
	v := avcodecVersion()
	return fmt.Sprintf("Lavc%d.%d.%d", v>>16, (v>>8)&0xff, v&0xff)
}

// HasDecoder reports whether libavcodec ships a decoder with the given name.
// It never fails: an empty or unknown name, or an unloadable library, yields
// false. A false result means the capability is unsupported, not an error.
func HasDecoder(name string) bool {
	if name == "" {
		return false
	}
	if err := loadAVCodec(); err != nil {
		return false
	}
	return avcodecFindDecoderByName(name) != 0
}

// findDecoder resolves a decoder name to the library's codec handle, 0 when
// absent. The handle belongs to the library's global table, never freed.
func findDecoder(name string) uintptr {
	if name == "" {
		return 0
	}
	return avcodecFindDecoderByName(name)
}
