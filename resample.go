//go:build darwin || linux

// Audio output stage: converts decoded frames to interleaved S16 PCM
// directly into the caller's buffer.

package lavdec

import (
	"fmt"
	"runtime"
	"unsafe"
)

// resampler is the session's lazily created sample format converter. It
// normalizes sample format only: channel layout and rate pass through
// untouched. At most one is ever attached to a session, built from the
// first decoded audio frame and reused until the context is released.
type resampler struct {
	ctx      uintptr
	channels int32
}

func (r *resampler) free() {
	if r == nil || r.ctx == 0 {
		return
	}
	holder := new(uintptr)
	*holder = r.ctx
	swrFree(uintptr(unsafe.Pointer(holder)))
	runtime.KeepAlive(holder)
	r.ctx = 0
}

// newResampler builds an S16 converter matching the context's current
// layout, rate and source sample format.
func newResampler(ctx uintptr) (*resampler, error) {
	swr := swrAlloc()
	if swr == 0 {
		return nil, codecErr("swr_alloc", averrorENOMEM)
	}
	channels := ctxChannels(ctx)
	layout := int64(ctxChannelLayout(ctx))
	if layout == 0 {
		layout = avGetDefaultChannelLayout(channels)
	}
	avOptSetInt(swr, "in_channel_layout", layout, 0)
	avOptSetInt(swr, "out_channel_layout", layout, 0)
	avOptSetInt(swr, "in_sample_rate", int64(ctxSampleRate(ctx)), 0)
	avOptSetInt(swr, "out_sample_rate", int64(ctxSampleRate(ctx)), 0)
	avOptSetInt(swr, "in_sample_fmt", int64(ctxSampleFmt(ctx)), 0)
	avOptSetInt(swr, "out_sample_fmt", sampleFmtS16, 0)
	r := &resampler{ctx: swr, channels: channels}
	if res := swrInit(swr); res != 0 {
		r.free()
		return nil, codecErr("swr_init", res)
	}
	return r, nil
}

// convertFrame converts one decoded audio frame into out, returning the
// number of bytes written. The frame is discarded without a partial write
// when out cannot hold the full converted size.
func (d *Decoder) convertFrame(frame uintptr, out []byte) (int, error) {
	if d.swr == nil {
		swr, err := newResampler(d.ctx)
		if err != nil {
			return 0, err
		}
		d.swr = swr
	}

	sampleCount := frameNbSamples(frame)
	outSamples := swrGetOutSamples(d.swr.ctx, sampleCount)
	if outSamples < 0 {
		return 0, codecErr("swr_get_out_samples", outSamples)
	}
	if outSamples == 0 {
		return 0, nil
	}
	outBytes := int(outSamples) * int(d.swr.channels) * int(avGetBytesPerSample(sampleFmtS16))
	if outBytes > len(out) {
		return 0, ErrBufferTooSmall
	}

	// Interleaved S16 occupies a single plane, so the output plane array
	// has one entry. The frame pointer itself serves as the input plane
	// array: AVFrame.data[] sits at offset 0.
	dst := new([1]uintptr)
	dst[0] = uintptr(unsafe.Pointer(&out[0]))
	converted := swrConvert(d.swr.ctx, uintptr(unsafe.Pointer(dst)), outSamples, frame, sampleCount)
	runtime.KeepAlive(dst)
	runtime.KeepAlive(out)
	if converted < 0 {
		return 0, codecErr("swr_convert", converted)
	}

	// Format-only conversion is 1:1; anything left buffered means the
	// stage's invariant broke.
	if residual := swrGetOutSamples(d.swr.ctx, 0); residual != 0 {
		return 0, fmt.Errorf("%w: resampler holds %d samples after drain", ErrInternal, residual)
	}
	return int(converted) * int(d.swr.channels) * int(avGetBytesPerSample(sampleFmtS16)), nil
}
