//go:build darwin || linux

// Decoder session lifecycle and the packet-in/frame-out decode loop.

package lavdec

import (
	"encoding/binary"
	"io"
	"runtime"
	"unsafe"
)

// reopenOnReset lists codec names whose decoder state does not survive
// avcodec_flush_buffers; resetting them tears the context down and reopens
// it instead. TrueHD is the only codec known to have the defect. This is an
// exception table, not a general pattern: add entries only with evidence.
var reopenOnReset = map[string]bool{
	"truehd": true,
}

// Decoder wraps one open codec context. It decodes a single elementary
// stream's packets into interleaved S16 PCM (audio) or owned frame handles
// (video). Methods are not safe for concurrent use: the caller serializes
// calls per Decoder, while independent Decoders may run in parallel.
type Decoder struct {
	codecName string
	mediaType MediaType
	ctx       uintptr
	pkt       uintptr
	swr       *resampler
}

// NewDecoder opens a decoder for the named codec. extraData is the codec's
// out-of-band initialization data (see ExtraData); nil when the codec needs
// none. The returned session must be released with Close.
func NewDecoder(codecName string, extraData []byte) (*Decoder, error) {
	if err := Load(); err != nil {
		return nil, err
	}
	codec := findDecoder(codecName)
	if codec == 0 {
		return nil, ErrCodecNotFound
	}
	ctx, err := openContext(codec, extraData)
	if err != nil {
		return nil, err
	}
	pkt := avPacketAlloc()
	if pkt == 0 {
		freeContextPtr(ctx)
		return nil, codecErr("av_packet_alloc", averrorENOMEM)
	}
	mediaType := MediaTypeAudio
	if ctxCodecType(ctx) == mediaTypeVideo {
		mediaType = MediaTypeVideo
	}
	return &Decoder{
		codecName: codecName,
		mediaType: mediaType,
		ctx:       ctx,
		pkt:       pkt,
	}, nil
}

// openContext allocates and opens a codec context. On any failure the
// partially built context is released; a half-open context never escapes.
func openContext(codec uintptr, extraData []byte) (uintptr, error) {
	ctx := avcodecAllocContext3(codec)
	if ctx == 0 {
		return 0, codecErr("avcodec_alloc_context3", averrorENOMEM)
	}
	ctxSetRequestSampleFmt(ctx, sampleFmtS16)
	if len(extraData) > 0 {
		// The context owns the extradata; it must come from av_malloc (the
		// context's teardown frees it) and carry zeroed trailing padding.
		size := len(extraData)
		buf := avMalloc(uintptr(size + inputBufferPaddingSize))
		if buf == 0 {
			freeContextPtr(ctx)
			return 0, codecErr("av_malloc", averrorENOMEM)
		}
		dst := unsafe.Slice((*byte)(unsafe.Pointer(buf)), size+inputBufferPaddingSize)
		copy(dst, extraData)
		for i := size; i < len(dst); i++ {
			dst[i] = 0
		}
		ctxSetExtradata(ctx, buf, int32(size))
	}
	if res := avcodecOpen2(ctx, codec, 0); res < 0 {
		freeContextPtr(ctx)
		return 0, codecErr("avcodec_open2", res)
	}
	if ctxCodecType(ctx) == mediaTypeVideo {
		// No frame reordering buffer: the host presents frames in decode
		// order and cannot absorb codec delay.
		ctxSetDelay(ctx, 0)
	}
	return ctx, nil
}

// CodecName returns the name the session was opened with.
func (d *Decoder) CodecName() string { return d.codecName }

// MediaType returns the stream's media type.
func (d *Decoder) MediaType() MediaType { return d.mediaType }

// ChannelCount returns the decoded audio channel count. Valid once the
// first decode call has produced output.
func (d *Decoder) ChannelCount() (int, error) {
	if d == nil || d.ctx == 0 {
		return 0, ErrInvalidArgument
	}
	return int(ctxChannels(d.ctx)), nil
}

// SampleRate returns the decoded audio sample rate. Valid once the first
// decode call has produced output.
func (d *Decoder) SampleRate() (int, error) {
	if d == nil || d.ctx == 0 {
		return 0, ErrInvalidArgument
	}
	return int(ctxSampleRate(d.ctx)), nil
}

// Decode feeds one compressed packet and drains the decoder's output into
// out. input is borrowed for the duration of the call; pts is the packet's
// presentation timestamp (decode timestamps are always unknown to this
// bridge). endOfInput signals the stream's final call sequence.
//
// For audio, every drained frame is converted to interleaved S16 PCM and
// concatenated into out; the returned count is the total bytes written.
// For video, at most one frame is produced per call: its opaque handle is
// written into the first FrameHandleSize bytes of out and also returned as
// a *Frame whose ownership transfers to the caller (free it with Free).
//
// An io.EOF return means the decoder has emitted everything after
// endOfInput; it is not a failure.
func (d *Decoder) Decode(input []byte, pts int64, endOfInput bool, out []byte) (int, *Frame, error) {
	if d == nil || d.ctx == 0 || out == nil {
		return 0, nil, ErrInvalidArgument
	}

	// Feed stage. An empty packet without end-of-input is a no-op: the
	// library is not touched at all.
	if len(input) > 0 || endOfInput {
		var data uintptr
		if len(input) > 0 {
			data = uintptr(unsafe.Pointer(&input[0]))
		}
		pktSet(d.pkt, data, int32(len(input)), pts, noPtsValue)
		res := avcodecSendPacket(d.ctx, d.pkt)
		pktSet(d.pkt, 0, 0, noPtsValue, noPtsValue)
		runtime.KeepAlive(input)
		switch {
		case res == 0:
		case res == averrorInvalidData:
			// A corrupt packet is not fatal: earlier packets may still
			// have output buffered, so downgrade to a zero-effect feed.
		case res == averrorEOF && len(input) == 0:
			// Flush was already signaled; a repeated end-of-input feed is
			// harmless.
		default:
			// Includes EAGAIN on a non-empty packet, which means the
			// caller broke the feed/drain protocol.
			return 0, nil, codecErr("avcodec_send_packet", res)
		}
	}

	// Drain stage.
	total := 0
	for {
		frame := avFrameAlloc()
		if frame == 0 {
			return 0, nil, codecErr("av_frame_alloc", averrorENOMEM)
		}
		res := avcodecReceiveFrame(d.ctx, frame)
		if res != 0 {
			freeFramePtr(frame)
			if res == averrorEAGAIN {
				break
			}
			if res == averrorEOF {
				// Deliver what this call already drained; the next call
				// reports end of stream.
				if total > 0 {
					break
				}
				return 0, nil, io.EOF
			}
			return 0, nil, codecErr("avcodec_receive_frame", res)
		}

		if d.mediaType == MediaTypeVideo {
			if len(out) < FrameHandleSize {
				freeFramePtr(frame)
				return 0, nil, ErrBufferTooSmall
			}
			// One frame handle per call; video never loops.
			binary.NativeEndian.PutUint64(out[:FrameHandleSize], uint64(frame))
			return FrameHandleSize, &Frame{ptr: frame}, nil
		}

		n, err := d.convertFrame(frame, out[total:])
		freeFramePtr(frame)
		if err != nil {
			return 0, nil, err
		}
		total += n
	}
	return total, nil, nil
}

// Reset discards the session's buffered decode state so an independent
// stream position can be decoded next. Codecs in the reopen exception table
// are torn down and reopened with extraData; all others keep their context
// and flush in place (extraData is then ignored, matching open-time data).
func (d *Decoder) Reset(extraData []byte) error {
	if d == nil || d.ctx == 0 {
		return ErrInvalidArgument
	}
	if !reopenOnReset[d.codecName] {
		avcodecFlushBuffers(d.ctx)
		return nil
	}
	codec := findDecoder(d.codecName)
	if codec == 0 {
		return ErrCodecNotFound
	}
	d.releaseContext()
	ctx, err := openContext(codec, extraData)
	if err != nil {
		return err
	}
	d.ctx = ctx
	return nil
}

// releaseContext frees the attached resampler, then the codec context.
func (d *Decoder) releaseContext() {
	if d.swr != nil {
		d.swr.free()
		d.swr = nil
	}
	freeContextPtr(d.ctx)
	d.ctx = 0
}

// Close releases the session. It is idempotent; a nil receiver is a no-op.
// Decode calls after Close fail with ErrInvalidArgument.
func (d *Decoder) Close() error {
	if d == nil {
		return nil
	}
	d.releaseContext()
	freePacketPtr(d.pkt)
	d.pkt = 0
	return nil
}
