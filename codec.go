// Codec identity helpers: MIME type mapping, codec-specific initialization
// data assembly and output buffer sizing hints for the host pipeline.

package lavdec

// MediaType identifies a stream's media type.
type MediaType int

const (
	MediaTypeUnknown MediaType = iota
	MediaTypeAudio
	MediaTypeVideo
)

func (m MediaType) String() string {
	switch m {
	case MediaTypeAudio:
		return "audio"
	case MediaTypeVideo:
		return "video"
	default:
		return "unknown"
	}
}

// MIME types with a known FFmpeg decoder mapping.
const (
	MimeAudioAAC    = "audio/mp4a-latm"
	MimeAudioMpeg   = "audio/mpeg"
	MimeAudioMpegL1 = "audio/mpeg-L1"
	MimeAudioMpegL2 = "audio/mpeg-L2"
	MimeAudioAC3    = "audio/ac3"
	MimeAudioEAC3   = "audio/eac3"
	MimeAudioTrueHD = "audio/true-hd"
	MimeAudioDTS    = "audio/vnd.dts"
	MimeAudioDTSHD  = "audio/vnd.dts.hd"
	MimeAudioVorbis = "audio/vorbis"
	MimeAudioOpus   = "audio/opus"
	MimeAudioAMRNB  = "audio/3gpp"
	MimeAudioAMRWB  = "audio/amr-wb"
	MimeAudioFLAC   = "audio/flac"
	MimeVideoH264   = "video/avc"
)

// Output buffer sizing hints for callers that pre-allocate flat buffers.
const (
	// RecommendedAudioBufferSize holds 64 ms of 6-channel 48 kHz 16-bit PCM,
	// enough for one decode call's worth of concatenated audio frames for
	// every codec this bridge maps.
	RecommendedAudioBufferSize = 1536 * 6 * 2 * 2

	// FrameHandleSize is the space one decoded video frame occupies in the
	// output buffer: a single pointer-sized opaque handle.
	FrameHandleSize = 8
)

// CodecNameForMime returns the FFmpeg decoder name for a MIME type, or ""
// when the bridge has no mapping for it.
func CodecNameForMime(mime string) string {
	switch mime {
	case MimeAudioAAC:
		return "aac"
	case MimeAudioMpeg, MimeAudioMpegL1, MimeAudioMpegL2:
		return "mp3"
	case MimeAudioAC3:
		return "ac3"
	case MimeAudioEAC3:
		return "eac3"
	case MimeAudioTrueHD:
		return "truehd"
	case MimeAudioDTS, MimeAudioDTSHD:
		return "dca"
	case MimeAudioVorbis:
		return "vorbis"
	case MimeAudioOpus:
		return "opus"
	case MimeAudioAMRNB:
		return "amrnb"
	case MimeAudioAMRWB:
		return "amrwb"
	case MimeAudioFLAC:
		return "flac"
	case MimeVideoH264:
		return "h264"
	default:
		return ""
	}
}

// ExtraData assembles FFmpeg-compatible codec initialization data ("extra
// data") from a container's initialization blobs. Returns nil when the codec
// requires none.
func ExtraData(mime string, initData [][]byte) []byte {
	switch mime {
	case MimeAudioAAC, MimeAudioOpus:
		if len(initData) == 0 {
			return nil
		}
		return initData[0]
	case MimeAudioVorbis:
		// The identification and setup headers, each prefixed with its
		// 16-bit big-endian length; the comment header slot is left empty.
		if len(initData) < 2 {
			return nil
		}
		header0, header1 := initData[0], initData[1]
		extra := make([]byte, 0, len(header0)+len(header1)+6)
		extra = append(extra, byte(len(header0)>>8), byte(len(header0)))
		extra = append(extra, header0...)
		extra = append(extra, 0, 0, byte(len(header1)>>8), byte(len(header1)))
		extra = append(extra, header1...)
		return extra
	case MimeVideoH264:
		// SPS followed by PPS, already in the caller's chosen byte-stream
		// format.
		if len(initData) < 2 {
			return nil
		}
		extra := make([]byte, 0, len(initData[0])+len(initData[1]))
		extra = append(extra, initData[0]...)
		extra = append(extra, initData[1]...)
		return extra
	default:
		return nil
	}
}
