// Bitstream detection for the codecs this bridge decodes. Useful for
// callers that receive an elementary stream without container metadata.

package lavdec

import "bytes"

// DetectCodecName inspects the start of an elementary stream and returns
// the FFmpeg decoder name it appears to carry, or "" when the codec cannot
// be determined. Detection covers:
//   - H.264/AVC Annex-B (ITU-T H.264)
//   - AAC in ADTS framing (ISO/IEC 14496-3)
//   - AC-3 / E-AC-3 sync frames (ETSI TS 102 366)
//   - TrueHD major sync (part of the MLP bitstream)
//   - MPEG audio frames (MP3)
//   - FLAC native streams
//   - Opus or Vorbis inside an Ogg page
func DetectCodecName(data []byte) string {
	if len(data) < 4 {
		return ""
	}

	if isAnnexBStartCode(data) && isH264NALType(h264NALType(data)) {
		return "h264"
	}

	if name := detectOggCodec(data); name != "" {
		return name
	}

	if bytes.HasPrefix(data, []byte("fLaC")) {
		return "flac"
	}

	if isTrueHDMajorSync(data) {
		return "truehd"
	}

	if isAC3SyncFrame(data) {
		// Bitstream id > 10 marks the enhanced syntax.
		if len(data) >= 6 && data[5]>>3 > 10 {
			return "eac3"
		}
		return "ac3"
	}

	// Both ADTS and MPEG audio share the 0xFFF sync prefix; ADTS sets the
	// layer bits to 00, MPEG audio never does.
	if isADTSHeader(data) {
		return "aac"
	}
	if isMPEGAudioHeader(data) {
		return "mp3"
	}

	return ""
}

// isAnnexBStartCode reports a 3- or 4-byte Annex-B start code prefix.
func isAnnexBStartCode(data []byte) bool {
	if len(data) >= 4 && data[0] == 0 && data[1] == 0 && data[2] == 0 && data[3] == 1 {
		return true
	}
	return len(data) >= 3 && data[0] == 0 && data[1] == 0 && data[2] == 1
}

// h264NALType extracts the NAL unit type following an Annex-B start code.
func h264NALType(data []byte) byte {
	i := 3
	if data[2] == 0 {
		i = 4
	}
	if i >= len(data) {
		return 0
	}
	return data[i] & 0x1F
}

// isH264NALType reports whether a NAL type plausibly starts an H.264
// stream: slices, IDR, SEI, SPS, PPS, AUD.
func isH264NALType(nalType byte) bool {
	switch nalType {
	case 1, 5, 6, 7, 8, 9:
		return true
	default:
		return false
	}
}

func isADTSHeader(data []byte) bool {
	return len(data) >= 2 && data[0] == 0xFF && data[1]&0xF6 == 0xF0
}

func isMPEGAudioHeader(data []byte) bool {
	if len(data) < 2 || data[0] != 0xFF || data[1]&0xE0 != 0xE0 {
		return false
	}
	layer := data[1] >> 1 & 0x03
	return layer != 0
}

func isAC3SyncFrame(data []byte) bool {
	return len(data) >= 2 && data[0] == 0x0B && data[1] == 0x77
}

// isTrueHDMajorSync looks for the MLP/TrueHD major sync word, which sits
// after the 4-byte access unit header.
func isTrueHDMajorSync(data []byte) bool {
	if len(data) < 8 {
		return false
	}
	return data[4] == 0xF8 && data[5] == 0x72 && data[6] == 0x6F && data[7] == 0xBA
}

// detectOggCodec identifies the codec carried by a leading Ogg page.
func detectOggCodec(data []byte) string {
	if !bytes.HasPrefix(data, []byte("OggS")) {
		return ""
	}
	// The first page is tiny; the identification header starts within it.
	limit := len(data)
	if limit > 512 {
		limit = 512
	}
	head := data[:limit]
	if bytes.Contains(head, []byte("OpusHead")) {
		return "opus"
	}
	if bytes.Contains(head, []byte("\x01vorbis")) {
		return "vorbis"
	}
	return ""
}
