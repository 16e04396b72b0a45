package lavdec

import "testing"

// FuzzDetectCodecName verifies the detector never panics and only ever
// returns names from the known codec set.
func FuzzDetectCodecName(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0x00, 0x00, 0x00, 0x01, 0x67})
	f.Add([]byte{0xFF, 0xF1, 0x50, 0x80})
	f.Add([]byte{0xFF, 0xFB, 0x90, 0xC0})
	f.Add([]byte{0x0B, 0x77, 0x00, 0x00, 0x00, 0x00})
	f.Add([]byte("fLaC"))
	f.Add([]byte("OggSOpusHead"))
	f.Add([]byte{0x00, 0x00, 0x00, 0x00, 0xF8, 0x72, 0x6F, 0xBA})

	known := map[string]bool{
		"":       true,
		"h264":   true,
		"aac":    true,
		"mp3":    true,
		"ac3":    true,
		"eac3":   true,
		"truehd": true,
		"flac":   true,
		"opus":   true,
		"vorbis": true,
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		if name := DetectCodecName(data); !known[name] {
			t.Errorf("DetectCodecName returned unexpected name %q", name)
		}
	})
}
