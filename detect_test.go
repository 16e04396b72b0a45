package lavdec

import "testing"

func TestDetectCodecName(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{
			name: "h264 annex-b sps",
			data: []byte{0x00, 0x00, 0x00, 0x01, 0x67, 0x42, 0x00, 0x1F},
			want: "h264",
		},
		{
			name: "h264 three-byte start code idr",
			data: []byte{0x00, 0x00, 0x01, 0x65, 0x88, 0x84},
			want: "h264",
		},
		{
			name: "annex-b with reserved nal type",
			data: []byte{0x00, 0x00, 0x00, 0x01, 0x7F, 0x00},
			want: "",
		},
		{
			name: "adts aac",
			data: []byte{0xFF, 0xF1, 0x50, 0x80, 0x01, 0xA0},
			want: "aac",
		},
		{
			name: "mpeg1 layer3",
			data: []byte{0xFF, 0xFB, 0x90, 0xC0, 0x00, 0x00},
			want: "mp3",
		},
		{
			name: "ac3 sync frame",
			data: []byte{0x0B, 0x77, 0x12, 0x34, 0x3E, 0x40},
			want: "ac3",
		},
		{
			name: "eac3 bitstream id 16",
			data: []byte{0x0B, 0x77, 0x12, 0x34, 0x3E, 0x80},
			want: "eac3",
		},
		{
			name: "truehd major sync",
			data: []byte{0x0F, 0xA0, 0x00, 0x00, 0xF8, 0x72, 0x6F, 0xBA, 0x00},
			want: "truehd",
		},
		{
			name: "flac stream marker",
			data: []byte("fLaC\x00\x00\x00\x22"),
			want: "flac",
		},
		{
			name: "ogg opus",
			data: append([]byte("OggS\x00\x02\x00\x00\x00\x00\x00\x00\x00\x00"), []byte("OpusHead")...),
			want: "opus",
		},
		{
			name: "ogg vorbis",
			data: append([]byte("OggS\x00\x02\x00\x00\x00\x00\x00\x00\x00\x00"), []byte("\x01vorbis")...),
			want: "vorbis",
		},
		{
			name: "ogg with unknown payload",
			data: []byte("OggS\x00\x02\x00\x00\x00\x00\x00\x00"),
			want: "",
		},
		{
			name: "garbage",
			data: []byte{0xDE, 0xAD, 0xBE, 0xEF, 0xDE, 0xAD},
			want: "",
		},
		{
			name: "too short",
			data: []byte{0xFF},
			want: "",
		},
		{
			name: "empty",
			data: nil,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectCodecName(tt.data); got != tt.want {
				t.Errorf("DetectCodecName() = %q, want %q", got, tt.want)
			}
		})
	}
}
