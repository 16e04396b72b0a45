//go:build darwin || linux

package lavdec

import (
	"errors"
	"testing"

	"github.com/pion/rtp"
)

func TestRTPFeedPTS(t *testing.T) {
	tests := []struct {
		name      string
		clockRate uint32
		base      uint32
		timestamp uint32
		want      int64
	}{
		{"first packet is zero", 48000, 960, 960, 0},
		{"one opus frame later", 48000, 0, 960, 20000},
		{"one second at 90k", 90000, 1000, 91000, 1000000},
		{"clock wraps around", 48000, 0xFFFFFC40, 0x00000000, 20000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewRTPFeed(nil, tt.clockRate)
			f.PTS(tt.base)
			if got := f.PTS(tt.timestamp); got != tt.want {
				t.Errorf("PTS(%#x) = %d, want %d", tt.timestamp, got, tt.want)
			}
		})
	}
}

func TestRTPFeedDecode_InvalidArguments(t *testing.T) {
	out := make([]byte, RecommendedAudioBufferSize)
	pkt := &rtp.Packet{Header: rtp.Header{Timestamp: 960}, Payload: []byte{0xFC}}

	var nilFeed *RTPFeed
	if _, _, err := nilFeed.Decode(pkt, out); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("nil feed Decode error = %v, want ErrInvalidArgument", err)
	}
	if _, _, err := NewRTPFeed(nil, 48000).Decode(pkt, out); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("nil decoder Decode error = %v, want ErrInvalidArgument", err)
	}
	if _, _, err := NewRTPFeed(&Decoder{}, 0).Decode(pkt, out); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("zero clock rate Decode error = %v, want ErrInvalidArgument", err)
	}
}

func TestRTPFeedDecode_MP3(t *testing.T) {
	requireFFmpeg(t)

	dec, err := NewDecoder("mp3", nil)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	defer dec.Close()

	feed := NewRTPFeed(dec, 90000)
	out := make([]byte, RecommendedAudioBufferSize)
	total := 0
	for i := 0; i < 8; i++ {
		pkt := &rtp.Packet{
			Header:  rtp.Header{Timestamp: uint32(i) * 2351},
			Payload: silentMP3Frame(),
		}
		n, _, err := feed.Decode(pkt, out)
		if err != nil {
			t.Fatalf("Decode packet %d: %v", i, err)
		}
		total += n
	}
	if total == 0 {
		t.Fatal("decoded no audio from the RTP feed")
	}
}
