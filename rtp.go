//go:build darwin || linux

// RTP feed adapter: turns depacketized RTP payloads into decode calls with
// microsecond presentation timestamps.

package lavdec

import "github.com/pion/rtp"

// RTPFeed adapts a stream of RTP packets to a Decoder. It rebases the
// 32-bit RTP media clock onto a microsecond presentation timeline starting
// at the first packet seen. It does no network I/O and no payload
// depacketization: payloads must already be whole codec packets (true for
// the audio codecs this bridge maps).
type RTPFeed struct {
	dec       *Decoder
	clockRate uint32
	baseSet   bool
	baseTS    uint32
}

// NewRTPFeed wraps dec with timestamp rebasing at the payload type's media
// clock rate (e.g. 48000 for Opus).
func NewRTPFeed(dec *Decoder, clockRate uint32) *RTPFeed {
	return &RTPFeed{dec: dec, clockRate: clockRate}
}

// PTS converts an RTP timestamp to microseconds since the feed's first
// packet. The subtraction is modular, so a wrapped media clock keeps
// advancing monotonically.
func (f *RTPFeed) PTS(timestamp uint32) int64 {
	if !f.baseSet {
		f.baseSet = true
		f.baseTS = timestamp
	}
	elapsed := timestamp - f.baseTS
	return int64(elapsed) * 1e6 / int64(f.clockRate)
}

// Decode feeds one RTP packet's payload to the decoder. See Decoder.Decode
// for the output contract.
func (f *RTPFeed) Decode(pkt *rtp.Packet, out []byte) (int, *Frame, error) {
	if f == nil || f.dec == nil || pkt == nil {
		return 0, nil, ErrInvalidArgument
	}
	if f.clockRate == 0 {
		return 0, nil, ErrInvalidArgument
	}
	return f.dec.Decode(pkt.Payload, f.PTS(pkt.Timestamp), false, out)
}
