//go:build darwin || linux

// Flat boundary for managed-runtime hosts: every object is an opaque uint64
// handle with zero as the universal "not created / invalid" sentinel, and
// decode results are byte counts (>= 0) or negative AVERROR-style codes.
// Hosts that marshal across an FFI boundary use this surface; Go callers
// use Decoder, Frame and Scaler directly.

package lavdec

import (
	"encoding/binary"
	"sync"
)

// bridgeTable maps handles to live sessions, frames and scalers. The mutex
// guards table mutation only; serializing calls against one session remains
// the caller's responsibility.
type bridgeTable struct {
	mu       sync.Mutex
	next     uint64
	sessions map[uint64]*Decoder
	frames   map[uint64]*Frame
	scalers  map[uint64]*Scaler
}

var bridge = bridgeTable{
	sessions: make(map[uint64]*Decoder),
	frames:   make(map[uint64]*Frame),
	scalers:  make(map[uint64]*Scaler),
}

func (t *bridgeTable) newHandle() uint64 {
	t.next++
	return t.next
}

func (t *bridgeTable) session(h uint64) *Decoder {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sessions[h]
}

func (t *bridgeTable) frame(h uint64) *Frame {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.frames[h]
}

func (t *bridgeTable) scaler(h uint64) *Scaler {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.scalers[h]
}

func (t *bridgeTable) putFrame(f *Frame) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	h := t.newHandle()
	t.frames[h] = f
	return h
}

// GetVersion returns the implementation-identifying string. Never fails.
func GetVersion() string {
	return Version()
}

// OpenSession opens a decode session for the named codec with optional
// initialization data. Returns 0 on any allocation or open failure; nothing
// is leaked on failure.
func OpenSession(codecName string, extraData []byte) uint64 {
	dec, err := NewDecoder(codecName, extraData)
	if err != nil {
		return 0
	}
	bridge.mu.Lock()
	defer bridge.mu.Unlock()
	h := bridge.newHandle()
	bridge.sessions[h] = dec
	return h
}

// DecodeSession feeds one packet and drains output into out, returning the
// bytes written (>= 0) or a negative error code. For video the output is
// one frame handle, written into out native-endian; release it with
// FreeFrame.
func DecodeSession(session uint64, input []byte, pts int64, endOfInput bool, out []byte) int32 {
	dec := bridge.session(session)
	if dec == nil {
		return averrorEINVAL
	}
	n, frame, err := dec.Decode(input, pts, endOfInput, out)
	if err != nil {
		return errorCode(err)
	}
	if frame != nil {
		binary.NativeEndian.PutUint64(out[:FrameHandleSize], bridge.putFrame(frame))
	}
	return int32(n)
}

// ResetSession discards buffered decode state, with fresh initialization
// data for codecs that reopen instead of flushing. The returned handle
// replaces the input one: it is the same value when the context was kept,
// a new one when the context was rebuilt, and 0 when the session was
// invalid or the rebuild failed (the session is then gone).
func ResetSession(session uint64, extraData []byte) uint64 {
	dec := bridge.session(session)
	if dec == nil {
		return 0
	}
	rebuilt := reopenOnReset[dec.codecName]
	if err := dec.Reset(extraData); err != nil {
		bridge.mu.Lock()
		delete(bridge.sessions, session)
		bridge.mu.Unlock()
		dec.Close()
		return 0
	}
	if !rebuilt {
		return session
	}
	bridge.mu.Lock()
	defer bridge.mu.Unlock()
	delete(bridge.sessions, session)
	h := bridge.newHandle()
	bridge.sessions[h] = dec
	return h
}

// ReleaseSession closes a session. A zero or unknown handle is a no-op.
func ReleaseSession(session uint64) {
	bridge.mu.Lock()
	dec := bridge.sessions[session]
	delete(bridge.sessions, session)
	bridge.mu.Unlock()
	dec.Close()
}

// GetChannelCount returns the session's audio channel count, or a negative
// error code on an invalid handle.
func GetChannelCount(session uint64) int32 {
	dec := bridge.session(session)
	if dec == nil {
		return averrorEINVAL
	}
	n, err := dec.ChannelCount()
	if err != nil {
		return errorCode(err)
	}
	return int32(n)
}

// GetSampleRate returns the session's audio sample rate, or a negative
// error code on an invalid handle.
func GetSampleRate(session uint64) int32 {
	dec := bridge.session(session)
	if dec == nil {
		return averrorEINVAL
	}
	n, err := dec.SampleRate()
	if err != nil {
		return errorCode(err)
	}
	return int32(n)
}

// GetFrameWidth returns a decoded frame's width, or a negative error code
// on an invalid handle.
func GetFrameWidth(frame uint64) int32 {
	f := bridge.frame(frame)
	if f == nil {
		return averrorEINVAL
	}
	return int32(f.Width())
}

// GetFrameHeight returns a decoded frame's height, or a negative error code
// on an invalid handle.
func GetFrameHeight(frame uint64) int32 {
	f := bridge.frame(frame)
	if f == nil {
		return averrorEINVAL
	}
	return int32(f.Height())
}

// GetFramePts returns a decoded frame's presentation timestamp, or a
// negative error code on an invalid handle.
func GetFramePts(frame uint64) int64 {
	f := bridge.frame(frame)
	if f == nil {
		return int64(averrorEINVAL)
	}
	return f.PTS()
}

// CreateScaler builds an RGB565 converter bound to the frame's current
// geometry. Returns 0 on an invalid frame handle or creation failure.
func CreateScaler(frame uint64, dstWidth, dstHeight int) uint64 {
	f := bridge.frame(frame)
	if f == nil {
		return 0
	}
	s, err := NewScaler(f, dstWidth, dstHeight)
	if err != nil {
		return 0
	}
	bridge.mu.Lock()
	defer bridge.mu.Unlock()
	h := bridge.newHandle()
	bridge.scalers[h] = s
	return h
}

// ScaleFrame converts a frame into out with the given row stride, returning
// the number of output rows processed or a negative error code.
func ScaleFrame(scaler, frame uint64, out []byte, stride int) int32 {
	s := bridge.scaler(scaler)
	f := bridge.frame(frame)
	if s == nil || f == nil {
		return averrorEINVAL
	}
	rows, err := s.Scale(f, out, stride)
	if err != nil {
		return errorCode(err)
	}
	return int32(rows)
}

// FreeScaler releases a scaler. A zero or unknown handle is a no-op.
func FreeScaler(scaler uint64) {
	bridge.mu.Lock()
	s := bridge.scalers[scaler]
	delete(bridge.scalers, scaler)
	bridge.mu.Unlock()
	s.Free()
}

// FreeFrame releases a decoded frame. A zero or unknown handle is a no-op.
func FreeFrame(frame uint64) {
	bridge.mu.Lock()
	f := bridge.frames[frame]
	delete(bridge.frames, frame)
	bridge.mu.Unlock()
	f.Free()
}
