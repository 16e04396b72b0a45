// Package lavdec is a decode bridge over FFmpeg's libavcodec family for
// media pipelines that feed demuxed packets and consume flat, pre-allocated
// output buffers.
//
// The libraries (libavcodec, libavutil, libswresample, libswscale) are
// loaded at runtime with purego; no cgo and no link-time FFmpeg dependency.
// Loading happens once per process, implicitly on the first session open or
// eagerly via Load.
//
// # Decoding
//
// A Decoder wraps one codec context for a single elementary stream:
//
//	dec, err := lavdec.NewDecoder("ac3", nil)
//	...
//	n, _, err := dec.Decode(packet, pts, false, pcmBuf)
//
// Audio output is interleaved signed 16-bit PCM written directly into the
// caller's buffer; one input packet may expand into several decoded frames,
// all concatenated in decode order. Video output is one owned Frame handle
// per call, scaled to RGB565 on demand through a Scaler.
//
// Sessions are single-threaded: the caller serializes calls per Decoder.
// Independent Decoders run in parallel freely.
//
// # Handle boundary
//
// Hosts on the far side of an FFI boundary use the flat surface in
// bridge.go (OpenSession, DecodeSession, ...), where every object is an
// opaque uint64 handle, zero means invalid, and decode results are byte
// counts or negative error codes.
package lavdec
