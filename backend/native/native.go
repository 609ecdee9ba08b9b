//go:build liblame

// Package native binds the backend ABI to the real libmp3lame library.
//
// Build with the liblame tag on a system with the LAME development
// headers installed:
//
//	go build -tags liblame ./...
//
// Handles are raw lame_global_flags pointers owned by the C library; the
// Handle values produced here must only be released through Close.
package native

/*
#cgo LDFLAGS: -lmp3lame
#include <lame/lame.h>
*/
import "C"

import (
	"unsafe"

	"github.com/opd-ai/lame/backend"
)

// Backend implements backend.Interface on top of libmp3lame. It is
// stateless; all state lives behind the handles the library hands out.
type Backend struct{}

// New returns the libmp3lame-backed engine.
func New() *Backend {
	return &Backend{}
}

func flags(h backend.Handle) *C.lame_global_flags {
	return (*C.lame_global_flags)(unsafe.Pointer(h))
}

// Init allocates a LAME context. Returns the null handle when the
// library cannot allocate its internal structures.
func (*Backend) Init() backend.Handle {
	return backend.Handle(unsafe.Pointer(C.lame_init()))
}

func (*Backend) InSampleRate(h backend.Handle) int32 {
	return int32(C.lame_get_in_samplerate(flags(h)))
}

func (*Backend) SetInSampleRate(h backend.Handle, hz int32) int32 {
	return int32(C.lame_set_in_samplerate(flags(h), C.int(hz)))
}

func (*Backend) NumChannels(h backend.Handle) int32 {
	return int32(C.lame_get_num_channels(flags(h)))
}

func (*Backend) SetNumChannels(h backend.Handle, n int32) int32 {
	return int32(C.lame_set_num_channels(flags(h), C.int(n)))
}

func (*Backend) Quality(h backend.Handle) int32 {
	return int32(C.lame_get_quality(flags(h)))
}

func (*Backend) SetQuality(h backend.Handle, q int32) int32 {
	return int32(C.lame_set_quality(flags(h), C.int(q)))
}

func (*Backend) Brate(h backend.Handle) int32 {
	return int32(C.lame_get_brate(flags(h)))
}

func (*Backend) SetBrate(h backend.Handle, kbps int32) int32 {
	return int32(C.lame_set_brate(flags(h), C.int(kbps)))
}

func (*Backend) InitParams(h backend.Handle) int32 {
	return int32(C.lame_init_params(flags(h)))
}

// EncodeBuffer forwards dual-channel PCM to lame_encode_buffer. Empty
// inputs still make the call so the library can emit buffered frames.
func (*Backend) EncodeBuffer(h backend.Handle, left, right []int16, out []byte) int32 {
	return int32(C.lame_encode_buffer(
		flags(h),
		shortPtr(left), shortPtr(right), C.int(len(left)),
		bytePtr(out), C.int(len(out)),
	))
}

// EncodeBufferInterleaved forwards interleaved stereo PCM to
// lame_encode_buffer_interleaved. The sample count argument is per
// channel.
func (*Backend) EncodeBufferInterleaved(h backend.Handle, pcm []int16, out []byte) int32 {
	return int32(C.lame_encode_buffer_interleaved(
		flags(h),
		shortPtr(pcm), C.int(len(pcm)/2),
		bytePtr(out), C.int(len(out)),
	))
}

func (*Backend) EncodeFlush(h backend.Handle, out []byte) int32 {
	return int32(C.lame_encode_flush(flags(h), bytePtr(out), C.int(len(out))))
}

func (*Backend) Close(h backend.Handle) {
	C.lame_close(flags(h))
}

func shortPtr(s []int16) *C.short {
	if len(s) == 0 {
		return nil
	}
	return (*C.short)(unsafe.Pointer(&s[0]))
}

func bytePtr(s []byte) *C.uchar {
	if len(s) == 0 {
		return nil
	}
	return (*C.uchar)(unsafe.Pointer(&s[0]))
}
