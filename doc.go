// Package lame provides a safe, resource-managed interface to the LAME
// MP3 encoder engine.
//
// The package wraps the engine's C-style ABI behind an Encoder context
// that owns the engine handle exclusively, sequences configuration,
// commit, and encode operations, and guarantees release exactly once.
// Raw integer status codes are translated into two typed error
// taxonomies: Error for configuration and lifecycle calls, EncodeError
// for the encode family, which uses a different code convention.
//
// # Getting Started
//
// Create an encoder, configure it, commit the configuration, then feed
// PCM buffers:
//
//	enc, err := lame.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer enc.Close()
//
//	enc.SetSampleRate(44100)
//	enc.SetChannels(2)
//	enc.SetQuality(5)
//	enc.SetKilobitrate(128)
//	if err := enc.InitParams(); err != nil {
//	    log.Fatal(err)
//	}
//
//	mp3 := make([]byte, 8192)
//	n, err := enc.Encode(left, right, mp3)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// n may be 0: the engine buffers samples until a frame boundary.
//
//	n, err = enc.Flush(mp3)
//
// Or use options-style construction, which applies the parameters and
// commits in one step:
//
//	enc, err := lame.NewWithConfig(lame.DefaultConfig())
//
// # Core Types
//
//   - [Encoder]: encoder context owning one engine handle
//   - [Config]: scalar parameters for options-style construction
//   - [Error]: typed configuration/lifecycle failure
//   - [EncodeError]: typed encode failure
//
// # Engines
//
// By default the package runs on the deterministic pure Go engine in
// backend/sim, which needs no cgo. Building with the liblame tag switches
// the default to the real libmp3lame library via backend/native. Either
// way, [NewWithBackend] accepts any implementation of the ABI.
//
// # Contract Violations
//
// Mismatched left/right buffer lengths, buffer lengths outside the
// engine's native int domain, and use of an encoder after Close are
// programmer errors and panic immediately rather than returning a typed
// error. Everything the engine itself rejects comes back as a typed
// error and is never swallowed or retried.
package lame
