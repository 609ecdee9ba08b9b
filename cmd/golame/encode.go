package main

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/lame"
)

// samplesPerChunk is the per-channel granularity fed to the encoder. One
// MP3 frame holds 1152 samples per channel, so larger chunks buy nothing.
const samplesPerChunk = 1152

func encodeFile(inPath, outPath string, bitrate, quality int) error {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	dec := wav.NewDecoder(in)
	if !dec.IsValidFile() {
		return fmt.Errorf("%s: not a valid WAV file", inPath)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return fmt.Errorf("read %s: %w", inPath, err)
	}
	if dec.BitDepth != 16 {
		return fmt.Errorf("%s: unsupported bit depth %d, only 16-bit WAV is supported", inPath, dec.BitDepth)
	}
	channels := buf.Format.NumChannels
	if channels != 1 && channels != 2 {
		return fmt.Errorf("%s: unsupported channel count %d", inPath, channels)
	}

	enc, err := lame.NewWithConfig(lame.Config{
		SampleRate:  uint32(buf.Format.SampleRate),
		Channels:    uint8(channels),
		Quality:     uint8(quality),
		Kilobitrate: int32(bitrate),
	})
	if err != nil {
		return fmt.Errorf("configure encoder: %w", err)
	}
	defer enc.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	pcm := toInt16(buf)
	written, err := encodeStream(enc, out, pcm, channels)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"function": "encodeFile",
		"input":    inPath,
		"output":   outPath,
		"samples":  len(pcm) / channels,
		"bytes":    written,
	}).Info("Encoded WAV file to MP3")

	return nil
}

// encodeStream feeds pcm through the encoder in frame-sized chunks and
// writes the produced MP3 bytes to out, returning the total byte count.
func encodeStream(enc *lame.Encoder, out *os.File, pcm []int16, channels int) (int, error) {
	chunk := samplesPerChunk * channels
	// Worst-case MP3 output for one chunk plus the encoder's internal
	// buffering, per the LAME buffer sizing recommendation.
	mp3 := make([]byte, chunk*5/4+7200)

	written := 0
	for start := 0; start < len(pcm); start += chunk {
		end := min(start+chunk, len(pcm))
		seg := pcm[start:end]
		if channels == 2 && len(seg)%2 != 0 {
			// A truncated final sample pair cannot be encoded.
			seg = seg[:len(seg)-1]
		}

		var n int
		var err error
		if channels == 2 {
			n, err = enc.EncodeInterleaved(seg, mp3)
		} else {
			n, err = enc.Encode(seg, seg, mp3)
		}
		if err != nil {
			return written, fmt.Errorf("encode: %w", err)
		}
		if n > 0 {
			if _, err := out.Write(mp3[:n]); err != nil {
				return written, err
			}
			written += n
		}
	}

	n, err := enc.Flush(mp3)
	if err != nil {
		return written, fmt.Errorf("flush: %w", err)
	}
	if n > 0 {
		if _, err := out.Write(mp3[:n]); err != nil {
			return written, err
		}
		written += n
	}

	return written, nil
}

func toInt16(buf *audio.IntBuffer) []int16 {
	out := make([]int16, len(buf.Data))
	for i, v := range buf.Data {
		out[i] = int16(v)
	}
	return out
}
