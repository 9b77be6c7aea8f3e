// SPDX-License-Identifier: EPL-2.0

// Package audio provides the decode-side building blocks used to turn an
// encoded clip into PCM that the mixer can loop.
//
// # Stream Interface
//
// Every decoder in formats/ produces a Stream:
//
//	type Stream interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    Close() error
//	}
//
// ReadSamples returns interleaved float32 samples in [-1, 1] and io.EOF once
// the stream is exhausted.
//
// # Decoder Registry
//
// Decoders are registered against file extensions so a clip id such as
// "rain.mp3" selects its decoder:
//
//	reg := audio.NewRegistry()
//	reg.Register(wav.Decoder{}, "wav")
//	reg.Register(aiff.Decoder{}, "aif", "aiff")
//	dec, ok := reg.Lookup("sounds/rain.wav")
//
// # Conversion
//
// Clips are looped from memory, so conversion works on whole buffers:
//
//	pcm, _ := audio.ReadAll(stream)
//	pcm, _ = audio.Remix(pcm, stream.Channels(), 2)
//	pcm, _ = audio.Resample(pcm, 2, stream.SampleRate(), 48000)
//
// Remix averages channels when folding down and duplicates mono when
// spreading up. Resample uses Catmull-Rom interpolation and a one-pole
// low-pass when lowering the rate.
//
// # Sample Format
//
// Samples are float32 in [-1.0, 1.0], 0.0 is silence. Intermediate values may
// exceed the range while mixing; clipping happens once, at the output.
package audio
