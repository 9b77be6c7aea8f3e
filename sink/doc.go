// SPDX-License-Identifier: EPL-2.0

// Package sink is the output side: a Graph of voice Nodes, a software Mixer
// implementing it and an Output that plays the mixer on the audio device.
//
// # Mixer
//
// Each node holds a FIFO of scheduled clips. The render path plays them back
// to back inside one buffer, so a loop that always keeps the next segment
// queued plays without a gap. Completion callbacks are collected while the
// buffer is rendered and invoked after the mixer lock is released.
//
// Gain changes are ramped linearly across one render block. Position sets a
// balance pan from the horizontal direction of the source:
//
//	pan   = x / |p|          (0 at the origin)
//	left  = min(1, 1 - pan)
//	right = min(1, 1 + pan)
//
// so a source straight ahead or behind plays at full level in both ears.
//
// # Reading
//
// The Mixer is an io.Reader producing signed 16-bit little-endian PCM, which
// is what Output hands to oto. ReadSamples renders float32 for offline use:
//
//	mix, _ := sink.NewMixer(clip.Format{SampleRate: 48000, Channels: 2})
//	buf := make([]float32, 4800)
//	mix.ReadSamples(buf) // 50 ms of stereo audio
//
// The mixer never returns io.EOF; it renders silence when nothing plays.
package sink
