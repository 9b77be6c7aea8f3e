// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis clips with github.com/jfreymuth/oggvorbis.
//
// Samples are already float32, interleaved per frame:
//
//	[L0, R0, L1, R1, ...]
//
// ReadSamples only requests whole frames, so a dst whose length is not a
// multiple of the channel count is read short.
package vorbis
