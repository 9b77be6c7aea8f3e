// SPDX-License-Identifier: EPL-2.0

// Package wav decodes WAV clips and writes rendered mixes back to WAV.
//
// Decoding goes through github.com/go-audio/wav, so any integer PCM layout it
// understands is accepted: 8, 16, 24 or 32 bits, any channel count, extra
// chunks (LIST, fact, ...) before the data chunk. Floating point WAV is
// rejected with ErrOnlyIntegerPCM.
//
//	src, err := wav.Decoder{}.Decode(file)
//	if err != nil {
//	    return err
//	}
//	pcm, err := audio.ReadAll(src)
//
// # Writing
//
// Encode16 streams interleaved int16 samples behind a canonical 44-byte
// header and never seeks:
//
//	err := wav.Encode16(out, 48000, 2, samples)
package wav
