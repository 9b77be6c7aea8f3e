// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// chunkFrames bounds the scratch buffer used while streaming sample data.
const chunkFrames = 4096

// maxDataSize is the largest data chunk the 32-bit RIFF sizes can describe.
const maxDataSize = math.MaxUint32 - 36

// Encode16 writes interleaved 16-bit PCM as a canonical 44-byte-header WAV.
func Encode16(w io.Writer, sampleRate, channels int, samples []int16) error {
	if channels <= 0 {
		return ErrInvalidChannels
	}
	if len(samples)%channels != 0 {
		return ErrMisalignedSamples
	}

	if err := checkDataSize(len(samples)); err != nil {
		return err
	}

	const bitsPerSample = 16
	blockAlign := channels * bitsPerSample / 8
	dataSize := uint32(len(samples) * 2)

	header := make([]byte, 44)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], 36+dataSize)
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], formatPCM)
	binary.LittleEndian.PutUint16(header[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(sampleRate*blockAlign))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], bitsPerSample)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataSize)

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("%w", err)
	}

	buf := make([]byte, 0, min(len(samples), chunkFrames*channels)*2)
	for start := 0; start < len(samples); start += chunkFrames * channels {
		end := min(start+chunkFrames*channels, len(samples))
		buf = buf[:0]
		for _, s := range samples[start:end] {
			buf = binary.LittleEndian.AppendUint16(buf, uint16(s))
		}
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("%w", err)
		}
	}

	return nil
}

func checkDataSize(samples int) error {
	if uint64(samples)*2 > maxDataSize {
		return fmt.Errorf("%w: %d samples", ErrTooLarge, samples)
	}
	return nil
}
