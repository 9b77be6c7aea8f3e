// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/orbscape/audio"
	"github.com/ik5/orbscape/utils"
)

// go-mp3 always produces 16-bit little-endian stereo.
const channels = 2

// pcmReader is the subset of gomp3.Decoder used here, mocked in tests.
type pcmReader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

type stream struct {
	dec        pcmReader
	sampleRate int
	buf        []byte
	carry      []byte // a trailing odd byte from the previous Read
}

func (s *stream) SampleRate() int { return s.sampleRate }
func (s *stream) Channels() int   { return channels }
func (s *stream) Close() error    { return nil }

func (s *stream) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	need := len(dst)*2 - len(s.carry)
	if cap(s.buf) < len(dst)*2 {
		s.buf = make([]byte, len(dst)*2)
	}
	s.buf = s.buf[:len(s.carry)+need]
	copy(s.buf, s.carry)

	n, err := s.dec.Read(s.buf[len(s.carry):])
	total := len(s.carry) + n
	samples := total / 2

	for i := range samples {
		dst[i] = utils.Int16ToFloat32(int16(binary.LittleEndian.Uint16(s.buf[2*i:])))
	}
	s.carry = append(s.carry[:0], s.buf[samples*2:total]...)

	if err != nil && err != io.EOF {
		return samples, fmt.Errorf("%w", err)
	}
	if err == io.EOF && samples == 0 {
		return 0, io.EOF
	}
	return samples, err
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Stream, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return &stream{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		buf:        make([]byte, 8192),
	}, nil
}
