// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/orbscape/audio"
	"github.com/jfreymuth/oggvorbis"
)

// ErrInvalidChannels is returned for a stream header with no channels.
var ErrInvalidChannels = errors.New("vorbis: invalid channel count")

// oggReader is the part of oggvorbis.Reader the stream needs.
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

type stream struct {
	dec        oggReader
	sampleRate int
	channels   int
}

func (s *stream) SampleRate() int { return s.sampleRate }
func (s *stream) Channels() int   { return s.channels }
func (s *stream) Close() error    { return nil }

func (s *stream) ReadSamples(dst []float32) (int, error) {
	// oggvorbis counts interleaved values, so hand it whole frames only.
	dst = dst[:len(dst)-len(dst)%s.channels]
	if len(dst) == 0 {
		return 0, nil
	}

	n, err := s.dec.Read(dst)
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("%w", err)
	}
	return n, err
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Stream, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return newStream(dec)
}

func newStream(dec oggReader) (*stream, error) {
	if dec.Channels() <= 0 {
		return nil, ErrInvalidChannels
	}
	return &stream{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		channels:   dec.Channels(),
	}, nil
}
