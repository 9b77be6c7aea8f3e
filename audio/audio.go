// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"path"
	"slices"
	"strings"
	"sync"
)

// Stream is a decoded PCM stream.
type Stream interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1] and
	// returns the number of float32 values written (not frames). n == 0 with
	// io.EOF means the stream is finished.
	ReadSamples(dst []float32) (n int, err error)
	// Close releases any resources.
	Close() error
}

// Decoder constructs a Stream from an encoded input.
type Decoder interface {
	Decode(r io.Reader) (Stream, error)
}

// Registry maps file extensions ("wav", "mp3", "ogg") to decoders.
type Registry struct {
	mtx    sync.RWMutex
	codecs map[string]Decoder
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
	}
}

// Register binds d to every extension in exts. Extensions are case
// insensitive and may carry a leading dot.
func (r *Registry) Register(d Decoder, exts ...string) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	for _, ext := range exts {
		r.codecs[normalizeExt(ext)] = d
	}
}

// Get returns the decoder registered for ext.
func (r *Registry) Get(ext string) (Decoder, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	d, ok := r.codecs[normalizeExt(ext)]
	return d, ok
}

// Lookup picks the decoder for a file name by its extension.
func (r *Registry) Lookup(name string) (Decoder, bool) {
	ext := path.Ext(name)
	if ext == "" {
		return nil, false
	}
	return r.Get(ext)
}

// Extensions lists the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	exts := make([]string, 0, len(r.codecs))
	for ext := range r.codecs {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
