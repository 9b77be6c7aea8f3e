// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"context"
	"fmt"
	"sync"

	"github.com/ik5/orbscape/clip"
)

// Format is the PCM layout used by FakeClips.
var Format = clip.Format{SampleRate: 8000, Channels: 1}

// FakeClips is an in-memory clip source that counts handles and can hold
// opens at a gate.
type FakeClips struct {
	mtx      sync.Mutex
	clips    map[string]*clip.Clip
	errs     map[string]error
	gate     chan struct{}
	entered  chan string
	opens    int
	live     int
	releases int
}

func NewFakeClips() *FakeClips {
	return &FakeClips{
		clips: make(map[string]*clip.Clip),
		errs:  make(map[string]error),
	}
}

// Add registers a constant clip of the given duration in frames.
func (f *FakeClips) Add(id string, frames int) *clip.Clip {
	samples := make([]float32, frames*Format.Channels)
	for i := range samples {
		samples[i] = 0.5
	}
	c, err := clip.New(id, Format, samples)
	if err != nil {
		panic(err)
	}

	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.clips[id] = c
	return c
}

// FailWith makes Open(id) return err.
func (f *FakeClips) FailWith(id string, err error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.errs[id] = err
}

// Hold blocks every later Open until release is called. Each blocked Open
// sends its id on entered first.
func (f *FakeClips) Hold() (entered <-chan string, release func()) {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	gate := make(chan struct{})
	f.gate = gate
	f.entered = make(chan string, 16)

	var once sync.Once
	return f.entered, func() {
		once.Do(func() {
			f.mtx.Lock()
			if f.gate == gate {
				f.gate = nil
			}
			f.mtx.Unlock()
			close(gate)
		})
	}
}

func (f *FakeClips) Open(ctx context.Context, id string) (*clip.Handle, error) {
	f.mtx.Lock()
	gate, entered := f.gate, f.entered
	f.mtx.Unlock()

	if gate != nil {
		entered <- id
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mtx.Lock()
	defer f.mtx.Unlock()

	f.opens++
	if err := f.errs[id]; err != nil {
		return nil, err
	}
	c, ok := f.clips[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", clip.ErrNotFound, id)
	}

	f.live++
	return clip.NewHandle(c, func() {
		f.mtx.Lock()
		defer f.mtx.Unlock()
		f.live--
		f.releases++
	}), nil
}

// Opens reports every Open call that got past the gate.
func (f *FakeClips) Opens() int {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return f.opens
}

// Live reports handles opened and not yet released.
func (f *FakeClips) Live() int {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return f.live
}

func (f *FakeClips) Releases() int {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return f.releases
}
