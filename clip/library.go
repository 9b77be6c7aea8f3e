// SPDX-License-Identifier: EPL-2.0

package clip

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/ik5/orbscape/audio"
	"github.com/ik5/orbscape/formats"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const defaultPreloadLimit = 4

// Library resolves clip ids to decoded clips read from an fs.FS. Decoded PCM
// is converted to the library format and cached per id.
type Library struct {
	fsys    fs.FS
	format  Format
	codecs  *audio.Registry
	logger  *log.Logger
	limit   int
	decodes singleflight.Group

	mtx   sync.RWMutex
	cache map[string]*Clip

	live atomic.Int64
}

type Option func(*Library)

// WithRegistry replaces the bundled decoders.
func WithRegistry(r *audio.Registry) Option {
	return func(l *Library) { l.codecs = r }
}

func WithLogger(logger *log.Logger) Option {
	return func(l *Library) { l.logger = logger }
}

// WithPreloadLimit bounds concurrent decodes in Preload.
func WithPreloadLimit(n int) Option {
	return func(l *Library) {
		if n > 0 {
			l.limit = n
		}
	}
}

func NewLibrary(fsys fs.FS, f Format, opts ...Option) (*Library, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	l := &Library{
		fsys:   fsys,
		format: f,
		limit:  defaultPreloadLimit,
		cache:  make(map[string]*Clip),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.codecs == nil {
		l.codecs = formats.Registry()
	}
	if l.logger == nil {
		l.logger = log.Default().WithPrefix("clip")
	}

	return l, nil
}

func (l *Library) Format() Format { return l.format }

// Open returns a new handle on the clip named id, decoding it on first use.
func (l *Library) Open(ctx context.Context, id string) (*Handle, error) {
	c, err := l.load(ctx, id)
	if err != nil {
		return nil, err
	}

	l.live.Add(1)
	return NewHandle(c, func() { l.live.Add(-1) }), nil
}

// Live reports handles that were opened and not yet released.
func (l *Library) Live() int { return int(l.live.Load()) }

// Cached reports whether id has decoded PCM in the cache.
func (l *Library) Cached(id string) bool {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	_, ok := l.cache[id]
	return ok
}

// Evict drops cached PCM for id. Outstanding handles keep their clip.
func (l *Library) Evict(id string) bool {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	if _, ok := l.cache[id]; !ok {
		return false
	}
	delete(l.cache, id)
	l.logger.Debug("evicted", "clip", id)
	return true
}

// Preload decodes ids concurrently and stops at the first failure.
func (l *Library) Preload(ctx context.Context, ids ...string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.limit)

	for _, id := range ids {
		g.Go(func() error {
			_, err := l.load(ctx, id)
			return err
		})
	}

	return g.Wait()
}

// List returns every file id with a registered extension, sorted.
func (l *Library) List() ([]string, error) {
	var ids []string

	err := fs.WalkDir(l.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := l.codecs.Lookup(p); ok {
			ids = append(ids, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing clips: %w", err)
	}

	slices.Sort(ids)
	return ids, nil
}

func (l *Library) load(ctx context.Context, id string) (*Clip, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mtx.RLock()
	c, ok := l.cache[id]
	l.mtx.RUnlock()
	if ok {
		l.logger.Debug("cache hit", "clip", id)
		return c, nil
	}

	ch := l.decodes.DoChan(id, func() (any, error) {
		l.mtx.RLock()
		c, ok := l.cache[id]
		l.mtx.RUnlock()
		if ok {
			return c, nil
		}

		c, err := l.decode(id)
		if err != nil {
			return nil, err
		}

		l.mtx.Lock()
		l.cache[id] = c
		l.mtx.Unlock()
		return c, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Clip), nil
	}
}

func (l *Library) decode(id string) (*Clip, error) {
	if !fs.ValidPath(id) || id == "." {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}

	f, err := l.fsys.Open(id)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer f.Close()

	dec, ok := l.codecs.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: no decoder for %q", ErrDecode, id)
	}

	stream, err := dec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrDecode, id, err)
	}
	defer stream.Close()

	pcm, err := audio.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrDecode, id, err)
	}

	pcm, err = audio.Remix(pcm, stream.Channels(), l.format.Channels)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrDecode, id, err)
	}
	pcm, err = audio.Resample(pcm, l.format.Channels, stream.SampleRate(), l.format.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrDecode, id, err)
	}

	c, err := New(id, l.format, pcm)
	if err != nil {
		return nil, err
	}

	l.logger.Debug("decoded", "clip", id, "source", fmt.Sprintf("%d Hz/%dch", stream.SampleRate(), stream.Channels()), "duration", c.Duration())
	return c, nil
}
