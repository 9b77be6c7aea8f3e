// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ik5/orbscape/clip"
	"github.com/ik5/orbscape/geom"
	"github.com/ik5/orbscape/sink"
	"github.com/ik5/orbscape/utils"
)

const DefaultQueueAhead = 2

// ClipSource resolves clip ids. Errors wrapping clip.ErrNotFound are
// reported as ErrClipNotFound, anything else as ErrClipDecodeFailed.
type ClipSource interface {
	Open(ctx context.Context, id string) (*clip.Handle, error)
}

// Registry owns every live voice and keeps each one looping its clip until
// it is removed.
//
// All lifecycle steps for one key run under that key's lock, including the
// handling of completion notifications, which the render path only queues.
// Different keys never wait on each other except for brief map access.
type Registry struct {
	clips  ClipSource
	graph  sink.Graph
	logger *log.Logger
	depth  int
	block  time.Duration

	locks keyLocks

	mtx    sync.Mutex
	voices map[string]*voice
	closed bool

	queue *notifyQueue
	done  chan struct{}
}

// voice fields other than key and clipID are guarded by the key lock.
type voice struct {
	key    string
	clipID string
	state  State
	handle *clip.Handle
	node   sink.Node
	pos    geom.Vec3
	gain   float32
	loops  int
}

// VoiceInfo is a copy of a voice's state.
type VoiceInfo struct {
	Key      string
	ClipID   string
	State    State
	Position geom.Vec3
	Gain     float32
	// Loops counts completed passes through the clip.
	Loops int
}

type Option func(*Registry)

func WithLogger(logger *log.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// WithQueueAhead sets how many passes of the clip are kept queued on the
// node. Values below 1 are ignored.
func WithQueueAhead(n int) Option {
	return func(r *Registry) {
		if n >= 1 {
			r.depth = n
		}
	}
}

// WithRenderBlock sets the longest span the sink renders before queued
// completions are handled. Voices whose clip is shorter keep enough passes
// queued to cover a whole block. Values below 1 are ignored.
func WithRenderBlock(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.block = d
		}
	}
}

// New starts a registry. Close must be called to stop its dispatcher.
func New(clips ClipSource, graph sink.Graph, opts ...Option) *Registry {
	r := &Registry{
		clips:  clips,
		graph:  graph,
		depth:  DefaultQueueAhead,
		voices: make(map[string]*voice),
		queue:  newNotifyQueue(),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.Default().WithPrefix("engine")
	}

	go r.dispatch()
	return r
}

// RegisterAndPlay loads clipID and starts looping it as key, at the origin
// with gain 1. While the clip loads the key is reserved in StateStarting; a
// StopAndRemove or ctx cancellation in that window makes the call return
// ErrCancelled. On any error nothing of the voice remains.
func (r *Registry) RegisterAndPlay(ctx context.Context, key, clipID string) error {
	v, err := r.reserve(key, clipID)
	if err != nil {
		return err
	}

	h, err := r.clips.Open(ctx, clipID)

	unlock := r.locks.lock(key)
	defer unlock()

	if r.isClosed() || v.state != StateStarting {
		if h != nil {
			h.Release()
		}
		r.drop(v)
		v.state = StateStopped
		if r.isClosed() {
			return ErrClosed
		}
		r.logger.Debug("registration cancelled", "key", key, "clip", clipID)
		return fmt.Errorf("%w: %q removed while loading", ErrCancelled, key)
	}
	if err == nil {
		err = ctx.Err()
		if err != nil {
			h.Release()
		}
	}
	if err != nil {
		r.drop(v)
		v.state = StateStopped
		return openError(clipID, err)
	}

	node, err := r.graph.Attach(key, h.Clip().Format())
	if err != nil {
		h.Release()
		r.drop(v)
		v.state = StateStopped
		return fmt.Errorf("%w: %w", ErrGraphAttachFailed, err)
	}

	v.handle = h
	v.node = node
	node.SetPosition(v.pos)
	node.SetGain(v.gain)
	for range r.passes(h.Clip()) {
		r.schedule(v)
	}
	v.state = StateLooping
	node.Play()

	r.logger.Debug("voice looping", "key", key, "clip", clipID, "duration", h.Clip().Duration())
	return nil
}

// passes is how many passes of c stay queued: the queue-ahead depth, or
// enough that the passes after the playing one outlast a render block.
func (r *Registry) passes(c *clip.Clip) int {
	frames, block := c.Frames(), c.Format().Frames(r.block)
	if frames <= 0 || block <= 0 {
		return r.depth
	}
	return max(r.depth, (block+frames-1)/frames+1)
}

func (r *Registry) reserve(key, clipID string) (*voice, error) {
	unlock := r.locks.lock(key)
	defer unlock()

	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.closed {
		return nil, ErrClosed
	}
	if _, ok := r.voices[key]; ok {
		return nil, fmt.Errorf("%w: %q", ErrAlreadyRegistered, key)
	}

	v := &voice{key: key, clipID: clipID, state: StateStarting, gain: 1}
	r.voices[key] = v
	r.logger.Debug("voice starting", "key", key, "clip", clipID)
	return v, nil
}

func openError(clipID string, err error) error {
	switch {
	case errors.Is(err, clip.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrClipNotFound, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrCancelled, err)
	default:
		return fmt.Errorf("%w: %q: %w", ErrClipDecodeFailed, clipID, err)
	}
}

// UpdateSpatial applies position and gain to a looping voice. It does
// nothing for unknown, starting or stopping keys. gain is clamped to [0, 1].
func (r *Registry) UpdateSpatial(key string, pos geom.Vec3, gain float32) {
	unlock := r.locks.lock(key)
	defer unlock()

	v := r.live(key)
	if v == nil || v.state != StateLooping {
		return
	}

	v.pos = pos
	v.gain = utils.Clamp(gain, 0, 1)
	v.node.SetPosition(v.pos)
	v.node.SetGain(v.gain)
}

// StopAndRemove silences and tears down key. The key can be registered
// again as soon as this returns. Unknown keys are ignored.
func (r *Registry) StopAndRemove(key string) {
	unlock := r.locks.lock(key)
	defer unlock()

	v := r.live(key)
	if v == nil {
		return
	}
	r.drop(v)

	switch v.state {
	case StateStarting:
		// RegisterAndPlay finishes the teardown when the load returns.
		v.state = StateStopping
		r.logger.Debug("voice removed while starting", "key", key)
	case StateLooping:
		r.teardown(v)
		r.logger.Debug("voice stopped", "key", key, "loops", v.loops)
	}
}

// teardown runs with the key lock held.
func (r *Registry) teardown(v *voice) {
	v.state = StateStopping
	v.node.Stop()
	r.graph.Detach(v.node)
	if !v.handle.Release() {
		r.logger.Warn("clip handle released twice", "key", v.key, "clip", v.clipID)
	}
	v.state = StateStopped
}

// schedule queues one pass of the clip. The callback may run on the render
// goroutine, so it only posts to the dispatcher.
func (r *Registry) schedule(v *voice) {
	v.node.Schedule(v.handle.Clip(), func(reason sink.Reason) {
		if reason == sink.ReasonFlushed {
			return
		}
		r.queue.push(notification{v: v, reason: reason})
	})
}

func (r *Registry) dispatch() {
	defer close(r.done)

	for {
		n, ok := r.queue.pop()
		if !ok {
			return
		}
		if n.barrier != nil {
			close(n.barrier)
			continue
		}
		r.handle(n)
	}
}

// handle decides whether a finished pass is followed by another. The
// decision is made under the key lock against the voice's current state,
// so a voice stopped before the notification is handled never restarts.
func (r *Registry) handle(n notification) {
	v := n.v

	unlock := r.locks.lock(v.key)
	defer unlock()

	if r.live(v.key) != v || v.state != StateLooping {
		r.logger.Debug("ignoring completion", "key", v.key, "state", v.state, "reason", n.reason)
		return
	}

	switch n.reason {
	case sink.ReasonFinished:
		v.loops++
		r.schedule(v)
	case sink.ReasonFailed:
		r.logger.Error("playback failed, removing voice", "key", v.key, "clip", v.clipID)
		r.drop(v)
		r.teardown(v)
	}
}

// Drain blocks until every notification queued before the call has been
// handled. It returns at once after Close.
func (r *Registry) Drain() {
	barrier := make(chan struct{})
	if !r.queue.push(notification{barrier: barrier}) {
		return
	}
	select {
	case <-barrier:
	case <-r.done:
	}
}

// Close stops every voice and the dispatcher. Later RegisterAndPlay calls
// fail with ErrClosed.
func (r *Registry) Close() {
	r.mtx.Lock()
	if r.closed {
		r.mtx.Unlock()
		return
	}
	r.closed = true
	keys := slices.Collect(maps.Keys(r.voices))
	r.mtx.Unlock()

	for _, key := range keys {
		r.StopAndRemove(key)
	}

	r.queue.close()
	<-r.done
	r.logger.Debug("registry closed", "voices", len(keys))
}

// State reports the state of the voice registered as key.
func (r *Registry) State(key string) (State, bool) {
	unlock := r.locks.lock(key)
	defer unlock()

	v := r.live(key)
	if v == nil {
		return 0, false
	}
	return v.state, true
}

func (r *Registry) Snapshot(key string) (VoiceInfo, bool) {
	unlock := r.locks.lock(key)
	defer unlock()

	v := r.live(key)
	if v == nil {
		return VoiceInfo{}, false
	}
	return VoiceInfo{
		Key:      v.key,
		ClipID:   v.clipID,
		State:    v.state,
		Position: v.pos,
		Gain:     v.gain,
		Loops:    v.loops,
	}, true
}

// Keys lists registered keys, starting ones included, sorted.
func (r *Registry) Keys() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	return slices.Sorted(maps.Keys(r.voices))
}

func (r *Registry) Len() int {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	return len(r.voices)
}

func (r *Registry) live(key string) *voice {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	return r.voices[key]
}

// drop removes v from the map if it is still the voice for its key.
func (r *Registry) drop(v *voice) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.voices[v.key] == v {
		delete(r.voices, v.key)
	}
}

func (r *Registry) isClosed() bool {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	return r.closed
}
