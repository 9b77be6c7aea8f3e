// SPDX-License-Identifier: EPL-2.0

package sink

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/ik5/orbscape/clip"
	"github.com/ik5/orbscape/geom"
	"github.com/ik5/orbscape/utils"
)

const defaultMaxVoices = 64

// Mixer is a software Graph. Attached nodes are summed into one interleaved
// stream read through Read or ReadSamples.
type Mixer struct {
	format    clip.Format
	maxVoices int
	logger    *log.Logger

	mtx      sync.Mutex
	nodes    []*mixNode
	closed   bool
	rendered int64

	readMtx sync.Mutex
	scratch []float32
}

type MixerOption func(*Mixer)

func WithMaxVoices(n int) MixerOption {
	return func(m *Mixer) {
		if n > 0 {
			m.maxVoices = n
		}
	}
}

func WithMixerLogger(logger *log.Logger) MixerOption {
	return func(m *Mixer) { m.logger = logger }
}

func NewMixer(f clip.Format, opts ...MixerOption) (*Mixer, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	m := &Mixer{
		format:    f,
		maxVoices: defaultMaxVoices,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = log.Default().WithPrefix("mixer")
	}

	return m, nil
}

func (m *Mixer) Format() clip.Format { return m.format }

// Voices reports attached nodes.
func (m *Mixer) Voices() int {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	return len(m.nodes)
}

// Rendered reports frames rendered so far.
func (m *Mixer) Rendered() int64 {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	return m.rendered
}

func (m *Mixer) Attach(id string, f clip.Format) (Node, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	switch {
	case m.closed:
		return nil, ErrClosed
	case f != m.format:
		return nil, fmt.Errorf("%w: %s, want %s", ErrFormatMismatch, f, m.format)
	case len(m.nodes) >= m.maxVoices:
		return nil, fmt.Errorf("%w: %d", ErrTooManyVoices, m.maxVoices)
	}

	n := newMixNode(m, id)
	m.nodes = append(m.nodes, n)
	m.logger.Debug("attached", "node", id, "voices", len(m.nodes))

	return n, nil
}

func (m *Mixer) Detach(node Node) {
	n, ok := node.(*mixNode)
	if !ok || n.m != m {
		return
	}

	m.mtx.Lock()
	i := slices.Index(m.nodes, n)
	if i < 0 {
		m.mtx.Unlock()
		return
	}
	m.nodes = slices.Delete(m.nodes, i, i+1)
	n.attached = false
	calls := n.flush(nil)
	voices := len(m.nodes)
	m.mtx.Unlock()

	runCompletions(calls)
	m.logger.Debug("detached", "node", n.id, "voices", voices)
}

// Close detaches every node. Later Attach calls fail with ErrClosed.
func (m *Mixer) Close() error {
	m.mtx.Lock()
	m.closed = true
	var calls []completion
	for _, n := range m.nodes {
		n.attached = false
		calls = n.flush(calls)
	}
	m.nodes = nil
	m.mtx.Unlock()

	runCompletions(calls)
	return nil
}

// ReadSamples renders len(dst)/channels frames of interleaved float32. It
// always fills whole frames and never returns an error.
func (m *Mixer) ReadSamples(dst []float32) (int, error) {
	ch := m.format.Channels
	frames := len(dst) / ch
	dst = dst[:frames*ch]
	clear(dst)
	if frames == 0 {
		return 0, nil
	}

	m.mtx.Lock()
	var calls []completion
	for _, n := range m.nodes {
		if n.playing {
			calls = n.render(dst, frames, calls)
		}
	}
	m.rendered += int64(frames)
	m.mtx.Unlock()

	runCompletions(calls)
	return len(dst), nil
}

// Read renders signed 16-bit little-endian PCM into p.
func (m *Mixer) Read(p []byte) (int, error) {
	frameBytes := 2 * m.format.Channels
	samples := (len(p) / frameBytes) * m.format.Channels
	if samples == 0 {
		return 0, nil
	}

	m.readMtx.Lock()
	defer m.readMtx.Unlock()

	if cap(m.scratch) < samples {
		m.scratch = make([]float32, samples)
	}
	buf := m.scratch[:samples]

	n, err := m.ReadSamples(buf)
	for i, v := range buf[:n] {
		binary.LittleEndian.PutUint16(p[2*i:], uint16(utils.Float32ToInt16(v)))
	}
	return n * 2, err
}

type segment struct {
	clip *clip.Clip
	done func(Reason)
}

type completion struct {
	done   func(Reason)
	reason Reason
}

func runCompletions(calls []completion) {
	for _, c := range calls {
		if c.done != nil {
			c.done(c.reason)
		}
	}
}

// mixNode state is guarded by the owning mixer's lock.
type mixNode struct {
	m        *Mixer
	id       string
	attached bool
	playing  bool
	queue    []segment
	offset   int // frames of queue[0] already played

	gain    float32
	pan     float32
	target  []float32 // per-channel gain to reach by the end of the next block
	applied []float32 // per-channel gain at the end of the last block
}

func newMixNode(m *Mixer, id string) *mixNode {
	n := &mixNode{
		m:        m,
		id:       id,
		attached: true,
		gain:     1,
		target:   make([]float32, m.format.Channels),
		applied:  make([]float32, m.format.Channels),
	}
	n.updateTargets()
	copy(n.applied, n.target)
	return n
}

func (n *mixNode) Schedule(c *clip.Clip, done func(Reason)) {
	reason := ReasonFailed

	n.m.mtx.Lock()
	if n.attached && c != nil && c.Format() == n.m.format {
		n.queue = append(n.queue, segment{clip: c, done: done})
		n.m.mtx.Unlock()
		return
	}
	if !n.attached {
		reason = ReasonFlushed
	}
	n.m.mtx.Unlock()

	if done != nil {
		done(reason)
	}
}

func (n *mixNode) Play() {
	n.m.mtx.Lock()
	defer n.m.mtx.Unlock()

	n.playing = n.attached
}

func (n *mixNode) Stop() {
	n.m.mtx.Lock()
	n.playing = false
	calls := n.flush(nil)
	n.m.mtx.Unlock()

	runCompletions(calls)
}

func (n *mixNode) SetGain(gain float32) {
	n.m.mtx.Lock()
	defer n.m.mtx.Unlock()

	n.gain = utils.Clamp(gain, 0, 1)
	n.updateTargets()
}

func (n *mixNode) SetPosition(p geom.Vec3) {
	n.m.mtx.Lock()
	defer n.m.mtx.Unlock()

	n.pan = panFor(p)
	n.updateTargets()
}

func panFor(p geom.Vec3) float32 {
	d := p.Len()
	if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return 0
	}
	return utils.Clamp(float32(float64(p.X)/d), -1, 1)
}

func (n *mixNode) updateTargets() {
	for c := range n.target {
		n.target[c] = n.gain
	}
	if len(n.target) >= 2 {
		n.target[0] = n.gain * min(1, 1-n.pan)
		n.target[1] = n.gain * min(1, 1+n.pan)
	}
}

func (n *mixNode) flush(calls []completion) []completion {
	for _, seg := range n.queue {
		calls = append(calls, completion{done: seg.done, reason: ReasonFlushed})
	}
	clear(n.queue)
	n.queue = n.queue[:0]
	n.offset = 0
	return calls
}

// render adds frames of n's queue into dst, ramping every channel from its
// applied gain to its target.
func (n *mixNode) render(dst []float32, frames int, calls []completion) []completion {
	ch := len(n.target)

	var start, step [8]float32
	ramp := ch <= len(start)
	if ramp {
		for c := range ch {
			start[c] = n.applied[c]
			step[c] = (n.target[c] - n.applied[c]) / float32(frames)
		}
	}

	pos := 0
	for pos < frames && len(n.queue) > 0 {
		seg := n.queue[0]
		src := seg.clip.Samples()
		take := min(frames-pos, seg.clip.Frames()-n.offset)

		for f := range take {
			i := pos + f
			in := (n.offset + f) * ch
			for c := range ch {
				g := n.target[c]
				if ramp {
					g = start[c] + step[c]*float32(i+1)
				}
				dst[i*ch+c] += src[in+c] * g
			}
		}

		pos += take
		n.offset += take
		if n.offset >= seg.clip.Frames() {
			calls = append(calls, completion{done: seg.done, reason: ReasonFinished})
			n.queue[0] = segment{}
			n.queue = n.queue[1:]
			n.offset = 0
		}
	}

	copy(n.applied, n.target)
	return calls
}
