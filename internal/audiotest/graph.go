// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"fmt"
	"sync"

	"github.com/ik5/orbscape/clip"
	"github.com/ik5/orbscape/geom"
	"github.com/ik5/orbscape/sink"
)

// FakeGraph is a sink.Graph that renders nothing. Tests drive completion
// callbacks by hand through FakeNode.Finish and FakeNode.Fail.
type FakeGraph struct {
	mtx       sync.Mutex
	nodes     map[string]*FakeNode
	attached  int
	attaches  int
	attachErr error
}

func NewFakeGraph() *FakeGraph {
	return &FakeGraph{nodes: make(map[string]*FakeNode)}
}

// FailAttach makes every later Attach return err. nil restores success.
func (g *FakeGraph) FailAttach(err error) {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	g.attachErr = err
}

func (g *FakeGraph) Attach(id string, f clip.Format) (sink.Node, error) {
	g.mtx.Lock()
	defer g.mtx.Unlock()

	if g.attachErr != nil {
		return nil, g.attachErr
	}

	n := &FakeNode{id: id, format: f, gain: 1, attached: true}
	g.nodes[id] = n
	g.attached++
	g.attaches++
	return n, nil
}

func (g *FakeGraph) Detach(node sink.Node) {
	n, ok := node.(*FakeNode)
	if !ok {
		panic(fmt.Sprintf("audiotest: detach of foreign node %T", node))
	}

	n.mtx.Lock()
	was := n.attached
	n.attached = false
	n.detaches++
	calls := n.takeAll()
	n.mtx.Unlock()
	n.flush(calls)

	if was {
		g.mtx.Lock()
		g.attached--
		g.mtx.Unlock()
	}
}

// Node returns the most recent node attached under id.
func (g *FakeGraph) Node(id string) *FakeNode {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	return g.nodes[id]
}

// Attached reports nodes attached and not yet detached.
func (g *FakeGraph) Attached() int {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	return g.attached
}

// Attaches reports every successful Attach call.
func (g *FakeGraph) Attaches() int {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	return g.attaches
}

type fakeSegment struct {
	clip *clip.Clip
	done func(sink.Reason)
}

// FakeNode records what the engine does to one voice.
type FakeNode struct {
	id     string
	format clip.Format

	mtx       sync.Mutex
	queue     []fakeSegment
	scheduled int
	lastClip  *clip.Clip
	playing   bool
	stops     int
	detaches  int
	attached  bool
	late      int // segments scheduled while stopped or detached
	gain      float32
	pos       geom.Vec3
}

func (n *FakeNode) ID() string { return n.id }

func (n *FakeNode) Schedule(c *clip.Clip, done func(sink.Reason)) {
	n.mtx.Lock()
	n.scheduled++
	n.lastClip = c
	if !n.attached || n.stops > 0 {
		n.late++
		n.mtx.Unlock()
		done(sink.ReasonFlushed)
		return
	}
	n.queue = append(n.queue, fakeSegment{clip: c, done: done})
	n.mtx.Unlock()
}

func (n *FakeNode) Play() {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	n.playing = true
}

func (n *FakeNode) Stop() {
	n.mtx.Lock()
	n.playing = false
	n.stops++
	calls := n.takeAll()
	n.mtx.Unlock()
	n.flush(calls)
}

func (n *FakeNode) SetGain(g float32) {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	n.gain = g
}

func (n *FakeNode) SetPosition(p geom.Vec3) {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	n.pos = p
}

// Finish completes the oldest queued segment as if it played out. It
// reports false when nothing is queued.
func (n *FakeNode) Finish() bool { return n.complete(sink.ReasonFinished) }

// Fail completes the oldest queued segment with sink.ReasonFailed.
func (n *FakeNode) Fail() bool { return n.complete(sink.ReasonFailed) }

// Take removes the oldest queued segment without calling its callback, so a
// test can deliver the notification later.
func (n *FakeNode) Take() (func(sink.Reason), bool) {
	n.mtx.Lock()
	defer n.mtx.Unlock()

	if len(n.queue) == 0 {
		return nil, false
	}
	seg := n.queue[0]
	n.queue = n.queue[1:]
	return seg.done, true
}

func (n *FakeNode) complete(r sink.Reason) bool {
	done, ok := n.Take()
	if ok {
		done(r)
	}
	return ok
}

func (n *FakeNode) takeAll() []fakeSegment {
	q := n.queue
	n.queue = nil
	return q
}

func (n *FakeNode) flush(segs []fakeSegment) {
	for _, s := range segs {
		s.done(sink.ReasonFlushed)
	}
}

// Queued reports segments waiting to play.
func (n *FakeNode) Queued() int {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	return len(n.queue)
}

// Scheduled reports every Schedule call.
func (n *FakeNode) Scheduled() int {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	return n.scheduled
}

// Late reports Schedule calls made after Stop or Detach.
func (n *FakeNode) Late() int {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	return n.late
}

func (n *FakeNode) LastClip() *clip.Clip {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	return n.lastClip
}

func (n *FakeNode) Playing() bool {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	return n.playing
}

func (n *FakeNode) Stops() int {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	return n.stops
}

func (n *FakeNode) Detaches() int {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	return n.detaches
}

func (n *FakeNode) Gain() float32 {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	return n.gain
}

func (n *FakeNode) Position() geom.Vec3 {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	return n.pos
}
