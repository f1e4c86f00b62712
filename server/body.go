package main

import "github.com/charmbracelet/log"

// Segment is one body unit. Segment i follows segment i-1, segment 0 follows the head.
type Segment struct {
	Pos  Vec2
	Rot  float64
	velX float64
	velY float64
}

// SegmentedBody is the ordered chain of segments behind an actor's head
type SegmentedBody struct {
	segs        []Segment
	minLen      int
	maxScaleN   int
	stepRatio   float64
	scale       float64
	scaleCapped bool
}

// NewSegmentedBody creates an empty body with the given floor and scale curve
func NewSegmentedBody(minLen, maxScaleCount int, stepRatio float64) *SegmentedBody {
	return &SegmentedBody{
		minLen:    minLen,
		maxScaleN: maxScaleCount,
		stepRatio: stepRatio,
		scale:     1,
	}
}

// Len returns the segment count
func (b *SegmentedBody) Len() int { return len(b.segs) }

// MinLen returns the configured floor
func (b *SegmentedBody) MinLen() int { return b.minLen }

// Segments exposes the chain read-only; callers must not retain it across ticks
func (b *SegmentedBody) Segments() []Segment { return b.segs }

// TargetOf returns the index segment i follows, or -1 for the head
func (b *SegmentedBody) TargetOf(i int) int { return i - 1 }

// Append adds one segment at the tail (or at the head when empty)
func (b *SegmentedBody) Append(head Vec2, headRot float64) {
	s := Segment{Pos: head, Rot: headRot}
	if n := len(b.segs); n > 0 {
		tail := b.segs[n-1]
		s.Pos, s.Rot = tail.Pos, tail.Rot
	}
	b.segs = append(b.segs, s)
}

// RemoveTail drops the last segment. It refuses to go below the floor.
func (b *SegmentedBody) RemoveTail() bool {
	if len(b.segs) <= b.minLen {
		return false
	}
	b.segs = b.segs[:len(b.segs)-1]
	return true
}

// Rescale recomputes the uniform scale for the given total count
func (b *SegmentedBody) Rescale(total int) float64 {
	n := total
	if n > b.maxScaleN {
		n = b.maxScaleN
		if !b.scaleCapped {
			log.Debug("body reached maximum scale", "segments", total, "cap", b.maxScaleN)
		}
		b.scaleCapped = true
	} else {
		b.scaleCapped = false
	}
	b.scale = ScaleFor(n, b.maxScaleN, b.stepRatio)
	return b.scale
}

// Scale returns the last computed scale
func (b *SegmentedBody) Scale() float64 { return b.scale }

// ScaleFor is the scale curve: 1 + min(n, maxN)*step
func ScaleFor(n, maxN int, step float64) float64 {
	if n > maxN {
		n = maxN
	}
	return 1 + float64(n)*step
}

// Follow advances every segment toward its target for one tick
func (b *SegmentedBody) Follow(head Vec2, headRot, smoothTime, dt float64) {
	tp, tr := head, headRot
	for i := range b.segs {
		s := &b.segs[i]
		s.Pos.X = SmoothDamp(s.Pos.X, tp.X, &s.velX, smoothTime, dt)
		s.Pos.Y = SmoothDamp(s.Pos.Y, tp.Y, &s.velY, smoothTime, dt)
		s.Rot = LerpAngle(s.Rot, tr, dt*SegmentRotationDamp)
		tp, tr = s.Pos, s.Rot
	}
}

// Release drops all segments
func (b *SegmentedBody) Release() {
	b.segs = nil
}
