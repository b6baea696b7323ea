package streaming

import (
	"github.com/gammazero/deque"

	"voxstream/internal/geom"
)

// ChunkPriority decides which chunk to load next. It grows a stable cuboid
// of loaded chunks around the camera one face at a time, always extending
// the face closest to the camera, and hands out the chunks of each new
// layer. Horizontal and vertical render distances (in chunks) bound how far
// the cuboid may grow along x/y and z.
//
// A ChunkPriority is not safe for concurrent use.
type ChunkPriority struct {
	camera     geom.Vec3i
	loaded     map[geom.Vec3i]struct{}
	stable     geom.Cuboid
	queue      deque.Deque[geom.Vec3i]
	horizontal int
	vertical   int
}

// NewChunkPriority returns a selector with nothing loaded yet.
func NewChunkPriority(camera geom.Vec3i, horizontal, vertical int) *ChunkPriority {
	return &ChunkPriority{
		camera:     camera,
		loaded:     make(map[geom.Vec3i]struct{}),
		horizontal: horizontal,
		vertical:   vertical,
	}
}

// Select returns the next chunk to load and marks it loaded, or false when
// every chunk within render distance is loaded.
func (p *ChunkPriority) Select() (geom.Vec3i, bool) {
	if p.queue.Len() > 0 {
		return p.take(), true
	}

	if p.stable.IsEmpty() {
		p.stable = geom.UnitCube(p.camera)
		if p.markLoaded(p.camera) {
			return p.camera, true
		}
	}

	if !p.stable.Contains(p.camera) {
		panic("streaming: camera outside stable region")
	}
	for {
		normal, ok := p.closestSide()
		if !ok {
			return geom.Vec3i{}, false
		}
		p.stable = p.stable.ExtendInDirection(normal)
		for _, chunk := range p.stable.SideVoxels(normal) {
			if _, loaded := p.loaded[chunk]; !loaded {
				p.queue.PushBack(chunk)
			}
		}
		if p.queue.Len() > 0 {
			return p.take(), true
		}
	}
}

// UpdateCamera moves the camera. Leaving the stable region discards it and
// the pending queue; loaded chunks stay loaded.
func (p *ChunkPriority) UpdateCamera(camera geom.Vec3i) {
	p.camera = camera
	if !p.stable.Contains(camera) {
		p.stable = geom.Cuboid{}
		p.queue.Clear()
	}
}

// Clear forgets everything, including loaded chunks, and applies new render
// distances.
func (p *ChunkPriority) Clear(camera geom.Vec3i, horizontal, vertical int) {
	p.camera = camera
	clear(p.loaded)
	p.stable = geom.Cuboid{}
	p.queue.Clear()
	p.horizontal = horizontal
	p.vertical = vertical
}

// Stable returns the region whose chunks have all been selected or are
// pending.
func (p *ChunkPriority) Stable() geom.Cuboid {
	return p.stable
}

// Loaded returns the number of chunks ever selected since the last Clear.
func (p *ChunkPriority) Loaded() int {
	return len(p.loaded)
}

// IsLoaded reports whether chunk has been selected since the last Clear.
func (p *ChunkPriority) IsLoaded(chunk geom.Vec3i) bool {
	_, ok := p.loaded[chunk]
	return ok
}

// Pending returns the number of queued chunks.
func (p *ChunkPriority) Pending() int {
	return p.queue.Len()
}

// take pops the most recently queued chunk.
func (p *ChunkPriority) take() geom.Vec3i {
	chunk := p.queue.PopBack()
	p.loaded[chunk] = struct{}{}
	return chunk
}

func (p *ChunkPriority) markLoaded(chunk geom.Vec3i) bool {
	if _, ok := p.loaded[chunk]; ok {
		return false
	}
	p.loaded[chunk] = struct{}{}
	return true
}

// closestSide returns the face of the stable region nearest the camera
// among those still within render distance. Ties go to the earlier entry
// of geom.Directions.
func (p *ChunkPriority) closestSide() (geom.Vec3i, bool) {
	best, bestDistance := geom.Vec3i{}, -1
	for _, d := range geom.Directions {
		distance := p.stable.DistanceFromInside(p.camera, d)
		limit := p.horizontal
		if geom.IsVertical(d) {
			limit = p.vertical
		}
		if distance > limit {
			continue
		}
		if bestDistance < 0 || distance < bestDistance {
			best, bestDistance = d, distance
		}
	}
	return best, bestDistance >= 0
}
