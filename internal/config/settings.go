package config

import "sync"

// Settings holds the live configuration shared between the frame loop and
// whoever edits it. Every successful change bumps the generation.
type Settings struct {
	mu         sync.RWMutex
	current    Voxels
	generation uint64
}

// NewSettings returns a holder initialised with v.
func NewSettings(v Voxels) *Settings {
	return &Settings{current: v}
}

// Get returns the current configuration and its generation.
func (s *Settings) Get() (Voxels, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.generation
}

// Generation returns the number of changes applied so far.
func (s *Settings) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Set validates and installs v. Installing a configuration equal to the
// current one is a no-op and does not bump the generation.
func (s *Settings) Set(v Voxels) (uint64, error) {
	if err := v.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if v != s.current {
		s.current = v
		s.generation++
	}
	return s.generation, nil
}

// SetRenderDistance updates both render distances (in voxels).
func (s *Settings) SetRenderDistance(horizontal, vertical int) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Clamp to something the buffers can plausibly hold
	horizontal = clamp(horizontal, s.current.ChunkSize, 64*s.current.ChunkSize)
	vertical = clamp(vertical, s.current.ChunkSize, 16*s.current.ChunkSize)

	if horizontal != s.current.RenderDistanceHorizontal || vertical != s.current.RenderDistanceVertical {
		s.current.RenderDistanceHorizontal = horizontal
		s.current.RenderDistanceVertical = vertical
		s.generation++
	}
	return s.generation
}

// SetMeshingAlgorithm switches the meshing algorithm.
func (s *Settings) SetMeshingAlgorithm(alg MeshingAlgorithm) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if alg != s.current.MeshingAlgorithm {
		s.current.MeshingAlgorithm = alg
		s.generation++
	}
	return s.generation
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
