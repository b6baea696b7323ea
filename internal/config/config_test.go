package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(v *Voxels){
		"chunk size not power of two": func(v *Voxels) { v.ChunkSize = 24 },
		"chunk size zero":             func(v *Voxels) { v.ChunkSize = 0 },
		"chunk size too large":        func(v *Voxels) { v.ChunkSize = 256 },
		"negative render distance":    func(v *Voxels) { v.RenderDistanceVertical = -1 },
		"unknown noise":               func(v *Voxels) { v.NoiseImplementation = "worley" },
		"unknown meshing":             func(v *Voxels) { v.MeshingAlgorithm = "marching" },
		"empty buffers":               func(v *Voxels) { v.Buffers.Meshlets = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			v := Default()
			mutate(&v)
			assert.ErrorIs(t, v.Validate(), ErrInvalid)
		})
	}
}

func TestRenderDistanceChunksRoundsUp(t *testing.T) {
	v := Default()
	v.ChunkSize = 16
	v.RenderDistanceHorizontal = 33
	v.RenderDistanceVertical = 16
	h, vert := v.RenderDistanceChunks()
	assert.Equal(t, 3, h)
	assert.Equal(t, 1, vert)
}

func TestParseKeepsDefaults(t *testing.T) {
	v, err := Parse([]byte("chunk_size: 16\nmeshing_algorithm: culled\nbuffers:\n  meshlets: 10\n"))
	require.NoError(t, err)
	assert.Equal(t, 16, v.ChunkSize)
	assert.Equal(t, MeshingCulled, v.MeshingAlgorithm)
	assert.Equal(t, 10, v.Buffers.Meshlets)
	assert.Equal(t, Default().Buffers.Vertices, v.Buffers.Vertices)
	assert.Equal(t, Default().HeightmapAmplitude, v.HeightmapAmplitude)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("chunk_size: 12\n"))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Parse([]byte("chunk_size: [\n"))
	assert.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	raw, err := Marshal(Default())
	require.NoError(t, err)
	v, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, Default(), v)
}

func TestSettingsGeneration(t *testing.T) {
	s := NewSettings(Default())
	_, gen := s.Get()
	assert.Zero(t, gen)

	gen, err := s.Set(Default())
	require.NoError(t, err)
	assert.Zero(t, gen, "unchanged config must not bump the generation")

	assert.Equal(t, uint64(1), s.SetMeshingAlgorithm(MeshingCulled))
	assert.Equal(t, uint64(1), s.SetMeshingAlgorithm(MeshingCulled))

	gen = s.SetRenderDistance(1, 1_000_000)
	assert.Equal(t, uint64(2), gen)
	v, _ := s.Get()
	assert.Equal(t, v.ChunkSize, v.RenderDistanceHorizontal)
	assert.Equal(t, 16*v.ChunkSize, v.RenderDistanceVertical)

	bad := v
	bad.ChunkSize = 3
	_, err = s.Set(bad)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Equal(t, uint64(2), s.Generation())
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "voxels.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunk_size: 16\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan Voxels, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(v Voxels) { changes <- v }, nil)
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("chunk_size: 64\n"), 0o644))

	// A truncating write can surface as an intermediate empty file, which
	// loads as the defaults; wait for the final content.
	timeout := time.After(5 * time.Second)
	for reloaded := false; !reloaded; {
		select {
		case v := <-changes:
			reloaded = v.ChunkSize == 64
		case <-timeout:
			t.Fatal("no reload observed")
		}
	}

	cancel()
	require.NoError(t, <-done)
}
