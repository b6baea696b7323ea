package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxstream/internal/config"
	"voxstream/internal/gpumem"
	"voxstream/internal/streaming"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func smallConfig() config.Voxels {
	cfg := config.Default()
	cfg.ChunkSize = 16
	cfg.HeightmapAmplitude = 8
	cfg.HeightmapBias = 1
	cfg.RenderDistanceHorizontal = 16
	cfg.RenderDistanceVertical = 16
	cfg.Buffers = config.BufferLimits{Vertices: 1 << 18, Triangles: 1 << 18, Meshlets: 1 << 12}
	return cfg
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "voxels.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunk_size: 16\nseed: 5\n"), 0o644))

	cfg, err := loadConfig(path, overrides{})
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.ChunkSize)
	assert.Equal(t, int64(5), cfg.Seed)

	cfg, err = loadConfig(path, overrides{seed: 9, meshing: "culled"})
	require.NoError(t, err)
	assert.Equal(t, int64(9), cfg.Seed)
	assert.Equal(t, config.MeshingCulled, cfg.MeshingAlgorithm)

	cfg, err = loadConfig(path, overrides{renderH: 64})
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.RenderDistanceHorizontal)
	assert.Equal(t, config.Default().RenderDistanceVertical, cfg.RenderDistanceVertical)

	cfg, err = loadConfig(path, overrides{renderH: 1, renderV: 1 << 20})
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.RenderDistanceHorizontal, "clamped to one chunk")
	assert.Equal(t, 16*16, cfg.RenderDistanceVertical, "clamped to sixteen chunks")

	_, err = loadConfig(path, overrides{meshing: "marching"})
	assert.ErrorIs(t, err, config.ErrInvalid)
	_, err = loadConfig(filepath.Join(dir, "missing.yaml"), overrides{})
	assert.Error(t, err)
}

func TestCameraPaths(t *testing.T) {
	line, err := newCameraPath("line", 2)
	require.NoError(t, err)
	assert.Equal(t, cameraStart, line.At(0))
	assert.InDelta(t, 20, line.At(10).Sub(cameraStart).Len(), 1e-3)

	orbit, err := newCameraPath("orbit", 4)
	require.NoError(t, err)
	assert.True(t, orbit.At(0).ApproxEqualThreshold(cameraStart, 1e-3))
	for step := 0; step < 100; step++ {
		center := cameraStart.Sub(mgl32.Vec3{128, 0, 0})
		assert.InDelta(t, 128, orbit.At(step).Sub(center).Len(), 1e-2)
	}

	still, err := newCameraPath("still", 3)
	require.NoError(t, err)
	assert.Equal(t, cameraStart, still.At(50))

	_, err = newCameraPath("spiral", 1)
	assert.Error(t, err)
}

func TestRunWritesDump(t *testing.T) {
	dump := filepath.Join(t.TempDir(), "buffers.zst")
	path, err := newCameraPath("line", 8)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, run(ctx, quietLogger(), smallConfig(), overrides{}, path, "", false, time.Millisecond, 5, dump))

	s, err := readDump(dump)
	require.NoError(t, err)
	assert.NotEmpty(t, s.Meshlets)
	for _, ml := range s.Meshlets {
		assert.LessOrEqual(t, int(ml.VertexOffset+ml.VertexCount), len(s.Vertices))
		assert.LessOrEqual(t, int(ml.TriangleOffset+ml.TriangleCount), len(s.Triangles))
	}
}

func TestApplyConfigBumpsGenerationOnce(t *testing.T) {
	cfg := smallConfig()
	settings := config.NewSettings(cfg)
	memory := gpumem.New(cfg.Buffers)
	voxels, err := streaming.New(cfg, mgl32.Vec3{}, memory, quietLogger())
	require.NoError(t, err)
	defer voxels.Shutdown()

	// Unchanged config is ignored.
	applyConfig(quietLogger(), settings, voxels, memory, overrides{}, cfg)
	_, generation := voxels.Config()
	assert.Zero(t, generation)

	next := cfg
	next.Seed = 77
	next.Buffers.Meshlets = 1
	applyConfig(quietLogger(), settings, voxels, memory, overrides{}, next)
	got, generation := voxels.Config()
	assert.Equal(t, uint64(1), generation)
	assert.Equal(t, int64(77), got.Seed)
	assert.Equal(t, cfg.Buffers, got.Buffers, "buffer limits stay fixed")

	bad := next
	bad.ChunkSize = 3
	applyConfig(quietLogger(), settings, voxels, memory, overrides{}, bad)
	_, generation = voxels.Config()
	assert.Equal(t, uint64(1), generation)
}

func TestApplyConfigKeepsCommandLineOverrides(t *testing.T) {
	o := overrides{seed: 42, meshing: "culled", renderH: 32}
	cfg := o.apply(smallConfig())
	settings := config.NewSettings(cfg)
	memory := gpumem.New(cfg.Buffers)
	voxels, err := streaming.New(cfg, mgl32.Vec3{}, memory, quietLogger())
	require.NoError(t, err)
	defer voxels.Shutdown()

	// The reloaded file knows nothing about the command line.
	reloaded := smallConfig()
	reloaded.HeightmapAmplitude = 12
	applyConfig(quietLogger(), settings, voxels, memory, o, reloaded)

	got, generation := voxels.Config()
	assert.Equal(t, uint64(1), generation)
	assert.Equal(t, float32(12), got.HeightmapAmplitude)
	assert.Equal(t, int64(42), got.Seed)
	assert.Equal(t, config.MeshingCulled, got.MeshingAlgorithm)
	assert.Equal(t, 32, got.RenderDistanceHorizontal)
	assert.Equal(t, smallConfig().RenderDistanceVertical, got.RenderDistanceVertical)
}
