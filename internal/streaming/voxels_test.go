package streaming

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxstream/internal/config"
	"voxstream/internal/geom"
	"voxstream/internal/gpumem"
	"voxstream/internal/world"
)

// testConfig is a small world with a gently rolling surface a few voxels
// above z=0, streamed two chunks out horizontally and one vertically.
func testConfig() config.Voxels {
	cfg := config.Default()
	cfg.ChunkSize = 16
	cfg.NoiseImplementation = config.NoiseValue
	cfg.HeightmapAmplitude = 4
	cfg.HeightmapBias = 2
	cfg.RenderDistanceHorizontal = 32
	cfg.RenderDistanceVertical = 16
	return cfg
}

func newTestVoxels(t *testing.T, cfg config.Voxels) (*Voxels, *gpumem.Memory) {
	t.Helper()
	mem := gpumem.New(cfg.Buffers)
	v, err := New(cfg, mgl32.Vec3{}, mem, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(v.Shutdown)
	return v, mem
}

func waitIdle(t *testing.T, v *Voxels, loaded int) Stats {
	t.Helper()
	var s Stats
	require.Eventually(t, func() bool {
		s = v.Stats()
		return s.Idle && s.Loaded == loaded && s.Pending == 0
	}, 20*time.Second, 5*time.Millisecond)
	return s
}

func TestWorkerStreamsAroundCamera(t *testing.T) {
	v, mem := newTestVoxels(t, testConfig())
	s := waitIdle(t, v, 75)

	assert.NotZero(t, s.Meshlets)
	assert.NotZero(t, s.Uploaded)
	assert.Equal(t, mem.MeshletCount(), s.Meshlets)
	// The 5x5x3 region plus a one-chunk border of neighbours.
	assert.Equal(t, 7*7*5, s.SVOs)
	assert.Equal(t, 7*7, s.Heightmaps)

	for _, ml := range mem.Meshlets() {
		chunk := geom.V(int(ml.Chunk[0]), int(ml.Chunk[1]), int(ml.Chunk[2]))
		assert.True(t, geom.Cuboid{Base: geom.V(-2, -2, -1), Size: geom.V(5, 5, 3)}.Contains(chunk), "meshlet of chunk %v", chunk)
		assert.LessOrEqual(t, ml.VertexOffset+ml.VertexCount, mem.VertexCount())
		assert.LessOrEqual(t, ml.TriangleOffset+ml.TriangleCount, mem.TriangleCount())
	}
}

func TestWorkerFollowsCamera(t *testing.T) {
	v, _ := newTestVoxels(t, testConfig())
	waitIdle(t, v, 75)

	// Moving within the chunk does not change anything.
	v.UpdateCamera(mgl32.Vec3{15.9, 0.5, 3})
	assert.Equal(t, geom.Vec3i{}, v.CameraChunk())

	v.UpdateCamera(mgl32.Vec3{5*16 + 1, 0, 0})
	assert.Equal(t, geom.V(5, 0, 0), v.CameraChunk())
	waitIdle(t, v, 150)

	v.UpdateCamera(mgl32.Vec3{-0.5, -16.5, 0})
	assert.Equal(t, geom.V(-1, -2, 0), v.CameraChunk())
}

func TestUpdateConfigStartsOver(t *testing.T) {
	v, mem := newTestVoxels(t, testConfig())
	before := waitIdle(t, v, 75)
	require.NotZero(t, before.Meshlets)

	// Push the surface far below the loaded region: nothing is visible.
	cfg := testConfig()
	cfg.HeightmapBias = -1000
	require.NoError(t, v.UpdateConfig(cfg))

	after := waitIdle(t, v, 75)
	assert.Equal(t, before.Generation+1, after.Generation)
	assert.Zero(t, after.Meshlets)
	assert.Zero(t, mem.MeshletCount())
	assert.Zero(t, mem.VertexCount())
	assert.Zero(t, after.Uploaded)

	got, generation := v.Config()
	assert.Equal(t, cfg, got)
	assert.Equal(t, after.Generation, generation)
}

// gatedNoise parks the first Eval2 call until release is closed, holding the
// worker inside terrain generation with the state lock released.
type gatedNoise struct {
	world.Noise2D
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gatedNoise) Eval2(x, y float32) float32 {
	g.once.Do(func() {
		close(g.entered)
		<-g.release
	})
	return g.Noise2D.Eval2(x, y)
}

func TestUpdateConfigDropsStaleResults(t *testing.T) {
	gate := &gatedNoise{entered: make(chan struct{}), release: make(chan struct{})}
	first := true
	newNoise := func(impl config.NoiseImplementation, seed int64) world.Noise2D {
		n := world.NewNoise(impl, seed)
		if first {
			first = false
			gate.Noise2D = n
			return gate
		}
		return n
	}

	mem := gpumem.New(testConfig().Buffers)
	v, err := newVoxels(testConfig(), mgl32.Vec3{}, mem, slog.New(slog.NewTextHandler(io.Discard, nil)), newNoise)
	require.NoError(t, err)
	t.Cleanup(v.Shutdown)

	select {
	case <-gate.entered:
	case <-time.After(10 * time.Second):
		t.Fatal("worker never started generating")
	}

	// Reconfigure repeatedly while the worker is busy under generation 0,
	// ending with a surface far below the loaded region.
	for i := 0; i < 5; i++ {
		cfg := testConfig()
		cfg.Seed = int64(i + 1)
		require.NoError(t, v.UpdateConfig(cfg))
	}
	cfg := testConfig()
	cfg.HeightmapBias = -1000
	require.NoError(t, v.UpdateConfig(cfg))
	close(gate.release)

	s := waitIdle(t, v, 75)
	assert.Equal(t, uint64(6), s.Generation)
	assert.Equal(t, 1, s.Dropped, "the in-flight chunk of generation 0 is discarded")
	assert.Zero(t, s.Meshlets)
	assert.Zero(t, s.Uploaded)
	assert.Zero(t, mem.MeshletCount())
	assert.Zero(t, mem.TriangleCount())
}

func TestUpdateConfigRejectsInvalid(t *testing.T) {
	v, _ := newTestVoxels(t, testConfig())
	cfg := testConfig()
	cfg.ChunkSize = 12
	err := v.UpdateConfig(cfg)
	assert.ErrorIs(t, err, config.ErrInvalid)
	_, generation := v.Config()
	assert.Zero(t, generation)
}

func TestUpdateConfigChangesChunkSize(t *testing.T) {
	cfg := testConfig()
	v, _ := newTestVoxels(t, cfg)
	waitIdle(t, v, 75)
	v.UpdateCamera(mgl32.Vec3{20, 0, 0})
	require.Equal(t, geom.V(1, 0, 0), v.CameraChunk())

	cfg.ChunkSize = 32
	cfg.RenderDistanceHorizontal = 32
	cfg.RenderDistanceVertical = 32
	require.NoError(t, v.UpdateConfig(cfg))
	assert.Equal(t, geom.V(0, 0, 0), v.CameraChunk())
	waitIdle(t, v, 27)
}

func TestShutdownIsPrompt(t *testing.T) {
	v, _ := newTestVoxels(t, testConfig())
	waitIdle(t, v, 75)

	done := make(chan struct{})
	go func() {
		v.Shutdown()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Shutdown did not return")
	}
	// A second call returns immediately.
	v.Shutdown()
}

func TestShutdownWhileBusy(t *testing.T) {
	cfg := testConfig()
	cfg.RenderDistanceHorizontal = 16 * 16
	v, _ := newTestVoxels(t, cfg)
	done := make(chan struct{})
	go func() {
		v.Shutdown()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Shutdown did not return")
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.MeshingAlgorithm = "marching"
	_, err := New(cfg, mgl32.Vec3{}, gpumem.New(cfg.Buffers), nil)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestChunkOfFloors(t *testing.T) {
	assert.Equal(t, geom.V(0, 0, 0), chunkOf(mgl32.Vec3{0, 15.99, 0}, 16))
	assert.Equal(t, geom.V(-1, -1, 1), chunkOf(mgl32.Vec3{-0.01, -16, 16}, 16))
	assert.Equal(t, geom.V(-2, 0, 0), chunkOf(mgl32.Vec3{-16.01, 0, 0}, 16))
}
