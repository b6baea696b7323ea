// Package streaming loads, meshes and uploads chunks around a moving camera
// on a single background goroutine.
package streaming

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/time/rate"

	"voxstream/internal/config"
	"voxstream/internal/geom"
	"voxstream/internal/gpumem"
	"voxstream/internal/world"
)

// Stats is a point-in-time view of the streaming state.
type Stats struct {
	Generation uint64
	Camera     geom.Vec3i
	Loaded     int
	Pending    int
	Heightmaps int
	SVOs       int
	Uploaded   int
	Dropped    int
	Failed     int
	Meshlets   uint32
	Vertices   uint32
	Triangles  uint32
	Idle       bool
}

// Voxels owns the worker goroutine. The caller moves the camera, swaps the
// configuration and reads the published counters of the GPU memory; the
// worker is the only goroutine that touches caches, the selector and the
// buffers' write side.
type Voxels struct {
	logger *slog.Logger
	memory *gpumem.Memory

	camera struct {
		sync.Mutex
		position  mgl32.Vec3
		chunk     geom.Vec3i
		chunkSize int
	}

	mu         sync.Mutex
	wake       *sync.Cond
	cfg        config.Voxels
	generation uint64
	noise      world.Noise2D
	newNoise   func(config.NoiseImplementation, int64) world.Noise2D
	priority   *ChunkPriority
	cache      *world.Cache
	shutdown   bool
	idle       bool
	uploaded   int
	dropped    int
	failed     int

	progress rate.Sometimes
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New validates cfg and starts the worker with the camera at position.
func New(cfg config.Voxels, position mgl32.Vec3, memory *gpumem.Memory, logger *slog.Logger) (*Voxels, error) {
	return newVoxels(cfg, position, memory, logger, world.NewNoise)
}

func newVoxels(cfg config.Voxels, position mgl32.Vec3, memory *gpumem.Memory, logger *slog.Logger, newNoise func(config.NoiseImplementation, int64) world.Noise2D) (*Voxels, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("streaming: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	v := &Voxels{
		logger:   logger,
		memory:   memory,
		cfg:      cfg,
		noise:    newNoise(cfg.NoiseImplementation, cfg.Seed),
		newNoise: newNoise,
		cache:    world.NewCache(),
		progress: rate.Sometimes{Interval: 2 * time.Second},
	}
	v.wake = sync.NewCond(&v.mu)
	v.camera.chunkSize = cfg.ChunkSize
	v.camera.position = position
	v.camera.chunk = chunkOf(position, cfg.ChunkSize)
	horizontal, vertical := cfg.RenderDistanceChunks()
	v.priority = NewChunkPriority(v.camera.chunk, horizontal, vertical)

	v.wg.Add(1)
	go v.run()
	return v, nil
}

// UpdateCamera records the camera position. The worker is woken only when
// the camera enters a different chunk.
func (v *Voxels) UpdateCamera(position mgl32.Vec3) {
	v.camera.Lock()
	chunk := chunkOf(position, v.camera.chunkSize)
	v.camera.position = position
	changed := chunk != v.camera.chunk
	v.camera.chunk = chunk
	v.camera.Unlock()
	if changed {
		v.mu.Lock()
		v.idle = false
		v.wake.Broadcast()
		v.mu.Unlock()
	}
}

// CameraChunk returns the chunk the camera is in.
func (v *Voxels) CameraChunk() geom.Vec3i {
	v.camera.Lock()
	defer v.camera.Unlock()
	return v.camera.chunk
}

// UpdateConfig installs cfg and starts over: the selector, caches and GPU
// memory are cleared and results computed under the previous configuration
// are discarded.
func (v *Voxels) UpdateConfig(cfg config.Voxels) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("streaming: %w", err)
	}
	v.camera.Lock()
	v.camera.chunkSize = cfg.ChunkSize
	v.camera.chunk = chunkOf(v.camera.position, cfg.ChunkSize)
	camera := v.camera.chunk
	v.camera.Unlock()

	v.mu.Lock()
	defer v.mu.Unlock()
	v.cfg = cfg
	v.generation++
	v.noise = v.newNoise(cfg.NoiseImplementation, cfg.Seed)
	horizontal, vertical := cfg.RenderDistanceChunks()
	v.priority.Clear(camera, horizontal, vertical)
	v.cache.Clear()
	v.memory.Clear()
	v.uploaded, v.dropped, v.failed = 0, 0, 0
	v.idle = false
	v.logger.Info("voxel config updated",
		"generation", v.generation,
		"chunk_size", cfg.ChunkSize,
		"meshing", cfg.MeshingAlgorithm,
		"render_distance", [2]int{horizontal, vertical})
	v.wake.Broadcast()
	return nil
}

// Config returns the configuration in use and its generation.
func (v *Voxels) Config() (config.Voxels, uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cfg, v.generation
}

// Shutdown stops the worker and waits for it to exit. It is safe to call
// more than once.
func (v *Voxels) Shutdown() {
	v.stopOnce.Do(func() {
		v.mu.Lock()
		v.shutdown = true
		v.wake.Broadcast()
		v.mu.Unlock()
	})
	v.wg.Wait()
}

// Stats returns a snapshot of the worker state.
func (v *Voxels) Stats() Stats {
	camera := v.CameraChunk()
	v.mu.Lock()
	defer v.mu.Unlock()
	heightmaps, svos := v.cache.Len()
	return Stats{
		Generation: v.generation,
		Camera:     camera,
		Loaded:     v.priority.Loaded(),
		Pending:    v.priority.Pending(),
		Heightmaps: heightmaps,
		SVOs:       svos,
		Uploaded:   v.uploaded,
		Dropped:    v.dropped,
		Failed:     v.failed,
		Meshlets:   v.memory.MeshletCount(),
		Vertices:   v.memory.VertexCount(),
		Triangles:  v.memory.TriangleCount(),
		Idle:       v.idle,
	}
}

func chunkOf(position mgl32.Vec3, chunkSize int) geom.Vec3i {
	size := float32(chunkSize)
	return geom.V(
		int(math32.Floor(position.X()/size)),
		int(math32.Floor(position.Y()/size)),
		int(math32.Floor(position.Z()/size)),
	)
}
