// Command voxstream runs the chunk streaming worker headlessly along a
// scripted camera path and reports what it generated.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"voxstream/internal/config"
	"voxstream/internal/gpumem"
	"voxstream/internal/logx"
	"voxstream/internal/profiling"
	"voxstream/internal/streaming"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a voxel config yaml (defaults when empty)")
		watch      = flag.Bool("watch", false, "reload the config file when it changes")
		seed       = flag.Int64("seed", 0, "override the world seed (0 keeps the config value)")
		meshing    = flag.String("meshing", "", "override the meshing algorithm: culled or greedy")
		renderH    = flag.Int("render-h", 0, "override the horizontal render distance in voxels (0 keeps the config value)")
		renderV    = flag.Int("render-v", 0, "override the vertical render distance in voxels (0 keeps the config value)")
		pathKind   = flag.String("path", "line", "camera path: line, orbit or still")
		speed      = flag.Float64("speed", 4, "camera speed in voxels per tick")
		tick       = flag.Duration("tick", 50*time.Millisecond, "camera update interval")
		steps      = flag.Int("steps", 200, "number of camera updates before draining and exiting")
		dumpPath   = flag.String("dump", "", "write the uploaded gpu buffers to this zstd file on exit")
		inspect    = flag.String("inspect", "", "print the record counts of a dump file and exit")
		verbose    = flag.Bool("v", false, "log progress")
		debug      = flag.Bool("vv", false, "log everything")
		quiet      = flag.Bool("q", false, "log errors only")
	)
	flag.Parse()

	logger := logx.SetDefault(os.Stderr, logx.LevelFromFlags(*debug, *verbose, *quiet))

	if *inspect != "" {
		s, err := readDump(*inspect)
		if err != nil {
			logger.Error("reading dump", "err", err)
			os.Exit(1)
		}
		fmt.Printf("meshlets=%d vertices=%d triangles=%d\n", len(s.Meshlets), len(s.Vertices), len(s.Triangles))
		return
	}

	o := overrides{
		seed:    *seed,
		meshing: *meshing,
		renderH: *renderH,
		renderV: *renderV,
	}
	cfg, err := loadConfig(*configPath, o)
	if err != nil {
		logger.Error("loading config", "err", err)
		os.Exit(2)
	}
	path, err := newCameraPath(*pathKind, float32(*speed))
	if err != nil {
		logger.Error("bad camera path", "err", err)
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, logger, cfg, o, path, *configPath, *watch, *tick, *steps, *dumpPath); err != nil {
		logger.Error("voxstream failed", "err", err)
		os.Exit(1)
	}
}

// overrides are command line values applied on top of the config file,
// at startup and again after every reload. Zero values leave the file's
// setting alone.
type overrides struct {
	seed    int64
	meshing string
	renderH int
	renderV int
}

func (o overrides) apply(cfg config.Voxels) config.Voxels {
	if o.seed != 0 {
		cfg.Seed = o.seed
	}
	settings := config.NewSettings(cfg)
	if o.meshing != "" {
		settings.SetMeshingAlgorithm(config.MeshingAlgorithm(o.meshing))
	}
	if o.renderH != 0 || o.renderV != 0 {
		h, v := cfg.RenderDistanceHorizontal, cfg.RenderDistanceVertical
		if o.renderH != 0 {
			h = o.renderH
		}
		if o.renderV != 0 {
			v = o.renderV
		}
		settings.SetRenderDistance(h, v)
	}
	cfg, _ = settings.Get()
	return cfg
}

func loadConfig(path string, o overrides) (config.Voxels, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Voxels{}, err
		}
		cfg = loaded
	}
	cfg = o.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return config.Voxels{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, logger *slog.Logger, cfg config.Voxels, o overrides, path cameraPath, configPath string, watch bool, tick time.Duration, steps int, dumpPath string) error {
	settings := config.NewSettings(cfg)
	memory := gpumem.New(cfg.Buffers)
	voxels, err := streaming.New(cfg, path.At(0), memory, logger)
	if err != nil {
		return err
	}
	defer voxels.Shutdown()

	if watch && configPath != "" {
		go func() {
			err := config.Watch(ctx, configPath, func(v config.Voxels) {
				applyConfig(logger, settings, voxels, memory, o, v)
			}, func(err error) {
				logger.Warn("config reload failed", "err", err)
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("config watcher stopped", "err", err)
			}
		}()
	}

	d := &driver{
		voxels: voxels,
		path:   path,
		tick:   tick,
		steps:  steps,
		logger: logger,
	}
	start := time.Now()
	if err := d.run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	voxels.Shutdown()

	stats := voxels.Stats()
	logger.Info("done",
		"elapsed", time.Since(start).Round(time.Millisecond),
		"loaded", stats.Loaded,
		"meshlets", stats.Meshlets,
		"vertices", stats.Vertices,
		"triangles", stats.Triangles,
		"failed", stats.Failed,
		"stages", profiling.TopN(5))
	fmt.Printf("chunks=%d meshlets=%d vertices=%d triangles=%d\n",
		stats.Loaded, stats.Meshlets, stats.Vertices, stats.Triangles)

	if dumpPath != "" {
		n, err := writeDump(dumpPath, memory)
		if err != nil {
			return err
		}
		logger.Info("wrote dump", "path", dumpPath, "bytes", n)
	}
	return nil
}

// applyConfig installs a reloaded configuration with the command line
// overrides reapplied. Buffer capacities are fixed at startup.
func applyConfig(logger *slog.Logger, settings *config.Settings, voxels *streaming.Voxels, memory *gpumem.Memory, o overrides, v config.Voxels) {
	v = o.apply(v)
	if v.Buffers != memory.Limits() {
		logger.Warn("buffer limits cannot change at runtime", "want", v.Buffers, "have", memory.Limits())
		v.Buffers = memory.Limits()
	}
	before := settings.Generation()
	generation, err := settings.Set(v)
	if err != nil {
		logger.Warn("rejected config", "err", err)
		return
	}
	if generation == before {
		return
	}
	if err := voxels.UpdateConfig(v); err != nil {
		logger.Warn("rejected config", "err", err)
	}
}

// cameraStart is the camera's starting point for every path.
var cameraStart = mgl32.Vec3{0, 0, 16}
