package main

import (
	"context"
	"log/slog"
	"time"

	"voxstream/internal/profiling"
	"voxstream/internal/streaming"
)

// driver moves the camera along its path once per tick, then waits for the
// worker to finish what is in range.
type driver struct {
	voxels *streaming.Voxels
	path   cameraPath
	tick   time.Duration
	steps  int
	logger *slog.Logger
}

func (d *driver) run(ctx context.Context) error {
	ticker := time.NewTicker(d.tick)
	defer ticker.Stop()
	lastReport := time.Now()

	for step := 0; ; step++ {
		if step < d.steps {
			func() {
				defer profiling.Track("driver.UpdateCamera")()
				d.voxels.UpdateCamera(d.path.At(step))
			}()
		} else if s := d.voxels.Stats(); s.Idle && s.Pending == 0 {
			return nil
		}

		if time.Since(lastReport) > time.Second {
			d.report(step)
			lastReport = time.Now()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (d *driver) report(step int) {
	s := d.voxels.Stats()
	d.logger.Info("tick",
		"step", step,
		"camera", s.Camera,
		"loaded", s.Loaded,
		"pending", s.Pending,
		"svos", s.SVOs,
		"meshlets", s.Meshlets,
		"generate", profiling.SumWithPrefix("streaming.Generate").Round(time.Millisecond),
		"top", profiling.TopN(3))
}
