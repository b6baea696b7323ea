package streaming

import (
	"errors"

	"voxstream/internal/config"
	"voxstream/internal/geom"
	"voxstream/internal/gpumem"
	"voxstream/internal/meshing"
	"voxstream/internal/meshlet"
	"voxstream/internal/profiling"
	"voxstream/internal/world"
)

// run is the worker loop. It holds v.mu except while generating terrain,
// meshing and clustering.
func (v *Voxels) run() {
	defer v.wg.Done()
	v.mu.Lock()
	defer v.mu.Unlock()
	for !v.shutdown {
		cfg, generation, noise := v.cfg, v.generation, v.noise

		v.priority.UpdateCamera(v.CameraChunk())
		chunk, ok := v.priority.Select()
		if !ok {
			if !v.idle {
				v.logger.Debug("all chunks in range loaded", "loaded", v.priority.Loaded())
			}
			v.idle = true
			v.wake.Wait()
			continue
		}
		v.idle = false

		n, ok := v.gather(chunk, cfg, generation, noise)
		if !ok {
			continue
		}

		v.mu.Unlock()
		mesh := buildMesh(n, chunk, cfg)
		v.mu.Lock()

		if generation != v.generation {
			v.dropped++
			v.logger.Debug("dropping stale chunk", "chunk", chunk, "generation", generation)
			continue
		}
		v.upload(chunk, mesh)
	}
	v.logger.Debug("voxel worker stopped")
}

func buildMesh(n *world.Neighbourhood, chunk geom.Vec3i, cfg config.Voxels) *meshlet.Mesh {
	stop := profiling.Track("streaming.Mesh")
	local := meshing.Generate(n, cfg.ChunkSize, cfg.MeshingAlgorithm)
	stop()
	defer profiling.Track("streaming.Meshlets")()
	return meshlet.Build(local, chunk)
}

func (v *Voxels) upload(chunk geom.Vec3i, mesh *meshlet.Mesh) {
	defer profiling.Track("streaming.Upload")()
	err := v.memory.Upload(mesh)
	switch {
	case errors.Is(err, gpumem.ErrOutOfMemory):
		v.failed++
		v.logger.Warn("chunk does not fit in gpu memory", "chunk", chunk, "err", err)
	case err != nil:
		v.failed++
		v.logger.Error("chunk upload failed", "chunk", chunk, "err", err)
	default:
		if !mesh.IsEmpty() {
			v.uploaded++
		}
	}
	v.progress.Do(func() {
		v.logger.Info("streaming",
			"loaded", v.priority.Loaded(),
			"pending", v.priority.Pending(),
			"meshlets", v.memory.MeshletCount(),
			"triangles", v.memory.TriangleCount())
	})
}

// gather collects the octrees of chunk and its 26 neighbours, generating
// and caching whatever is missing. The lock is released around each
// generation step; if the configuration changes meanwhile, gather gives up
// and reports false.
func (v *Voxels) gather(chunk geom.Vec3i, cfg config.Voxels, generation uint64, noise world.Noise2D) (*world.Neighbourhood, bool) {
	var svos [27]*world.SparseOctree
	for i, offset := range world.NeighbourOffsets() {
		c := chunk.Add(offset)
		if svo, ok := v.cache.SVO(c); ok {
			svos[i] = svo
			continue
		}
		column := world.ColumnOf(c)
		heightmap, ok := v.cache.Heightmap(column)
		if !ok {
			v.mu.Unlock()
			stop := profiling.Track("streaming.GenerateHeightmap")
			heightmap = world.GenerateHeightmap(column, noise, cfg)
			stop()
			v.mu.Lock()
			if generation != v.generation {
				v.dropped++
				return nil, false
			}
			heightmap = v.cache.StoreHeightmap(column, heightmap)
		}

		v.mu.Unlock()
		stop := profiling.Track("streaming.GenerateSVO")
		svo := world.GenerateChunkSVO(c, heightmap, cfg.ChunkSize)
		stop()
		v.mu.Lock()
		if generation != v.generation {
			v.dropped++
			return nil, false
		}
		svos[i] = v.cache.StoreSVO(c, svo)
	}
	return world.NewNeighbourhood(svos, cfg.ChunkSize), true
}
