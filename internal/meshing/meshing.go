// Package meshing turns chunk octrees into quad meshes in chunk-local
// coordinates.
package meshing

import (
	"fmt"

	"voxstream/internal/config"
	"voxstream/internal/world"
)

// Generate meshes the centre chunk of n with the selected algorithm and
// merges duplicate vertices. Chunks that are entirely air, or entirely solid
// and enclosed by entirely solid face neighbours, produce an empty mesh
// without running the mesher.
func Generate(n *world.Neighbourhood, chunkSize int, alg config.MeshingAlgorithm) *LocalMesh {
	if chunkSize > config.MaxChunkSize {
		panic(fmt.Sprintf("meshing: chunk size %d exceeds %d", chunkSize, config.MaxChunkSize))
	}
	if isDegenerate(n) {
		return &LocalMesh{}
	}
	var mesh *LocalMesh
	switch alg {
	case config.MeshingCulled:
		mesh = Culled(n, chunkSize)
	case config.MeshingGreedy:
		mesh = Greedy(n, chunkSize)
	default:
		panic(fmt.Sprintf("meshing: unknown algorithm %q", alg))
	}
	return mesh.RemoveDuplicateVertices()
}

func isDegenerate(n *world.Neighbourhood) bool {
	chunk := n.Chunk()
	if chunk.IsUniformAir() {
		return true
	}
	if !chunk.IsUniformSolid() {
		return false
	}
	for _, neighbour := range n.ManhattanNeighbours() {
		if !neighbour.IsUniformSolid() {
			return false
		}
	}
	return true
}
