package world

import "voxstream/internal/geom"

// Cache keeps every heightmap and octree generated so far. Entries are
// immutable once stored. A Cache is not safe for concurrent use; its owner
// serialises access.
type Cache struct {
	heightmaps map[ColumnCoord]*Heightmap
	svos       map[geom.Vec3i]*SparseOctree
	modCount   uint64 // Increases on any store or clear
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{
		heightmaps: make(map[ColumnCoord]*Heightmap),
		svos:       make(map[geom.Vec3i]*SparseOctree),
	}
}

// Heightmap returns the cached heightmap of column, if any.
func (c *Cache) Heightmap(column ColumnCoord) (*Heightmap, bool) {
	h, ok := c.heightmaps[column]
	return h, ok
}

// StoreHeightmap records h for column and returns the entry now cached.
// An existing entry is kept.
func (c *Cache) StoreHeightmap(column ColumnCoord, h *Heightmap) *Heightmap {
	if existing, ok := c.heightmaps[column]; ok {
		return existing
	}
	c.heightmaps[column] = h
	c.modCount++
	return h
}

// SVO returns the cached octree of chunk, if any.
func (c *Cache) SVO(chunk geom.Vec3i) (*SparseOctree, bool) {
	s, ok := c.svos[chunk]
	return s, ok
}

// StoreSVO records s for chunk and returns the entry now cached.
func (c *Cache) StoreSVO(chunk geom.Vec3i, s *SparseOctree) *SparseOctree {
	if existing, ok := c.svos[chunk]; ok {
		return existing
	}
	c.svos[chunk] = s
	c.modCount++
	return s
}

// Len returns the number of cached heightmaps and octrees.
func (c *Cache) Len() (heightmaps, svos int) {
	return len(c.heightmaps), len(c.svos)
}

// ModCount returns a counter that changes whenever the cache does.
func (c *Cache) ModCount() uint64 {
	return c.modCount
}

// Clear drops every entry.
func (c *Cache) Clear() {
	clear(c.heightmaps)
	clear(c.svos)
	c.modCount++
}
