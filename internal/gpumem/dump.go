package gpumem

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"voxstream/internal/meshlet"
)

var dumpMagic = [4]byte{'V', 'X', 'M', '1'}

// ErrBadDump is returned when a stream is not a complete meshlet dump.
var ErrBadDump = errors.New("gpumem: bad meshlet dump")

// Snapshot is a consistent copy of the published buffers.
type Snapshot struct {
	Meshlets  []meshlet.Meshlet
	Vertices  []meshlet.Vertex
	Triangles []meshlet.Triangle
}

type dumpHeader struct {
	Magic     [4]byte
	Meshlets  uint32
	Vertices  uint32
	Triangles uint32
}

// Snapshot copies the buffers as of the latest completed upload.
func (m *Memory) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{
		Meshlets:  append([]meshlet.Meshlet(nil), m.meshlets...),
		Vertices:  append([]meshlet.Vertex(nil), m.vertices...),
		Triangles: append([]meshlet.Triangle(nil), m.triangles...),
	}
}

// WriteTo writes a snapshot of the buffers in their little-endian GPU
// layout, preceded by a small header with the record counts.
func (m *Memory) WriteTo(w io.Writer) (int64, error) {
	return m.Snapshot().WriteTo(w)
}

// WriteTo implements io.WriterTo.
func (s Snapshot) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: bufio.NewWriter(w)}
	header := dumpHeader{
		Magic:     dumpMagic,
		Meshlets:  uint32(len(s.Meshlets)),
		Vertices:  uint32(len(s.Vertices)),
		Triangles: uint32(len(s.Triangles)),
	}
	for _, data := range []any{header, s.Meshlets, s.Vertices, s.Triangles} {
		if err := binary.Write(cw, binary.LittleEndian, data); err != nil {
			return cw.n, fmt.Errorf("gpumem: write dump: %w", err)
		}
	}
	if err := cw.w.Flush(); err != nil {
		return cw.n, fmt.Errorf("gpumem: write dump: %w", err)
	}
	return cw.n, nil
}

// ReadSnapshot decodes a stream written by WriteTo. A short or malformed
// stream returns an error wrapping ErrBadDump.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	br := bufio.NewReader(r)
	var header dumpHeader
	if err := binary.Read(br, binary.LittleEndian, &header); err != nil {
		return Snapshot{}, fmt.Errorf("%w: header: %v", ErrBadDump, err)
	}
	if header.Magic != dumpMagic {
		return Snapshot{}, ErrBadDump
	}
	var (
		s   Snapshot
		err error
	)
	if s.Meshlets, err = readRecords[meshlet.Meshlet](br, header.Meshlets); err != nil {
		return Snapshot{}, fmt.Errorf("%w: meshlets: %v", ErrBadDump, err)
	}
	if s.Vertices, err = readRecords[meshlet.Vertex](br, header.Vertices); err != nil {
		return Snapshot{}, fmt.Errorf("%w: vertices: %v", ErrBadDump, err)
	}
	if s.Triangles, err = readRecords[meshlet.Triangle](br, header.Triangles); err != nil {
		return Snapshot{}, fmt.Errorf("%w: triangles: %v", ErrBadDump, err)
	}
	return s, nil
}

// readBatch bounds the records allocated ahead of the bytes backing them.
const readBatch = 4096

func readRecords[T any](r io.Reader, count uint32) ([]T, error) {
	out := make([]T, 0, min(count, readBatch))
	batch := make([]T, min(count, readBatch))
	for remaining := count; remaining > 0; {
		n := min(remaining, readBatch)
		if err := binary.Read(r, binary.LittleEndian, batch[:n]); err != nil {
			return nil, err
		}
		out = append(out, batch[:n]...)
		remaining -= n
	}
	return out, nil
}

type countingWriter struct {
	w *bufio.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
