package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"

	"voxstream/internal/gpumem"
)

// writeDump stores the published buffers zstd-compressed at path and
// returns the uncompressed size.
func writeDump(path string, memory *gpumem.Memory) (int64, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return 0, err
	}
	n, err := memory.WriteTo(enc)
	if err != nil {
		enc.Close()
		return n, err
	}
	if err := enc.Close(); err != nil {
		return n, fmt.Errorf("closing dump: %w", err)
	}
	return n, f.Close()
}

// readDump loads a file written by writeDump.
func readDump(path string) (gpumem.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return gpumem.Snapshot{}, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return gpumem.Snapshot{}, err
	}
	defer dec.Close()
	return gpumem.ReadSnapshot(bufio.NewReaderSize(dec, 256*1024))
}
