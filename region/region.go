// Package region reads Minecraft Anvil region files (.mca): the sector-based
// container that multiplexes up to 1024 chunks behind a fixed 8 KiB header of
// location and timestamp tables.
package region

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/minio/highwayhash"
	"github.com/willf/bitset"
)

const (
	sectorSize   = 4096
	headerBytes  = 2 * sectorSize
	chunksPerDim = 32
	maxChunks    = chunksPerDim * chunksPerDim
)

// ErrMalformed reports a region source shorter than the header, or a location
// table entry that points past the end of the file.
var ErrMalformed = errors.New("region: malformed input")

// CompressionScheme identifies how a chunk's NBT payload is compressed on
// disk. The region reader never decompresses; it reports the scheme id
// verbatim for the caller to act on.
type CompressionScheme byte

const (
	CompressionGzip         CompressionScheme = 1
	CompressionZlib         CompressionScheme = 2
	CompressionUncompressed CompressionScheme = 3
	CompressionLZ4          CompressionScheme = 4
)

func (s CompressionScheme) String() string {
	switch s {
	case CompressionGzip:
		return "gzip"
	case CompressionZlib:
		return "zlib"
	case CompressionUncompressed:
		return "uncompressed"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", byte(s))
	}
}

// ChunkCoord is a region-relative chunk coordinate, each component in [0,32).
type ChunkCoord struct {
	X int
	Z int
}

// OverlongChunkError reports a chunk whose declared length claims more bytes
// than its location-table sector span actually holds.
type OverlongChunkError struct {
	CX, CZ   int
	Declared int32
	Max      int32
}

func (e *OverlongChunkError) Error() string {
	return fmt.Sprintf("region: chunk (%d,%d) declares length %d, exceeds max %d for its sector span", e.CX, e.CZ, e.Declared, e.Max)
}

// OverlappingSectorsError reports two location-table entries claiming the
// same sector, or an entry claiming a sector inside the 8 KiB header. B is
// the zero ChunkCoord when the offending claim is the header itself rather
// than another chunk.
type OverlappingSectorsError struct {
	Sector uint32
	A, B   ChunkCoord
}

func (e *OverlappingSectorsError) Error() string {
	return fmt.Sprintf("region: sector %d claimed by both chunk (%d,%d) and (%d,%d)", e.Sector, e.A.X, e.A.Z, e.B.X, e.B.Z)
}

// fingerprintKey is a fixed, arbitrary 32-byte key: fingerprints are only
// ever compared to fingerprints produced by this same package, never shared
// across processes, so the key need not be secret, only stable.
var fingerprintKey = []byte{
	0x9c, 0x1e, 0x4a, 0x6f, 0x2b, 0xd8, 0x77, 0x03,
	0x5e, 0xa1, 0x44, 0x90, 0xcf, 0x12, 0x8b, 0x66,
	0x3d, 0xf7, 0x21, 0x88, 0x0a, 0x5c, 0x99, 0xbe,
	0x4f, 0x1d, 0x62, 0xa8, 0xe3, 0x07, 0x3a, 0xd4,
}

// Region is a decoded region file header plus a handle to the backing bytes.
// Open reads and validates the 8 KiB location/timestamp header eagerly; every
// subsequent query is served from memory, with one ReadAt per ReadChunk call
// against source for the chunk payload itself.
type Region struct {
	source     io.ReaderAt
	size       int64
	locations  [maxChunks]uint32
	timestamps [maxChunks]uint32
	closer     io.Closer

	RegionX, RegionZ int
}

func chunkIndex(cx, cz int) int {
	return (cx & (chunksPerDim - 1)) + (cz&(chunksPerDim-1))*chunksPerDim
}

func coordFromIndex(i int) ChunkCoord {
	return ChunkCoord{X: i % chunksPerDim, Z: i / chunksPerDim}
}

// Open parses source as a region file of the given total size. A zero-length
// source is accepted and reports no chunks present, matching how Minecraft
// itself treats a freshly created, not-yet-written region file.
func Open(source io.ReaderAt, size int64) (*Region, error) {
	if size == 0 {
		return &Region{source: source}, nil
	}
	if size < headerBytes {
		return nil, ErrMalformed
	}

	header := make([]byte, headerBytes)
	if _, err := io.ReadFull(io.NewSectionReader(source, 0, headerBytes), header); err != nil {
		return nil, fmt.Errorf("region: reading header: %w", err)
	}

	r := &Region{source: source, size: size}
	for i := 0; i < maxChunks; i++ {
		r.locations[i] = binary.BigEndian.Uint32(header[i*4:])
	}
	for i := 0; i < maxChunks; i++ {
		r.timestamps[i] = binary.BigEndian.Uint32(header[sectorSize+i*4:])
	}

	totalSectors := uint32(size / sectorSize)
	claimed := bitset.New(uint(totalSectors))
	owner := make([]int, totalSectors)
	for i := range owner {
		owner[i] = -1
	}

	for i := 0; i < maxChunks; i++ {
		loc := r.locations[i]
		if loc == 0 {
			continue
		}
		offset := loc >> 8
		count := loc & 0xff
		if offset < 2 {
			return nil, &OverlappingSectorsError{Sector: offset, A: coordFromIndex(i)}
		}
		if uint32(offset+count) > totalSectors {
			return nil, ErrMalformed
		}
		for s := offset; s < offset+count; s++ {
			if claimed.Test(uint(s)) {
				return nil, &OverlappingSectorsError{Sector: s, A: coordFromIndex(owner[s]), B: coordFromIndex(i)}
			}
			claimed.Set(uint(s))
			owner[s] = i
		}
	}

	return r, nil
}

// OpenFile opens path as an os.File and parses it as a region file, also
// parsing RegionX/RegionZ from the conventional "r.<x>.<z>.mca" filename
// following the naming rules real Anvil worlds use for their region
// directory. The returned Region must be closed with Close.
func OpenFile(path string) (*Region, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	r, err := Open(f, info.Size())
	if err != nil {
		f.Close()
		return nil, err
	}
	r.closer = f
	r.RegionX, r.RegionZ, _ = parseRegionFilename(path)
	return r, nil
}

func parseRegionFilename(path string) (x, z int, err error) {
	parts := strings.Split(filepath.Base(path), ".")
	if len(parts) != 4 || parts[0] != "r" || parts[3] != "mca" {
		return 0, 0, fmt.Errorf("region: %q is not a region filename of the form r.<x>.<z>.mca", path)
	}
	x, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, err
	}
	z, err = strconv.Atoi(parts[2])
	return x, z, err
}

// Close releases the underlying file if the Region was opened with OpenFile.
// It is a no-op for a Region built directly from Open.
func (r *Region) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

// Locate returns the location-table entry for (cx, cz). ok is false when no
// chunk has been written at that coordinate.
func (r *Region) Locate(cx, cz int) (offset, count uint32, ok bool) {
	loc := r.locations[chunkIndex(cx, cz)]
	if loc == 0 {
		return 0, 0, false
	}
	return loc >> 8, loc & 0xff, true
}

// Timestamp returns the last-modified Unix timestamp recorded for (cx, cz) in
// the timestamp table, as stored; it is not checked against the location
// table, so an absent chunk reports whatever its table entry holds.
func (r *Region) Timestamp(cx, cz int) uint32 {
	return r.timestamps[chunkIndex(cx, cz)]
}

// ReadChunk reads the raw, still-compressed payload for (cx, cz). ok is false
// with a nil error when the chunk is simply absent; a present chunk whose
// declared length does not fit its sector span fails with
// *OverlongChunkError.
func (r *Region) ReadChunk(cx, cz int) (scheme CompressionScheme, data []byte, ok bool, err error) {
	offset, count, present := r.Locate(cx, cz)
	if !present {
		return 0, nil, false, nil
	}

	span := int64(count) * sectorSize
	buf := make([]byte, span)
	if _, err := io.ReadFull(io.NewSectionReader(r.source, int64(offset)*sectorSize, span), buf); err != nil {
		return 0, nil, false, fmt.Errorf("region: reading chunk (%d,%d): %w", cx, cz, err)
	}
	if len(buf) < 5 {
		return 0, nil, false, ErrMalformed
	}

	length := binary.BigEndian.Uint32(buf[0:4])
	maxLen := int32(span - 4)
	if length < 1 || int64(length) > int64(maxLen) {
		return 0, nil, false, &OverlongChunkError{CX: cx, CZ: cz, Declared: int32(length), Max: maxLen}
	}

	scheme = CompressionScheme(buf[4])
	payload := buf[5 : 4+length]
	return scheme, payload, true, nil
}

// ChunkFingerprint returns a stable 128-bit fingerprint of a chunk's raw
// compressed bytes, letting a caller cheaply detect that a chunk is
// unchanged across two snapshots of the same world without decompressing or
// parsing it. ok mirrors ReadChunk's presence flag.
func (r *Region) ChunkFingerprint(cx, cz int) (sum [16]byte, ok bool, err error) {
	_, data, ok, err := r.ReadChunk(cx, cz)
	if err != nil || !ok {
		return [16]byte{}, ok, err
	}
	return highwayhash.Sum128(data, fingerprintKey), true, nil
}

// Chunks returns every present chunk coordinate in location-table order, for
// call sites that predate range-over-func. Prefer All.
func (r *Region) Chunks() []ChunkCoord {
	out := make([]ChunkCoord, 0, maxChunks)
	for i := 0; i < maxChunks; i++ {
		if r.locations[i] != 0 {
			out = append(out, coordFromIndex(i))
		}
	}
	return out
}

// All iterates every present chunk coordinate in location-table order. A
// range loop that breaks stops iteration immediately with no further reads.
func (r *Region) All() iter.Seq2[ChunkCoord, struct{}] {
	return func(yield func(ChunkCoord, struct{}) bool) {
		for i := 0; i < maxChunks; i++ {
			if r.locations[i] == 0 {
				continue
			}
			if !yield(coordFromIndex(i), struct{}{}) {
				return
			}
		}
	}
}
