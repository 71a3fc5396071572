// Package chunked provides a concrete, in-memory pdp.ChunkedSource backed by
// a byte slice, the smallest implementation of the chunking contract that
// can still stand in for a real object-storage-backed source.
package chunked

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

const (
	// DefaultChunkSize is used when NewFileSource is given a chunk size of
	// zero or less.
	DefaultChunkSize = 64 * 1024
	// MinChunkSize is the smallest chunk size NewFileSource will accept;
	// smaller requests are clamped up to it.
	MinChunkSize = 4 * 1024
	// MaxChunkSize is the largest chunk size NewFileSource will accept;
	// larger requests are clamped down to it.
	MaxChunkSize = 1024 * 1024
)

// Manifest describes how a file was partitioned into chunks: the chunk
// size, the resulting chunk count, and the original (unpadded) size. The
// final chunk is zero-padded up to ChunkSize when the file length isn't an
// exact multiple of it.
type Manifest struct {
	ChunkSize  int   `json:"chunk_size"`
	ChunkCount int   `json:"chunk_count"`
	TotalSize  int64 `json:"total_size"`
}

// FileSource implements pdp.ChunkedSource over an in-memory byte slice.
// Every chunk read is deterministic and the final chunk is zero-padded, as
// required by the ChunkedSource contract.
type FileSource struct {
	data      []byte
	chunkSize int
	manifest  Manifest
}

// NewFileSource partitions data into fixed-size chunks. chunkSize is
// clamped to [MinChunkSize, MaxChunkSize]; a value <= 0 selects
// DefaultChunkSize.
func NewFileSource(data []byte, chunkSize int) (*FileSource, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("chunked: cannot source an empty file")
	}

	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkSize < MinChunkSize {
		chunkSize = MinChunkSize
	}
	if chunkSize > MaxChunkSize {
		chunkSize = MaxChunkSize
	}

	count := (len(data) + chunkSize - 1) / chunkSize

	return &FileSource{
		data:      data,
		chunkSize: chunkSize,
		manifest: Manifest{
			ChunkSize:  chunkSize,
			ChunkCount: count,
			TotalSize:  int64(len(data)),
		},
	}, nil
}

// Manifest returns the chunking layout of this source.
func (s *FileSource) Manifest() Manifest { return s.manifest }

// ChunkCount implements pdp.ChunkedSource.
func (s *FileSource) ChunkCount() int { return s.manifest.ChunkCount }

func (s *FileSource) chunkBytes(i int) ([]byte, error) {
	if i < 0 || i >= s.manifest.ChunkCount {
		return nil, fmt.Errorf("chunked: index %d out of range [0,%d)", i, s.manifest.ChunkCount)
	}

	start := i * s.chunkSize
	end := start + s.chunkSize
	if end > len(s.data) {
		end = len(s.data)
	}

	chunk := make([]byte, s.chunkSize)
	copy(chunk, s.data[start:end])
	return chunk, nil
}

// ChunkScalar implements pdp.ChunkedSource.
func (s *FileSource) ChunkScalar(i int) (fr.Element, error) {
	b, err := s.chunkBytes(i)
	if err != nil {
		return fr.Element{}, err
	}
	var z fr.Element
	z.SetBytes(b)
	return z, nil
}

// ChunkMpz implements pdp.ChunkedSource.
func (s *FileSource) ChunkMpz(i int) (*big.Int, error) {
	b, err := s.chunkBytes(i)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(b), nil
}
