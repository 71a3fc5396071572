package chunked_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wiggzz/PPPAS/internal/chunked"
)

func TestFileSourceDeterministicReads(t *testing.T) {
	data, err := chunked.GenerateDemoFile([]byte("seed"), "test", 10000)
	require.NoError(t, err)

	src, err := chunked.NewFileSource(data, chunked.MinChunkSize)
	require.NoError(t, err)

	a, err := src.ChunkMpz(0)
	require.NoError(t, err)
	b, err := src.ChunkMpz(0)
	require.NoError(t, err)
	require.Equal(t, 0, a.Cmp(b), "repeated reads of the same index must be identical")
}

func TestFileSourceZeroPadsFinalChunk(t *testing.T) {
	data, err := chunked.GenerateDemoFile([]byte("seed"), "test", chunked.MinChunkSize+17)
	require.NoError(t, err)

	src, err := chunked.NewFileSource(data, chunked.MinChunkSize)
	require.NoError(t, err)
	require.Equal(t, 2, src.ChunkCount())

	last, err := src.ChunkMpz(1)
	require.NoError(t, err)
	// The final chunk holds 17 real bytes followed by zero padding up to
	// MinChunkSize; read big-endian, its low (MinChunkSize-17)*8 bits are zero.
	require.GreaterOrEqual(t, last.TrailingZeroBits(), uint((chunked.MinChunkSize-17)*8))
}

func TestFileSourceRejectsEmptyData(t *testing.T) {
	_, err := chunked.NewFileSource(nil, chunked.MinChunkSize)
	require.Error(t, err)
}

func TestFileSourceClampsChunkSize(t *testing.T) {
	data, err := chunked.GenerateDemoFile([]byte("seed"), "test", 128)
	require.NoError(t, err)

	src, err := chunked.NewFileSource(data, 1)
	require.NoError(t, err)
	require.Equal(t, chunked.MinChunkSize, src.Manifest().ChunkSize)

	src2, err := chunked.NewFileSource(data, chunked.MaxChunkSize*2)
	require.NoError(t, err)
	require.Equal(t, chunked.MaxChunkSize, src2.Manifest().ChunkSize)
}
