package main

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/astei/anvilcore/region"
)

func TestParseChunkFlag(t *testing.T) {
	cx, cz, err := parseChunkFlag("3, -4")
	require.NoError(t, err)
	require.Equal(t, 3, cx)
	require.Equal(t, -4, cz)

	_, _, err = parseChunkFlag("nope")
	require.Error(t, err)

	_, _, err = parseChunkFlag("x,1")
	require.Error(t, err)
}

func TestDecompressGzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte("hello nbt"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	got, err := decompress(region.CompressionGzip, buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, "hello nbt", string(got))
}

func TestDecompressZlib(t *testing.T) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	_, err := zw.Write([]byte("hello nbt"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	got, err := decompress(region.CompressionZlib, buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, "hello nbt", string(got))
}

func TestDecompressUncompressedPassesThrough(t *testing.T) {
	got, err := decompress(region.CompressionUncompressed, []byte("raw"))
	require.NoError(t, err)
	require.Equal(t, "raw", string(got))
}

func TestDecompressLZ4Declined(t *testing.T) {
	_, err := decompress(region.CompressionLZ4, []byte{0x01, 0x02})
	require.Error(t, err)
}

func TestDecompressUnknownScheme(t *testing.T) {
	_, err := decompress(region.CompressionScheme(200), nil)
	require.Error(t, err)
}
