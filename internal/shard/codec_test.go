package shard

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIndexRoundTrip(t *testing.T) {
	idx := Index{
		"alpha": Postings{{DocID: 1, Count: 2}, {DocID: 3, Count: 1}},
		"beta":  Postings{{DocID: 2, Count: 4}},
	}

	b, err := EncodeIndex(idx)
	require.NoError(t, err)

	got, err := DecodeIndex(b)
	require.NoError(t, err)
	require.Equal(t, idx, got)
}

func TestIndexRoundTripEmpty(t *testing.T) {
	b, err := EncodeIndex(Index{})
	require.NoError(t, err)

	got, err := DecodeIndex(b)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestURLMapRoundTrip(t *testing.T) {
	m := URLMap{1: "http://a.example", 2: "http://b.example"}

	b, err := EncodeURLMap(m)
	require.NoError(t, err)

	got, err := DecodeURLMap(b)
	require.NoError(t, err)
	require.Equal(t, m, got)
}

func TestDecodeIndexRejectsTruncated(t *testing.T) {
	_, err := DecodeIndex([]byte{1, 0xFF})
	require.Error(t, err)
}
