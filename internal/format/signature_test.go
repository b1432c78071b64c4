package format_test

import (
	"math/rand"
	"testing"

	"github.com/ostafen/rescue/internal/format"
	"github.com/stretchr/testify/require"
)

func TestNewSignature(t *testing.T) {
	_, err := format.NewSignature([]byte{0x01, 0x02}, []byte{0xFF})
	require.Error(t, err)

	_, err = format.NewSignature(nil, nil)
	require.Error(t, err)

	// 0x0F has bits outside mask 0xF0
	_, err = format.NewSignature([]byte{0x0F}, []byte{0xF0})
	require.Error(t, err)

	sig, err := format.NewSignature([]byte{0xFF, 0x00, 0x40}, []byte{0xFF, 0x00, 0xF0})
	require.NoError(t, err)
	require.Equal(t, 3, sig.Len())
	require.Equal(t, "ff??40/f0", sig.String())
}

func TestSignatureMatchWildcards(t *testing.T) {
	sig := format.MustSignature(
		[]byte{0xFF, 0xD8, 0x00, 0x00, 'J'},
		[]byte{0xFF, 0xFF, 0x00, 0x00, 0xFF},
	)

	require.True(t, sig.Match([]byte{0xFF, 0xD8, 0x12, 0x34, 'J'}))
	require.True(t, sig.Match([]byte{0xFF, 0xD8, 0xFF, 0xD9, 'J', 'X', 'Y'}))
	require.False(t, sig.Match([]byte{0xFF, 0xD8, 0x12, 0x34, 'K'}))
	require.False(t, sig.Match([]byte{0xFE, 0xD8, 0x12, 0x34, 'J'}))
}

func TestSignatureMatchShortWindow(t *testing.T) {
	sig := format.ExactSignature([]byte("%PDF-"))

	buf := []byte("xx%PDF")
	require.False(t, sig.Match(buf[2:]))
	require.False(t, sig.MatchAt(buf, 2))
	require.False(t, sig.MatchAt(buf, len(buf)))
	require.False(t, sig.MatchAt(buf, -1))
	require.False(t, sig.Match(nil))

	// The window is cut at its length even if the backing array is longer.
	full := []byte("%PDF-1.7")
	require.False(t, sig.Match(full[:4]))
	require.True(t, sig.Match(full[:5]))
}

func TestSignatureMatchRandom(t *testing.T) {
	const trials = 2000

	rng := rand.New(rand.NewSource(42))
	for i := range trials {
		n := rng.Intn(12) + 1

		mask := make([]byte, n)
		window := make([]byte, n+rng.Intn(4))
		pattern := make([]byte, n)

		rng.Read(mask)
		rng.Read(window)
		rng.Read(pattern)
		for j := range pattern {
			pattern[j] &= mask[j]
		}
		// Make matches frequent enough to exercise both outcomes.
		if rng.Intn(2) == 0 {
			for j := range pattern {
				pattern[j] = window[j] & mask[j]
			}
		}

		sig := format.MustSignature(pattern, mask)

		expected := true
		for j := range pattern {
			if window[j]&mask[j] != pattern[j] {
				expected = false
				break
			}
		}
		require.Equal(t, expected, sig.Match(window), "trial %d", i)
	}
}
