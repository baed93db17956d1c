package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "bankname", NormalizeName("  Bank \n name\t"))
	require.Equal(t, "marketcap(us$billion)", NormalizeName("Market cap\n(US$ billion)"))
}

func TestBestMatch(t *testing.T) {
	headers := []string{"Rank", "Bank name", "Market cap\n(US$ billion)"}

	idx, score := BestMatch("Bank name", headers)
	require.Equal(t, 1, idx)
	require.Equal(t, 1.0, score)

	idx, score = BestMatch("market cap", headers)
	require.Equal(t, 2, idx)
	require.Equal(t, 1.0, score)

	idx, score = BestMatch("Rnak", headers)
	require.Equal(t, 0, idx)
	require.Greater(t, score, 0.85)

	idx, _ = BestMatch("", headers)
	require.Equal(t, -1, idx)

	idx, _ = BestMatch("anything", nil)
	require.Equal(t, -1, idx)
}
