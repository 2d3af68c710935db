package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMoney(t *testing.T) {
	require.Equal(t, "0 XAF", Money(0, ""))

	// French rendering: comma decimal separator, at most two fraction digits.
	require.Equal(t, "10,5 EUR", Money(10.5, "EUR"))
	require.Equal(t, "10,25 EUR", Money(10.251, "EUR"))

	// Thousands are grouped; the exact separator rune is locale data.
	grouped := Money(45500, "XAF")
	require.True(t, strings.HasSuffix(grouped, "500 XAF"), grouped)
	require.NotContains(t, grouped, "45500")

	negative := Money(-4500, "XAF")
	require.True(t, strings.HasPrefix(negative, "-4"), negative)
}
