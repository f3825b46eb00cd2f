package redis

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseProduct(t *testing.T) {
	p, err := parseProduct("P1", map[string]string{fieldName: "Widget", fieldPrice: "1050", fieldQuantity: "7"})
	require.NoError(t, err)
	require.Equal(t, "P1", p.ID)
	require.Equal(t, "Widget", p.Name)
	require.Equal(t, int64(1050), p.PriceCents)
	require.Equal(t, 7, p.Quantity)
}

func TestParseProduct_BadFields(t *testing.T) {
	_, err := parseProduct("P1", map[string]string{fieldPrice: "x", fieldQuantity: "1"})
	require.Error(t, err)

	_, err = parseProduct("P1", map[string]string{fieldPrice: "1"})
	require.Error(t, err)
}

func TestProductKey(t *testing.T) {
	require.Equal(t, "product:abc", productKey("abc"))
}
