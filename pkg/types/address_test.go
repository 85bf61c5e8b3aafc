package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressScanAcceptsBytesAndNull(t *testing.T) {
	var a Address
	require.NoError(t, a.Scan([]byte(`{"street":"1 Main St","city":"Austin","zipCode":"73301"}`)))
	assert.Equal(t, "1 Main St", a.Street)
	assert.Equal(t, "73301", a.ZipCode)
	assert.False(t, a.IsZero())

	require.NoError(t, a.Scan(nil))
	assert.True(t, a.IsZero())
}

func TestAddressValueIsText(t *testing.T) {
	v, err := Address{City: "Reno", Country: "US"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `{"city":"Reno","country":"US"}`, v)
}

func TestAddressScanRejectsUnknownType(t *testing.T) {
	var a Address
	require.Error(t, a.Scan(42))
}
