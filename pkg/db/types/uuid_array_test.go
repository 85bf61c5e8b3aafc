package dbtypes

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDArrayLiteral(t *testing.T) {
	a := uuid.MustParse("4f0c2b1e-8d7e-4b59-9a55-7f3c1f0e6a01")
	b := uuid.MustParse("0b7d9c1a-2e3f-4a5b-8c6d-7e8f9a0b1c2d")

	v, err := UUIDArray{a, b}.Value()
	require.NoError(t, err)
	assert.Equal(t, "{"+a.String()+","+b.String()+"}", v)

	empty, err := UUIDArray(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", empty)

	var parsed UUIDArray
	require.NoError(t, parsed.Scan([]byte(`{"`+a.String()+`", `+b.String()+`}`)))
	assert.Equal(t, UUIDArray{a, b}, parsed)
	assert.True(t, parsed.Contains(b))
}

func TestUUIDArrayScanEmptyAndInvalid(t *testing.T) {
	var parsed UUIDArray
	require.NoError(t, parsed.Scan("{}"))
	assert.Empty(t, parsed)

	require.NoError(t, parsed.Scan(nil))
	assert.Empty(t, parsed)

	require.Error(t, parsed.Scan("{not-a-uuid}"))
	require.Error(t, parsed.Scan(12))
}

func TestUUIDArrayDedupe(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	assert.Equal(t, UUIDArray{a, b}, UUIDArray{a, b, a}.Dedupe())
}
