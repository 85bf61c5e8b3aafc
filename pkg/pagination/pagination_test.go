package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, DefaultLimit, NormalizeLimit(-3))
	assert.Equal(t, 10, NormalizeLimit(10))
	assert.Equal(t, MaxLimit, NormalizeLimit(MaxLimit+50))
	assert.Equal(t, 11, LimitWithBuffer(10))
}

func TestCursorRoundTrip(t *testing.T) {
	want := Cursor{
		CreatedAt: time.Date(2026, 3, 1, 9, 30, 0, 123000000, time.FixedZone("x", 3600)),
		ID:        uuid.New(),
	}

	got, err := ParseCursor(EncodeCursor(want))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, time.UTC, got.CreatedAt.Location())
	assert.Equal(t, want.ID, got.ID)
}

func TestParseCursorRejectsGarbage(t *testing.T) {
	got, err := ParseCursor("  ")
	require.NoError(t, err)
	assert.Nil(t, got)

	for _, value := range []string{"%%%", "bm9waXBl", "MjAyNi0wMy0wMXxub3QtYS11dWlk"} {
		_, err := ParseCursor(value)
		assert.Error(t, err, value)
	}
}

func TestTrim(t *testing.T) {
	type row struct {
		at time.Time
		id uuid.UUID
	}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []row{
		{base.Add(3 * time.Hour), uuid.New()},
		{base.Add(2 * time.Hour), uuid.New()},
		{base.Add(time.Hour), uuid.New()},
	}
	key := func(r row) Cursor { return Cursor{CreatedAt: r.at, ID: r.id} }

	page := Trim(rows, 2, key)
	require.Len(t, page.Items, 2)
	require.NotEmpty(t, page.NextCursor)
	next, err := ParseCursor(page.NextCursor)
	require.NoError(t, err)
	assert.Equal(t, rows[1].id, next.ID)

	last := Trim(rows[2:], 2, key)
	assert.Len(t, last.Items, 1)
	assert.Empty(t, last.NextCursor)

	empty := Trim[row](nil, 2, key)
	assert.NotNil(t, empty.Items)
}

func TestMapKeepsCursor(t *testing.T) {
	page := Page[int]{Items: []int{1, 2}, NextCursor: "abc"}
	out := Map(page, func(v int) string { return string(rune('a' + v)) })
	assert.Equal(t, []string{"b", "c"}, out.Items)
	assert.Equal(t, "abc", out.NextCursor)
}
