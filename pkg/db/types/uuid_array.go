package dbtypes

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// UUIDArray maps a Postgres uuid[] column. Other drivers see the same array
// literal as text.
type UUIDArray []uuid.UUID

func (a UUIDArray) Value() (driver.Value, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, id := range a {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(id.String())
	}
	b.WriteByte('}')
	return b.String(), nil
}

func (a *UUIDArray) Scan(src any) error {
	var literal string
	switch v := src.(type) {
	case nil:
		*a = UUIDArray{}
		return nil
	case string:
		literal = v
	case []byte:
		literal = string(v)
	default:
		return fmt.Errorf("uuid array: unsupported scan type %T", src)
	}

	body := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(literal), "{"), "}")
	elems := strings.FieldsFunc(body, func(r rune) bool { return r == ',' })

	out := make(UUIDArray, 0, len(elems))
	for _, raw := range elems {
		raw = strings.Trim(strings.TrimSpace(raw), `"`)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("uuid array: element %q: %w", raw, err)
		}
		out = append(out, id)
	}
	*a = out
	return nil
}

// Contains reports whether id is present.
func (a UUIDArray) Contains(id uuid.UUID) bool {
	for _, candidate := range a {
		if candidate == id {
			return true
		}
	}
	return false
}

// Dedupe returns the ids in first-seen order without repeats.
func (a UUIDArray) Dedupe() UUIDArray {
	seen := make(map[uuid.UUID]struct{}, len(a))
	out := make(UUIDArray, 0, len(a))
	for _, id := range a {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
