package migrate

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.uber.org/multierr"
)

const versionLayout = "20060102150405"

var (
	fileNameRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)
	slugRe     = regexp.MustCompile(`[^a-z0-9]+`)

	upMarker   = []byte("-- +goose Up")
	downMarker = []byte("-- +goose Down")
)

const sqlTemplate = `-- +goose Up
-- +goose StatementBegin
-- %[1]s
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- rollback %[1]s
-- +goose StatementEnd
`

// slug lowercases name and collapses every run of other characters into one underscore.
func slug(name string) string {
	return strings.Trim(slugRe.ReplaceAllString(strings.ToLower(name), "_"), "_")
}

// CreateSQLMigration writes an empty goose migration named
// <dir>/<YYYYMMDDHHMMSS>_<slug>.sql and returns its path.
func CreateSQLMigration(dir string, name string) (string, error) {
	if dir == "" {
		return "", errors.New("dir is required")
	}
	s := slug(name)
	if s == "" {
		return "", fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_%s.sql", time.Now().UTC().Format(versionLayout), s))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %q: %w", path, err)
	}
	_, err = fmt.Fprintf(f, sqlTemplate, s)
	if err = multierr.Append(err, f.Close()); err != nil {
		return "", fmt.Errorf("write %q: %w", path, err)
	}
	return path, nil
}

// ValidateDir reports every naming, version and marker problem among the .sql
// files in dir. A directory with no migrations is invalid.
func ValidateDir(dir string) error {
	if dir == "" {
		return errors.New("dir is required")
	}
	paths, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return fmt.Errorf("list %q: %w", dir, err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no migrations found in %q", dir)
	}

	var problems error
	versions := make(map[string]string, len(paths))
	for _, path := range paths {
		name := filepath.Base(path)
		m := fileNameRe.FindStringSubmatch(name)
		if m == nil {
			problems = multierr.Append(problems, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name))
			continue
		}
		if prev, dup := versions[m[1]]; dup {
			problems = multierr.Append(problems, fmt.Errorf("version %s used by both %q and %q", m[1], prev, name))
		}
		versions[m[1]] = name

		body, err := os.ReadFile(path)
		if err != nil {
			problems = multierr.Append(problems, fmt.Errorf("read %q: %w", name, err))
			continue
		}
		if !bytes.Contains(body, upMarker) {
			problems = multierr.Append(problems, fmt.Errorf("%q is missing %q", name, upMarker))
		}
		if !bytes.Contains(body, downMarker) {
			problems = multierr.Append(problems, fmt.Errorf("%q is missing %q", name, downMarker))
		}
	}
	return problems
}
