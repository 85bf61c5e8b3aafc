package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/wholesale-backend/pkg/migrate"
)

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	require.NoError(t, err)
	require.Lenf(t, matches, 1, "expected exactly one migration for %s", pattern)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	return string(data)
}

func assertContainsAll(t *testing.T, content string, checks []string) {
	t.Helper()
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestProductsMigrationGuardsStock(t *testing.T) {
	assertContainsAll(t, readMigration(t, "*_create_products.sql"), []string{
		"CREATE TABLE IF NOT EXISTS products",
		"CONSTRAINT products_sku_key UNIQUE (sku)",
		"CHECK (quantity_on_hand >= 0)",
		"CONSTRAINT product_suppliers_product_supplier_key UNIQUE (product_id, supplier_id)",
		"CONSTRAINT product_customer_prices_product_customer_key UNIQUE (product_id, customer_id)",
		"DROP TABLE IF EXISTS products",
	})
}

func TestOrdersMigrationContainsConstraints(t *testing.T) {
	assertContainsAll(t, readMigration(t, "*_create_orders.sql"), []string{
		"CONSTRAINT orders_order_number_key UNIQUE (order_number)",
		"FOREIGN KEY (customer_id) REFERENCES customers(id) ON DELETE RESTRICT",
		"CHECK (fulfilled_quantity >= 0 AND fulfilled_quantity <= quantity)",
		"CHECK (amount > 0)",
		"DROP TABLE IF EXISTS order_payments",
	})
}

func TestDemandListsMigrationContainsRelatedOrders(t *testing.T) {
	assertContainsAll(t, readMigration(t, "*_create_demand_lists.sql"), []string{
		"related_orders uuid[] NOT NULL DEFAULT ARRAY[]::uuid[]",
		"status demand_list_status NOT NULL DEFAULT 'Draft'",
		"FOREIGN KEY (supplier_id) REFERENCES suppliers(id) ON DELETE RESTRICT",
	})
}

func TestEnumMigrationMatchesStatuses(t *testing.T) {
	assertContainsAll(t, readMigration(t, "*_create_enum_types.sql"), []string{
		"CREATE TYPE order_status AS ENUM ('Pending', 'Processing', 'Partial', 'Fulfilled', 'Cancelled')",
		"CREATE TYPE demand_list_status AS ENUM ('Draft', 'Submitted', 'Confirmed', 'Partial', 'Fulfilled', 'Cancelled')",
	})
}

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	require.NoError(t, migrate.ValidateDir("migrations"))
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001_init.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	err := migrate.ValidateDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid migration filename")
}

func TestValidateDirRejectsEmptyDir(t *testing.T) {
	require.Error(t, migrate.ValidateDir(t.TempDir()))
}

func TestCreateSQLMigrationSanitizesName(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add Order Notes!")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_add_order_notes.sql"), path)

	require.NoError(t, migrate.ValidateDir(dir))

	_, err = migrate.CreateSQLMigration(dir, "!!!")
	require.Error(t, err)
}

func TestValidateDirReportsEveryProblem(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("20260101000000_a.sql", "-- +goose Up\n-- +goose Down\n")
	write("20260101000000_b.sql", "-- +goose Up\n-- +goose Down\n")
	write("20260102000000_c.sql", "-- +goose Up\n")

	err := migrate.ValidateDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version 20260101000000 used by both")
	assert.Contains(t, err.Error(), `"20260102000000_c.sql" is missing "-- +goose Down"`)
}
