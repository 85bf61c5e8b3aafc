// Package dbtest opens throwaway in-memory databases carrying the service schema.
package dbtest

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/angelmondragon/wholesale-backend/pkg/db"
)

var seq atomic.Int64

// schema mirrors pkg/migrate/migrations with sqlite column types.
var schema = []string{
	`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'user',
		permissions TEXT,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		last_login_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE suppliers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		contact_person TEXT,
		email TEXT,
		phone TEXT,
		address TEXT,
		reliability_rating REAL NOT NULL DEFAULT 3,
		payment_terms TEXT,
		notes TEXT,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE customers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		store_id TEXT UNIQUE,
		contact_person TEXT,
		email TEXT,
		phone TEXT,
		address TEXT,
		payment_terms TEXT,
		credit_limit NUMERIC NOT NULL DEFAULT 0,
		outstanding_balance NUMERIC NOT NULL DEFAULT 0,
		notes TEXT,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		sku TEXT UNIQUE,
		category TEXT,
		tags TEXT,
		company_name TEXT,
		retail_price NUMERIC NOT NULL,
		purchase_price NUMERIC NOT NULL,
		sell_price NUMERIC NOT NULL,
		quantity_on_hand INTEGER NOT NULL DEFAULT 0 CHECK (quantity_on_hand >= 0),
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE product_suppliers (
		id TEXT PRIMARY KEY,
		product_id TEXT NOT NULL REFERENCES products(id),
		supplier_id TEXT NOT NULL REFERENCES suppliers(id),
		purchase_price NUMERIC NOT NULL,
		is_preferred BOOLEAN NOT NULL DEFAULT 0,
		last_purchase_date DATETIME,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE (product_id, supplier_id)
	)`,
	`CREATE TABLE product_customer_prices (
		id TEXT PRIMARY KEY,
		product_id TEXT NOT NULL REFERENCES products(id),
		customer_id TEXT NOT NULL REFERENCES customers(id),
		custom_sell_price NUMERIC NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE (product_id, customer_id)
	)`,
	`CREATE TABLE orders (
		id TEXT PRIMARY KEY,
		order_number TEXT NOT NULL UNIQUE,
		customer_id TEXT NOT NULL REFERENCES customers(id),
		order_date DATETIME NOT NULL,
		status TEXT NOT NULL DEFAULT 'Pending',
		payment_status TEXT NOT NULL DEFAULT 'Pending',
		total_amount NUMERIC NOT NULL DEFAULT 0,
		notes TEXT,
		fulfillment_date DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE order_items (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL REFERENCES orders(id),
		position INTEGER NOT NULL,
		product_id TEXT NOT NULL REFERENCES products(id),
		quantity INTEGER NOT NULL CHECK (quantity >= 1),
		sell_price NUMERIC NOT NULL,
		fulfilled_quantity INTEGER NOT NULL DEFAULT 0 CHECK (fulfilled_quantity >= 0),
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE order_payments (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL REFERENCES orders(id),
		amount NUMERIC NOT NULL,
		paid_at DATETIME NOT NULL,
		method TEXT NOT NULL DEFAULT 'Cash',
		reference TEXT,
		created_at DATETIME
	)`,
	`CREATE TABLE demand_lists (
		id TEXT PRIMARY KEY,
		supplier_id TEXT NOT NULL REFERENCES suppliers(id),
		demand_date DATETIME NOT NULL,
		status TEXT NOT NULL DEFAULT 'Draft',
		estimated_total NUMERIC NOT NULL DEFAULT 0,
		notes TEXT,
		fulfillment_date DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE demand_list_items (
		id TEXT PRIMARY KEY,
		demand_list_id TEXT NOT NULL REFERENCES demand_lists(id),
		position INTEGER NOT NULL,
		product_id TEXT NOT NULL REFERENCES products(id),
		quantity INTEGER NOT NULL CHECK (quantity >= 1),
		purchase_price NUMERIC NOT NULL,
		available_quantity INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'Pending',
		related_orders TEXT NOT NULL DEFAULT '{}',
		created_at DATETIME,
		updated_at DATETIME
	)`,
}

// Open returns a fresh database private to the calling test.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_", "=", "_", "?", "_", "&", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))

	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
		NowFunc:                db.NowUTC,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	// a single connection keeps the shared in-memory database alive and
	// serializes transactions the way row locks would.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range schema {
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("apply schema: %v", err)
		}
	}
	return conn
}

// Client wraps Open in a db.Client for services that need WithTx.
func Client(t testing.TB) *db.Client {
	t.Helper()
	return db.Wrap(Open(t))
}
