package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createSettlementRecordTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE settlement_records (
		id TEXT PRIMARY KEY,
		wallet_address TEXT NOT NULL,
		direction TEXT NOT NULL,
		amount TEXT NOT NULL,
		currency TEXT NOT NULL,
		item_name TEXT,
		memo TEXT,
		network TEXT NOT NULL,
		tx_hash TEXT,
		from_address TEXT NOT NULL,
		to_address TEXT NOT NULL,
		status TEXT NOT NULL,
		is_circle_payment BOOLEAN DEFAULT 0,
		timestamp DATETIME NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createMerchantBindingTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE merchant_deposit_bindings (
		id TEXT PRIMARY KEY,
		merchant_id TEXT NOT NULL UNIQUE,
		deposit_id TEXT NOT NULL,
		deposit_address TEXT NOT NULL,
		currency TEXT NOT NULL,
		chain TEXT NOT NULL,
		bank_account_id TEXT,
		fiat_enabled BOOLEAN DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createPaymentRequestTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE payment_requests (
		id TEXT PRIMARY KEY,
		request_id TEXT NOT NULL UNIQUE,
		item_for TEXT NOT NULL,
		amount TEXT NOT NULL,
		currency TEXT NOT NULL,
		seller_wallet_address TEXT NOT NULL,
		memo TEXT,
		network TEXT,
		merchant_id TEXT,
		is_circle_payment BOOLEAN DEFAULT 0,
		issued_at INTEGER NOT NULL,
		status TEXT NOT NULL,
		tx_hash TEXT,
		expires_at DATETIME NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}
