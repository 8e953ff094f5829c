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

func createActorTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE actors (
		id TEXT PRIMARY KEY,
		full_name TEXT NOT NULL,
		email TEXT UNIQUE NOT NULL,
		mobile_number TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		tier TEXT NOT NULL,
		district TEXT,
		vehicle_type TEXT,
		wheel_type TEXT,
		referral_code TEXT UNIQUE NOT NULL,
		referred_by TEXT,
		approval_status TEXT NOT NULL DEFAULT 'pending',
		premium_granted_at DATETIME,
		proof_approved BOOLEAN DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createLedgerTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE ledger_entries (
		id TEXT PRIMARY KEY,
		actor_id TEXT NOT NULL,
		wallet TEXT NOT NULL,
		direction TEXT NOT NULL,
		amount INTEGER NOT NULL,
		status TEXT NOT NULL,
		description TEXT,
		source_ref TEXT,
		min_withdrawal INTEGER DEFAULT 0,
		min_balance INTEGER DEFAULT 0,
		created_at DATETIME,
		resolved_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE wallet_accounts (
		id TEXT PRIMARY KEY,
		actor_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		balance INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE(actor_id, kind)
	);`)
}

func createReferralEdgeTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE referral_edges (
		id TEXT PRIMARY KEY,
		referrer_id TEXT NOT NULL,
		referred_id TEXT NOT NULL UNIQUE,
		referral_code TEXT NOT NULL,
		reward_amount INTEGER DEFAULT 0,
		paid BOOLEAN NOT NULL DEFAULT 0,
		paid_at DATETIME,
		created_at DATETIME
	);`)
}

func createOrderTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE orders (
		id TEXT PRIMARY KEY,
		pickup_location TEXT NOT NULL,
		delivery_location TEXT NOT NULL,
		material_type TEXT,
		vehicle_type TEXT,
		wheel_type TEXT,
		contact_number TEXT,
		amount INTEGER NOT NULL,
		advance INTEGER DEFAULT 0,
		balance_paid INTEGER DEFAULT 0,
		referral_code TEXT,
		assigned_to TEXT,
		status TEXT NOT NULL,
		payment_status TEXT NOT NULL,
		referral_rewarded BOOLEAN NOT NULL DEFAULT 0,
		completed_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}
