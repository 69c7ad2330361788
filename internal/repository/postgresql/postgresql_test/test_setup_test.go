package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/cmlabs-hris/estate-ledger-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSetup wraps a connection to the test database
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the migrations.
// Tests are skipped when the variable is not set.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()
	dsn := testDSN(t)

	db, err := database.NewPostgreSQLDB(dsn)
	require.NoError(t, err, "failed to connect to test database")
	t.Cleanup(db.Close)

	setup := &TestDatabaseSetup{DB: db}
	require.NoError(t, setup.migrate(context.Background()))
	require.NoError(t, setup.TruncateAllTables(context.Background()))
	return setup
}

func testDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	return dsn
}

const legacySchema = "legacy_ledger"

// legacyTables is the ledger layout before organization_id was added.
const legacyTables = `
	DROP SCHEMA IF EXISTS legacy_ledger CASCADE;
	CREATE SCHEMA legacy_ledger;
	CREATE TABLE legacy_ledger.wage_entries (
		id                  UUID PRIMARY KEY,
		worker_id           UUID NOT NULL,
		date                DATE NOT NULL,
		kg_plucked          NUMERIC(12, 3) NOT NULL DEFAULT 0,
		rate_per_kg         NUMERIC(12, 2) NOT NULL DEFAULT 0,
		extra_work          JSONB NOT NULL DEFAULT '[]',
		extra_work_payment  NUMERIC(18, 5) NOT NULL DEFAULT 0,
		is_advance          BOOLEAN NOT NULL DEFAULT FALSE,
		amount              NUMERIC(18, 5) NOT NULL,
		created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE TABLE legacy_ledger.wage_bonuses (
		id         UUID PRIMARY KEY,
		worker_id  UUID NOT NULL,
		month      DATE NOT NULL,
		amount     NUMERIC(14, 2) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE TABLE legacy_ledger.wage_payments (
		id        UUID PRIMARY KEY,
		worker_id UUID NOT NULL,
		month     DATE NOT NULL,
		paid_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		paid_by   UUID
	);
`

// NewLegacyDatabase creates ledger tables without the tenant column and no
// unique keys, and returns a connection whose search_path points at them.
func NewLegacyDatabase(t *testing.T) *database.DB {
	t.Helper()
	dsn := testDSN(t)

	admin, err := database.NewPostgreSQLDB(dsn)
	require.NoError(t, err)
	defer admin.Close()
	_, err = admin.Exec(context.Background(), legacyTables)
	require.NoError(t, err)
	t.Cleanup(func() {
		cleanup, err := database.NewPostgreSQLDB(dsn)
		if err != nil {
			return
		}
		defer cleanup.Close()
		_, _ = cleanup.Exec(context.Background(), "DROP SCHEMA IF EXISTS "+legacySchema+" CASCADE")
	})

	config, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	config.ConnConfig.RuntimeParams["search_path"] = legacySchema
	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return &database.DB{Pool: pool}
}

func (s *TestDatabaseSetup) migrate(ctx context.Context) error {
	_, file, _, _ := runtime.Caller(0)
	path := filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "migrations", "0001_wage_ledger.up.sql")
	sql, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read migration: %w", err)
	}
	if _, err := s.DB.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("failed to apply migration: %w", err)
	}
	return nil
}

// TruncateAllTables removes all rows from the ledger tables
func (s *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"wage_payments",
		"wage_bonuses",
		"wage_entries",
		"workers",
		"organization_invitations",
		"organization_members",
		"organizations",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// CreateOrganization inserts an organization with an owner and returns its id.
func (s *TestDatabaseSetup) CreateOrganization(t *testing.T, ownerID string) string {
	t.Helper()
	var organizationID string
	err := s.DB.QueryRow(context.Background(),
		`SELECT organization_id FROM create_organization($1, $2)`, "Test Estate "+uuid.NewString()[:8], ownerID,
	).Scan(&organizationID)
	require.NoError(t, err)
	return organizationID
}

// CreateWorker inserts an active worker and returns its id.
func (s *TestDatabaseSetup) CreateWorker(t *testing.T, organizationID, name string) string {
	t.Helper()
	id := uuid.NewString()
	_, err := s.DB.Exec(context.Background(),
		`INSERT INTO workers (id, organization_id, name) VALUES ($1, $2, $3)`, id, organizationID, name)
	require.NoError(t, err)
	return id
}
