package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/estate-ledger-go/internal/domain/organization"
	"github.com/cmlabs-hris/estate-ledger-go/internal/domain/wage"
	"github.com/cmlabs-hris/estate-ledger-go/internal/pkg/database"
	"github.com/cmlabs-hris/estate-ledger-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWageEntryRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()

	orgA := setup.CreateOrganization(t, uuid.NewString())
	orgB := setup.CreateOrganization(t, uuid.NewString())
	workerA := setup.CreateWorker(t, orgA, "Kamala")

	repo := postgresql.NewWageEntryRepository(setup.DB, database.FullyScoped())
	day := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	created, err := repo.CreateBatch(ctx, []wage.WageEntry{
		wage.NewPluckingEntry(orgA, workerA, day, decimal.NewFromInt(10), decimal.NewFromInt(40),
			[]wage.ExtraWork{{Description: "pruning", Amount: decimal.NewFromInt(25)}}),
		wage.NewAdvanceEntry(orgA, workerA, day, decimal.NewFromInt(500)),
	})
	require.NoError(t, err)
	require.Len(t, created, 2)

	t.Run("extra work round trips through jsonb", func(t *testing.T) {
		got, err := repo.GetByWorkerDate(ctx, orgA, workerA, day, false)
		require.NoError(t, err)
		require.Len(t, got.ExtraWork, 1)
		assert.Equal(t, "pruning", got.ExtraWork[0].Description)
		assert.True(t, got.Amount.Equal(decimal.NewFromInt(425)))
	})

	t.Run("fractional kg and rate keep amount exact", func(t *testing.T) {
		fractionalDay := day.AddDate(0, 0, 10)
		kg := decimal.RequireFromString("1.234")
		rate := decimal.RequireFromString("100.01")
		extra := []wage.ExtraWork{{Description: "weeding", Amount: decimal.RequireFromString("12.75")}}

		_, err := repo.CreateBatch(ctx, []wage.WageEntry{wage.NewPluckingEntry(orgA, workerA, fractionalDay, kg, rate, extra)})
		require.NoError(t, err)

		got, err := repo.GetByWorkerDate(ctx, orgA, workerA, fractionalDay, false)
		require.NoError(t, err)
		assert.True(t, got.KgPlucked.Equal(kg))
		assert.True(t, got.RatePerKg.Equal(rate))
		assert.True(t, got.Amount.Equal(decimal.RequireFromString("136.16234")), "amount %s", got.Amount)
		assert.True(t, got.Amount.Equal(got.KgPlucked.Mul(got.RatePerKg).Add(got.ExtraWorkPayment)))
	})

	t.Run("duplicate slot is a conflict", func(t *testing.T) {
		_, err := repo.CreateBatch(ctx, []wage.WageEntry{wage.NewAdvanceEntry(orgA, workerA, day, decimal.NewFromInt(1))})
		assert.ErrorIs(t, err, wage.ErrDailyEntryConflict)
	})

	t.Run("other organization cannot see or delete", func(t *testing.T) {
		_, err := repo.GetByID(ctx, created[0].ID, orgB)
		assert.ErrorIs(t, err, wage.ErrWageEntryNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, created[0].ID, orgB), wage.ErrWageEntryNotFound)

		list, err := repo.ListByMonth(ctx, orgB, wage.EntryFilter{Month: day})
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("transaction rolls back both rows", func(t *testing.T) {
		tx := postgresql.NewTransactor(setup.DB)
		other := day.AddDate(0, 0, 1)

		err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
			if _, err := repo.CreateBatch(ctx, []wage.WageEntry{wage.NewAdvanceEntry(orgA, workerA, other, decimal.NewFromInt(5))}); err != nil {
				return err
			}
			_, err := repo.CreateBatch(ctx, []wage.WageEntry{wage.NewAdvanceEntry(orgA, workerA, day, decimal.NewFromInt(5))})
			return err
		})
		assert.ErrorIs(t, err, wage.ErrDailyEntryConflict)

		_, err = repo.GetByWorkerDate(ctx, orgA, workerA, other, true)
		assert.ErrorIs(t, err, wage.ErrWageEntryNotFound)
	})
}

func TestBonusAndPaymentRepositories(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()

	org := setup.CreateOrganization(t, uuid.NewString())
	workerID := setup.CreateWorker(t, org, "Nimal")
	month := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	bonuses := postgresql.NewWageBonusRepository(setup.DB, database.FullyScoped())
	_, err := bonuses.Upsert(ctx, wage.BonusEntry{OrganizationID: org, WorkerID: workerID, Month: month, Amount: decimal.NewFromInt(100)})
	require.NoError(t, err)
	saved, err := bonuses.Upsert(ctx, wage.BonusEntry{OrganizationID: org, WorkerID: workerID, Month: month, Amount: decimal.NewFromInt(250)})
	require.NoError(t, err)
	assert.True(t, saved.Amount.Equal(decimal.NewFromInt(250)))

	list, err := bonuses.ListByMonth(ctx, org, month)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, bonuses.Delete(ctx, org, workerID, month))
	require.NoError(t, bonuses.Delete(ctx, org, workerID, month))
	_, err = bonuses.Get(ctx, org, workerID, month)
	assert.ErrorIs(t, err, wage.ErrBonusNotFound)

	payments := postgresql.NewWagePaymentRepository(setup.DB, database.FullyScoped())
	paidBy := uuid.NewString()
	_, err = payments.Create(ctx, wage.PaymentMark{OrganizationID: org, WorkerID: workerID, Month: month, PaidAt: time.Now().UTC(), PaidBy: &paidBy})
	require.NoError(t, err)

	mark, err := payments.Get(ctx, org, workerID, month)
	require.NoError(t, err)
	require.NotNil(t, mark.PaidBy)
	assert.Equal(t, paidBy, *mark.PaidBy)
}

func TestOrganizationRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewOrganizationRepository(setup.DB)

	owner := uuid.NewString()
	m, err := repo.CreateOrganization(ctx, "Hill Top Estate", owner)
	require.NoError(t, err)
	assert.Equal(t, organization.RoleOwner, m.Role)

	got, err := repo.GetMembership(ctx, m.OrganizationID, owner)
	require.NoError(t, err)
	assert.Equal(t, organization.RoleOwner, got.Role)

	_, err = repo.GetMembership(ctx, m.OrganizationID, uuid.NewString())
	assert.ErrorIs(t, err, organization.ErrOrganizationAccessDenied)

	_, err = setup.DB.Exec(ctx,
		`INSERT INTO organization_invitations (token, organization_id, role, expires_at) VALUES ($1, $2, 'viewer', NOW() + INTERVAL '1 day')`,
		"tok-1", m.OrganizationID)
	require.NoError(t, err)

	invitee := uuid.NewString()
	accepted, err := repo.AcceptInvitation(ctx, "tok-1", invitee)
	require.NoError(t, err)
	assert.Equal(t, organization.RoleViewer, accepted.Role)

	_, err = repo.AcceptInvitation(ctx, "tok-1", uuid.NewString())
	assert.ErrorIs(t, err, organization.ErrInvitationNotFound)
}

func TestProbeTenantColumns(t *testing.T) {
	setup := NewTestDatabase(t)

	mode, err := database.ProbeTenantColumns(context.Background(), setup.DB.Pool, true, "wage_entries", "wage_bonuses", "wage_payments")
	require.NoError(t, err)
	assert.Empty(t, mode.UnscopedTables())

	_, err = database.ProbeTenantColumns(context.Background(), setup.DB.Pool, true, "wage_entries", "no_such_table")
	assert.Error(t, err)

	mode, err = database.ProbeTenantColumns(context.Background(), setup.DB.Pool, false, "wage_entries", "no_such_table")
	require.NoError(t, err)
	assert.Equal(t, []string{"no_such_table"}, mode.UnscopedTables())
	assert.False(t, mode.Scoped("no_such_table"))
	assert.True(t, mode.Scoped("wage_entries"))
}
