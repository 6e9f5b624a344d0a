package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/starport-go/internal/adapters/persistence"
	"github.com/andrescamacho/starport-go/internal/domain/ledger"
	"github.com/andrescamacho/starport-go/internal/domain/shared"
	"github.com/andrescamacho/starport-go/test/helpers"
)

var player = shared.MustNewPlayerID(1)

func seedTransactions(t *testing.T, repo *persistence.GormTransactionRepository) {
	t.Helper()
	ctx := context.Background()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := []struct {
		tick   shared.Tick
		txType ledger.TransactionType
		amount int
		before int
		op     *shared.OperationContext
	}{
		{0, ledger.TransactionTypeGrant, 1000, 0, nil},
		{2, ledger.TransactionTypeProductionCharge, -100, 1000, shared.NewOperationContext("order", "o-1", shared.OperationProduction, "trike")},
		{3, ledger.TransactionTypeProductionCharge, -200, 900, shared.NewOperationContext("order", "o-2", shared.OperationProduction, "tank")},
		{9, ledger.TransactionTypeDeliveryRefund, 200, 700, shared.NewOperationContext("delivery", "d-1", shared.OperationDelivery, "tank")},
	}
	for i, row := range rows {
		tx, err := ledger.NewTransaction(player, row.tick, start.Add(time.Duration(i)*time.Second),
			row.txType, row.amount, row.before, row.before+row.amount, "seed", row.op)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, tx))
	}
}

func TestTransactionRepository_CreateAndFindByID(t *testing.T) {
	// Arrange
	repo := persistence.NewGormTransactionRepository(helpers.NewTestDB(t))
	tx, err := ledger.NewTransaction(player, 4, time.Now(), ledger.TransactionTypeProductionCharge,
		-150, 500, 350, "quad", shared.NewOperationContext("order", "o-9", shared.OperationProduction, "quad"))
	require.NoError(t, err)

	// Act
	require.NoError(t, repo.Create(context.Background(), tx))
	found, err := repo.FindByID(context.Background(), tx.ID(), player)

	// Assert
	require.NoError(t, err)
	assert.True(t, found.ID().Equals(tx.ID()))
	assert.Equal(t, ledger.CategoryProductionCosts, found.Category())
	assert.Equal(t, -150, found.Amount())
	assert.Equal(t, shared.Tick(4), found.Tick())
	assert.Equal(t, "quad", found.Item())
	assert.Equal(t, "o-9", found.RelatedEntityID())
}

func TestTransactionRepository_FindByIDIsScopedToPlayer(t *testing.T) {
	repo := persistence.NewGormTransactionRepository(helpers.NewTestDB(t))
	tx, err := ledger.NewTransaction(player, 0, time.Now(), ledger.TransactionTypeGrant, 10, 0, 10, "", nil)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), tx))

	_, err = repo.FindByID(context.Background(), tx.ID(), shared.MustNewPlayerID(2))

	var notFound *ledger.ErrTransactionNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestTransactionRepository_FindByPlayerFilters(t *testing.T) {
	// Arrange
	repo := persistence.NewGormTransactionRepository(helpers.NewTestDB(t))
	seedTransactions(t, repo)
	ctx := context.Background()
	from, to := shared.Tick(2), shared.Tick(3)
	costs := ledger.CategoryProductionCosts
	tank := "tank"

	// Act
	all, err := repo.FindByPlayer(ctx, player, ledger.DefaultQueryOptions())
	require.NoError(t, err)
	ranged, err := repo.FindByPlayer(ctx, player, ledger.QueryOptions{FromTick: &from, ToTick: &to, OrderBy: "tick ASC"})
	require.NoError(t, err)
	byCategory, err := repo.FindByPlayer(ctx, player, ledger.QueryOptions{Category: &costs})
	require.NoError(t, err)
	byItem, err := repo.FindByPlayer(ctx, player, ledger.QueryOptions{Item: &tank})
	require.NoError(t, err)
	paged, err := repo.FindByPlayer(ctx, player, ledger.QueryOptions{Limit: 1, Offset: 1, OrderBy: "tick ASC"})
	require.NoError(t, err)

	// Assert
	require.Len(t, all, 4)
	assert.Equal(t, shared.Tick(9), all[0].Tick(), "newest first by default")
	require.Len(t, ranged, 2)
	assert.Equal(t, "trike", ranged[0].Item())
	assert.Equal(t, "tank", ranged[1].Item())
	assert.Len(t, byCategory, 2)
	assert.Len(t, byItem, 2)
	require.Len(t, paged, 1)
	assert.Equal(t, shared.Tick(2), paged[0].Tick())
}

func TestTransactionRepository_SumByCategory(t *testing.T) {
	// Arrange
	repo := persistence.NewGormTransactionRepository(helpers.NewTestDB(t))
	seedTransactions(t, repo)

	// Act
	sums, err := repo.SumByCategory(context.Background(), player)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, map[ledger.Category]int{
		ledger.CategoryGrants:          1000,
		ledger.CategoryProductionCosts: -300,
		ledger.CategoryRefunds:         200,
	}, sums)
}
