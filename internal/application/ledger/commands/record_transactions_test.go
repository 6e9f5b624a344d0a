package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/starport-go/internal/application/ledger/commands"
	"github.com/andrescamacho/starport-go/internal/domain/ledger"
	"github.com/andrescamacho/starport-go/internal/domain/shared"
)

type fakeJournal struct {
	account *ledger.Account
}

func (j *fakeJournal) DrainJournal() []*ledger.Transaction      { return j.account.Drain() }
func (j *fakeJournal) RequeueJournal(txs []*ledger.Transaction) { j.account.Requeue(txs) }

type fakeRepo struct {
	saved  []*ledger.Transaction
	failAt int // 1-based call number that fails, 0 = never
	calls  int
}

func (r *fakeRepo) Create(_ context.Context, tx *ledger.Transaction) error {
	r.calls++
	if r.calls == r.failAt {
		return errors.New("disk full")
	}
	r.saved = append(r.saved, tx)
	return nil
}

func (r *fakeRepo) FindByID(context.Context, ledger.TransactionID, shared.PlayerID) (*ledger.Transaction, error) {
	return nil, nil
}

func (r *fakeRepo) FindByPlayer(context.Context, shared.PlayerID, ledger.QueryOptions) ([]*ledger.Transaction, error) {
	return r.saved, nil
}

func (r *fakeRepo) SumByCategory(context.Context, shared.PlayerID) (map[ledger.Category]int, error) {
	return nil, nil
}

func newJournal(t *testing.T) *fakeJournal {
	t.Helper()
	account := ledger.NewAccount(shared.MustNewPlayerID(1), nil, nil, nil)
	require.NoError(t, account.Grant(1000, "starting cash"))
	op := shared.NewOperationContext("order", "o-1", shared.OperationProduction, "trike")
	require.True(t, account.Charge(100, op))
	account.Refund(100, op)
	return &fakeJournal{account: account}
}

func TestRecordTransactions_PersistsJournal(t *testing.T) {
	// Arrange
	journal := newJournal(t)
	repo := &fakeRepo{}
	handler := commands.NewRecordTransactionsHandler(journal, repo)

	// Act
	resp, err := handler.Handle(context.Background(), &commands.RecordTransactionsCommand{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, resp.(*commands.RecordTransactionsResponse).Recorded)
	assert.Len(t, repo.saved, 3)
	assert.Zero(t, journal.account.Pending())
}

func TestRecordTransactions_RequeuesOnFailure(t *testing.T) {
	// Arrange
	journal := newJournal(t)
	repo := &fakeRepo{failAt: 2}
	handler := commands.NewRecordTransactionsHandler(journal, repo)

	// Act
	resp, err := handler.Handle(context.Background(), &commands.RecordTransactionsCommand{})

	// Assert
	require.Error(t, err)
	assert.Equal(t, 1, resp.(*commands.RecordTransactionsResponse).Recorded)
	assert.Equal(t, 2, journal.account.Pending())

	// Act
	resp, err = handler.Handle(context.Background(), &commands.RecordTransactionsCommand{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, resp.(*commands.RecordTransactionsResponse).Recorded)
	require.Len(t, repo.saved, 3)
	assert.Equal(t, ledger.TransactionTypeProductionCharge, repo.saved[1].TransactionType())
}
