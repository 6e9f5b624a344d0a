package ledger

import "github.com/andrescamacho/starport-go/internal/domain/ledger"

// Journal hands out transactions recorded by the running simulation
type Journal interface {
	// DrainJournal returns every transaction recorded since the last drain
	DrainJournal() []*ledger.Transaction
	// RequeueJournal gives back transactions that could not be persisted
	RequeueJournal(txs []*ledger.Transaction)
}
