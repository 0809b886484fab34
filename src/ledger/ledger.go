// Package ledger is the append-only store of canonical transactions.
// Existing entries are never mutated or removed by normal operation; incoming
// batches are deduplicated by fingerprint against everything already stored.
package ledger

import (
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/username/kabufolio/src/logger"
	"github.com/username/kabufolio/src/models"
	"github.com/username/kabufolio/src/storage"
)

// transactionsKey is the single namespaced key holding the ordered collection
// of stored transactions. The store treats the value as an opaque blob.
const transactionsKey = "ledger:transactions"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// StoredTransaction pairs a canonical transaction with the provenance of the
// batch that inserted it.
type StoredTransaction struct {
	Tx   models.CanonicalTransaction `json:"tx"`
	Meta models.BatchMetadata        `json:"meta"`
}

// UpsertCounts summarizes the outcome of an UpsertBatch call. Updated is
// always zero: the ledger never rewrites an existing entry.
type UpsertCounts struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
	Updated  int `json:"updated"`
	Total    int `json:"total"`
}

type Ledger struct {
	store storage.Store
}

func New(store storage.Store) *Ledger {
	return &Ledger{store: store}
}

// UpsertBatch appends every transaction whose fingerprint is not yet present
// and skips the rest. The fingerprint working set is rebuilt from the
// persisted collection on every call and extended in memory as the batch is
// walked, so intra-batch duplicates are caught too. A failed write leaves the
// ledger fully unchanged.
func (l *Ledger) UpsertBatch(meta models.BatchMetadata, txs []models.CanonicalTransaction) (UpsertCounts, error) {
	stored, err := l.load()
	if err != nil {
		return UpsertCounts{}, err
	}

	seen := make(map[string]struct{}, len(stored))
	for _, rec := range stored {
		seen[rec.Tx.Fingerprint] = struct{}{}
	}

	counts := UpsertCounts{Total: len(txs)}
	for _, tx := range txs {
		if _, dup := seen[tx.Fingerprint]; dup {
			counts.Skipped++
			continue
		}
		seen[tx.Fingerprint] = struct{}{}
		stored = append(stored, StoredTransaction{Tx: tx, Meta: meta})
		counts.Inserted++
	}

	if counts.Inserted > 0 {
		if err := l.save(stored); err != nil {
			return UpsertCounts{}, err
		}
	}

	logger.L.Info("Ledger batch upserted",
		"batchID", meta.BatchID,
		"inserted", counts.Inserted,
		"skipped", counts.Skipped,
		"total", counts.Total)
	return counts, nil
}

// ListByDateRange returns the stored transactions whose trade date falls in
// [from, to], both inclusive. A zero bound leaves that side open.
func (l *Ledger) ListByDateRange(from, to time.Time) ([]models.CanonicalTransaction, error) {
	stored, err := l.load()
	if err != nil {
		return nil, err
	}

	var txs []models.CanonicalTransaction
	for _, rec := range stored {
		d := rec.Tx.TradeDate
		if !from.IsZero() && d.Before(from) {
			continue
		}
		if !to.IsZero() && d.After(to) {
			continue
		}
		txs = append(txs, rec.Tx)
	}
	return txs, nil
}

// GetAll reconstructs the full stored collection in insertion order.
func (l *Ledger) GetAll() ([]models.CanonicalTransaction, error) {
	stored, err := l.load()
	if err != nil {
		return nil, err
	}
	txs := make([]models.CanonicalTransaction, 0, len(stored))
	for _, rec := range stored {
		txs = append(txs, rec.Tx)
	}
	return txs, nil
}

// GetAllStored returns transactions together with their batch provenance.
func (l *Ledger) GetAllStored() ([]StoredTransaction, error) {
	return l.load()
}

func (l *Ledger) load() ([]StoredTransaction, error) {
	blob, found, err := l.store.Get(transactionsKey)
	if err != nil {
		return nil, fmt.Errorf("error loading ledger: %w", err)
	}
	if !found || len(blob) == 0 {
		return nil, nil
	}
	var stored []StoredTransaction
	if err := json.Unmarshal(blob, &stored); err != nil {
		return nil, fmt.Errorf("error decoding ledger blob: %w", err)
	}
	return stored, nil
}

func (l *Ledger) save(stored []StoredTransaction) error {
	blob, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("error encoding ledger blob: %w", err)
	}
	if err := l.store.Set(transactionsKey, blob); err != nil {
		return fmt.Errorf("error persisting ledger: %w", err)
	}
	return nil
}
