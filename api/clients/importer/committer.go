package importer

import (
	"context"
	"fmt"

	"JurisOfficeSaas/internal/config"
	"JurisOfficeSaas/internal/logger"
)

// InsertedClient links a generated client id back to its source line.
type InsertedClient struct {
	ID   string
	Line int
}

// ProcessRow is a process record queued for the second insert pass.
type ProcessRow struct {
	ClientID string
	Numero   string
	Tipo     string
	Line     int
}

// ClientStore is the persistence boundary of the committer. The pgx
// implementation lives in pgstore.go; tests substitute their own.
type ClientStore interface {
	InsertClients(ctx context.Context, ownerID string, batch []CandidateRecord) ([]InsertedClient, error)
	InsertProcesses(ctx context.Context, ownerID string, batch []ProcessRow) (int, error)
}

// CommitResult summarizes one commit pass.
type CommitResult struct {
	ImportedRows     int
	ProcessesCreated int
	FailedBatches    int
	ClientIDByLine   map[int]string
}

// Committer persists accepted records in bounded batches. A failed
// batch is logged and skipped; the run always continues to the next
// batch (forward progress over atomicity).
type Committer struct {
	store      ClientStore
	batchSize  int
	onProgress func(pct int)
}

func NewCommitter(store ClientStore) *Committer {
	return &Committer{store: store, batchSize: config.InsertBatchSize}
}

// WithBatchSize overrides the default batch size (mostly for tests).
func (c *Committer) WithBatchSize(n int) *Committer {
	if n > 0 {
		c.batchSize = n
	}
	return c
}

// WithProgress registers a monotonic progress callback. The committer
// reports within the 70-100 range; earlier checkpoints belong to the
// caller.
func (c *Committer) WithProgress(fn func(pct int)) *Committer {
	c.onProgress = fn
	return c
}

func (c *Committer) report(pct int) {
	if c.onProgress != nil {
		c.onProgress(pct)
	}
}

// Commit inserts clients in batches, then the processes queued from
// successfully inserted rows in a second batched pass.
func (c *Committer) Commit(ctx context.Context, toInsert []CandidateRecord, ownerID string) CommitResult {
	res := CommitResult{ClientIDByLine: make(map[int]string)}
	if len(toInsert) == 0 {
		c.report(100)
		return res
	}

	byLine := make(map[int]CandidateRecord, len(toInsert))
	for _, rec := range toInsert {
		byLine[rec.Line] = rec
	}

	totalBatches := (len(toInsert) + c.batchSize - 1) / c.batchSize
	processos := make([]ProcessRow, 0)

	for b := 0; b < totalBatches; b++ {
		start := b * c.batchSize
		end := start + c.batchSize
		if end > len(toInsert) {
			end = len(toInsert)
		}
		batch := toInsert[start:end]

		inserted, err := c.store.InsertClients(ctx, ownerID, batch)
		if err != nil {
			res.FailedBatches++
			if logger.GlobalLogger != nil {
				logger.GlobalLogger.LogAudit(fmt.Sprintf("Import batch %d/%d failed for user %s: %v", b+1, totalBatches, ownerID, err))
			}
			continue
		}
		res.ImportedRows += len(inserted)
		for _, ins := range inserted {
			res.ClientIDByLine[ins.Line] = ins.ID
			if rec, ok := byLine[ins.Line]; ok && rec.HasProcesso() {
				processos = append(processos, ProcessRow{
					ClientID: ins.ID,
					Numero:   rec.ProcessoNumero,
					Tipo:     rec.ProcessoTipo,
					Line:     ins.Line,
				})
			}
		}
		// 70 -> 95 across client batches
		c.report(70 + (b+1)*25/totalBatches)
	}

	for start := 0; start < len(processos); start += c.batchSize {
		end := start + c.batchSize
		if end > len(processos) {
			end = len(processos)
		}
		n, err := c.store.InsertProcesses(ctx, ownerID, processos[start:end])
		if err != nil {
			res.FailedBatches++
			if logger.GlobalLogger != nil {
				logger.GlobalLogger.LogAudit(fmt.Sprintf("Process batch insert failed for user %s: %v", ownerID, err))
			}
			continue
		}
		res.ProcessesCreated += n
	}

	c.report(100)
	return res
}
