package importer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore records inserts in memory and can fail designated client
// batches by their call order (1-based).
type fakeStore struct {
	failBatches map[int]bool
	callCount   int
	clients     []InsertedClient
	processes   []ProcessRow
	failProcs   bool
}

func (f *fakeStore) InsertClients(_ context.Context, _ string, batch []CandidateRecord) ([]InsertedClient, error) {
	f.callCount++
	if f.failBatches[f.callCount] {
		return nil, errors.New("copy failed")
	}
	out := make([]InsertedClient, 0, len(batch))
	for _, rec := range batch {
		ins := InsertedClient{ID: fmt.Sprintf("id-%d", rec.Line), Line: rec.Line}
		f.clients = append(f.clients, ins)
		out = append(out, ins)
	}
	return out, nil
}

func (f *fakeStore) InsertProcesses(_ context.Context, _ string, batch []ProcessRow) (int, error) {
	if f.failProcs {
		return 0, errors.New("copy failed")
	}
	f.processes = append(f.processes, batch...)
	return len(batch), nil
}

func candidates(n int) []CandidateRecord {
	out := make([]CandidateRecord, n)
	for i := range out {
		out[i] = CandidateRecord{Line: i + 2, Nome: fmt.Sprintf("Cliente %d", i+2)}
	}
	return out
}

// A failing batch must not abort the run: the remaining batches still
// commit and only the failed batch's rows are lost.
func TestCommit_FailedBatchIsSkippedNotFatal(t *testing.T) {
	store := &fakeStore{failBatches: map[int]bool{2: true}}
	cands := candidates(10) // 5 batches of 2

	res := NewCommitter(store).WithBatchSize(2).Commit(context.Background(), cands, "user-1")

	assert.Equal(t, 8, res.ImportedRows)
	assert.Equal(t, 1, res.FailedBatches)
	assert.Len(t, store.clients, 8)
	// the failed batch covered lines 4 and 5
	assert.NotContains(t, res.ClientIDByLine, 4)
	assert.NotContains(t, res.ClientIDByLine, 5)
	assert.Contains(t, res.ClientIDByLine, 2)
	assert.Contains(t, res.ClientIDByLine, 11)
}

func TestCommit_ProcessesLinkedToInsertedClients(t *testing.T) {
	store := &fakeStore{}
	cands := []CandidateRecord{
		{Line: 2, Nome: "A", ProcessoNumero: "0001", ProcessoTipo: "Trabalhista"},
		{Line: 3, Nome: "B"},
		{Line: 4, Nome: "C", ProcessoNumero: "0002", ProcessoTipo: "Civel"},
	}

	res := NewCommitter(store).WithBatchSize(100).Commit(context.Background(), cands, "user-1")

	assert.Equal(t, 3, res.ImportedRows)
	assert.Equal(t, 2, res.ProcessesCreated)
	require.Len(t, store.processes, 2)
	assert.Equal(t, res.ClientIDByLine[2], store.processes[0].ClientID)
	assert.Equal(t, "0001", store.processes[0].Numero)
	assert.Equal(t, res.ClientIDByLine[4], store.processes[1].ClientID)
}

// When the client batch holding a process's owner fails, that process
// is never queued for the second pass.
func TestCommit_ProcessDroppedWithFailedClientBatch(t *testing.T) {
	store := &fakeStore{failBatches: map[int]bool{1: true}}
	cands := []CandidateRecord{
		{Line: 2, Nome: "A", ProcessoNumero: "0001", ProcessoTipo: "Trabalhista"},
		{Line: 3, Nome: "B", ProcessoNumero: "0002", ProcessoTipo: "Civel"},
	}

	res := NewCommitter(store).WithBatchSize(1).Commit(context.Background(), cands, "user-1")

	assert.Equal(t, 1, res.ImportedRows)
	assert.Equal(t, 1, res.ProcessesCreated)
	require.Len(t, store.processes, 1)
	assert.Equal(t, "0002", store.processes[0].Numero)
}

func TestCommit_ProcessBatchFailureCounted(t *testing.T) {
	store := &fakeStore{failProcs: true}
	cands := []CandidateRecord{
		{Line: 2, Nome: "A", ProcessoNumero: "0001", ProcessoTipo: "Trabalhista"},
	}

	res := NewCommitter(store).Commit(context.Background(), cands, "user-1")

	assert.Equal(t, 1, res.ImportedRows)
	assert.Zero(t, res.ProcessesCreated)
	assert.Equal(t, 1, res.FailedBatches)
}

func TestCommit_ProgressMonotonicEndsAt100(t *testing.T) {
	store := &fakeStore{}
	var pcts []int
	c := NewCommitter(store).WithBatchSize(3).WithProgress(func(p int) { pcts = append(pcts, p) })

	c.Commit(context.Background(), candidates(7), "user-1")

	require.NotEmpty(t, pcts)
	for i := 1; i < len(pcts); i++ {
		assert.GreaterOrEqual(t, pcts[i], pcts[i-1])
	}
	assert.Equal(t, 100, pcts[len(pcts)-1])
}

func TestCommit_EmptyInput(t *testing.T) {
	store := &fakeStore{}
	res := NewCommitter(store).Commit(context.Background(), nil, "user-1")
	assert.Zero(t, res.ImportedRows)
	assert.Zero(t, store.callCount)
}
