package clientes

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"JurisOfficeSaas/api/clients/importer"
)

type stubStore struct {
	clientCalls  int
	processCalls int
}

func (s *stubStore) InsertClients(_ context.Context, _ string, batch []importer.CandidateRecord) ([]importer.InsertedClient, error) {
	s.clientCalls++
	out := make([]importer.InsertedClient, 0, len(batch))
	for _, rec := range batch {
		out = append(out, importer.InsertedClient{ID: fmt.Sprintf("id-%d", rec.Line), Line: rec.Line})
	}
	return out, nil
}

func (s *stubStore) InsertProcesses(_ context.Context, _ string, batch []importer.ProcessRow) (int, error) {
	s.processCalls++
	return len(batch), nil
}

func keysWith(emails ...string) importer.ExistingKeys {
	keys := importer.ExistingKeys{
		Emails:  map[string]struct{}{},
		CpfCnpj: map[string]struct{}{},
	}
	for _, e := range emails {
		keys.Emails[e] = struct{}{}
	}
	return keys
}

// Without the dedup snapshot the duplicate-skip guarantee cannot hold,
// so the run aborts before anything reaches the store.
func TestRunImport_DedupSnapshotFailureIsFatal(t *testing.T) {
	store := &stubStore{}
	deps := importDeps{
		fetchKeys: func(context.Context, string) (importer.ExistingKeys, error) {
			return importer.ExistingKeys{}, errors.New("connection refused")
		},
		store: store,
	}
	records := [][]string{
		{"nome", "email"},
		{"Ana", "ana@ex.com"},
	}

	_, err := runImport(context.Background(), deps, "user-1", "clientes.xlsx", records)
	require.Error(t, err)
	assert.Zero(t, store.clientCalls, "no commit may happen without the snapshot")
}

func TestRunImport_Counts(t *testing.T) {
	store := &stubStore{}
	deps := importDeps{
		fetchKeys: func(context.Context, string) (importer.ExistingKeys, error) {
			return keysWith("dup@ex.com"), nil
		},
		store: store,
	}
	records := [][]string{
		{"nome", "email"},
		{"Ana", "ana@ex.com"},
		{"Beto", "not-an-email"},
		{"Caio", "dup@ex.com"},
	}

	result, err := runImport(context.Background(), deps, "user-1", "clientes.csv", records)
	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalRows)
	assert.Equal(t, 2, result.ValidRows)
	assert.Equal(t, 1, result.InvalidRows)
	assert.Equal(t, 1, result.DuplicatesSkipped)
	assert.Equal(t, 1, result.ImportedRows)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Errors[0].Line)
}
