package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterDuplicates(t *testing.T) {
	existing := ExistingKeys{
		Emails:  map[string]struct{}{"dup@ex.com": {}},
		CpfCnpj: map[string]struct{}{"12345678901": {}},
	}
	cands := []CandidateRecord{
		{Line: 2, Nome: "A", Email: "dup@ex.com"},
		{Line: 3, Nome: "B", CpfCnpj: "12345678901"},
		{Line: 4, Nome: "C", Email: "novo@ex.com", CpfCnpj: "98765432109"},
		{Line: 5, Nome: "D"}, // no keys, never skipped
	}

	toInsert, skipped := FilterDuplicates(cands, existing)
	assert.Equal(t, 2, skipped)
	if assert.Len(t, toInsert, 2) {
		assert.Equal(t, 4, toInsert[0].Line)
		assert.Equal(t, 5, toInsert[1].Line)
	}
}

// Running the filter twice against the same inputs must yield the same
// result: the snapshot is never mutated during a run.
func TestFilterDuplicates_Idempotent(t *testing.T) {
	existing := ExistingKeys{
		Emails:  map[string]struct{}{"x@ex.com": {}},
		CpfCnpj: map[string]struct{}{},
	}
	cands := []CandidateRecord{
		{Line: 2, Email: "x@ex.com"},
		{Line: 3, Email: "y@ex.com"},
	}

	first, skipped1 := FilterDuplicates(cands, existing)
	second, skipped2 := FilterDuplicates(cands, existing)
	assert.Equal(t, skipped1, skipped2)
	assert.Equal(t, first, second)
	assert.Len(t, existing.Emails, 1, "snapshot must stay untouched")
}

func TestFilterDuplicates_Empty(t *testing.T) {
	toInsert, skipped := FilterDuplicates(nil, ExistingKeys{
		Emails: map[string]struct{}{}, CpfCnpj: map[string]struct{}{},
	})
	assert.Zero(t, skipped)
	assert.Empty(t, toInsert)
}
