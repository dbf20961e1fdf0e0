package jobs

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOwnerRows implements pgx.Rows over a fixed owner list, optionally
// reporting a deferred stream error after iteration.
type fakeOwnerRows struct {
	owners []string
	idx    int
	err    error
}

func (f *fakeOwnerRows) Close()                                       {}
func (f *fakeOwnerRows) Err() error                                   { return f.err }
func (f *fakeOwnerRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (f *fakeOwnerRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (f *fakeOwnerRows) Values() ([]any, error)                       { return nil, nil }
func (f *fakeOwnerRows) RawValues() [][]byte                          { return nil }
func (f *fakeOwnerRows) Conn() *pgx.Conn                              { return nil }

func (f *fakeOwnerRows) Next() bool {
	if f.idx < len(f.owners) {
		f.idx++
		return true
	}
	return false
}

func (f *fakeOwnerRows) Scan(dest ...any) error {
	*(dest[0].(*string)) = f.owners[f.idx-1]
	return nil
}

func TestScanOwners(t *testing.T) {
	owners, err := scanOwners(&fakeOwnerRows{owners: []string{"a", "b", "c"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, owners)
}

// A query failing mid-stream must surface as an error instead of
// silently shortening the day's owner list.
func TestScanOwners_MidStreamFailure(t *testing.T) {
	_, err := scanOwners(&fakeOwnerRows{owners: []string{"a"}, err: errors.New("connection reset")})
	require.Error(t, err)
}

func TestCapOwners(t *testing.T) {
	owners := []string{"a", "b", "c"}
	assert.Equal(t, []string{"a", "b"}, capOwners(owners, 2))
	assert.Equal(t, owners, capOwners(owners, 3))
	assert.Equal(t, owners, capOwners(owners, 10))
	assert.Equal(t, owners, capOwners(owners, 0), "zero means unbounded")
}

func TestApplyCronOverrides(t *testing.T) {
	cfg := NewDefaultCobrancaConfig()
	applyCronOverrides(cfg, map[string]interface{}{
		"cobranca_schedule":   "30 8 * * *",
		"cobranca_batch_size": 25,
	})
	assert.Equal(t, "30 8 * * *", cfg.Schedule)
	assert.Equal(t, 25, cfg.BatchSize)

	cfg = NewDefaultCobrancaConfig()
	defaults := *cfg
	applyCronOverrides(cfg, nil)
	assert.Equal(t, defaults, *cfg)
}
