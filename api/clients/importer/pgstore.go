package importer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore is the pgx-backed ClientStore. Ids are generated in Go so the
// line -> client_id linkage survives without RETURNING round trips.
type PgStore struct {
	db *pgxpool.Pool
}

func NewPgStore(db *pgxpool.Pool) *PgStore {
	return &PgStore{db: db}
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// InsertClients stages one batch via COPY. COPY is all-or-nothing per
// call, which gives the committer its batch-granular failure semantics:
// a unique-index hit fails this batch only.
func (s *PgStore) InsertClients(ctx context.Context, ownerID string, batch []CandidateRecord) ([]InsertedClient, error) {
	now := time.Now()
	inserted := make([]InsertedClient, len(batch))
	copyRows := make([][]interface{}, len(batch))
	for i, rec := range batch {
		id := uuid.New().String()
		inserted[i] = InsertedClient{ID: id, Line: rec.Line}
		copyRows[i] = []interface{}{
			id, ownerID, rec.Nome,
			nullable(rec.Email), nullable(rec.Telefone),
			nullable(rec.CpfCnpj), nullable(rec.Endereco),
			now,
		}
	}
	_, err := s.db.CopyFrom(
		ctx,
		pgx.Identifier{"clientes"},
		[]string{"id", "user_id", "nome", "email", "telefone", "cpf_cnpj", "endereco", "created_at"},
		pgx.CopyFromRows(copyRows),
	)
	if err != nil {
		return nil, err
	}
	return inserted, nil
}

// InsertProcesses writes the second-pass process records, referencing
// the client ids generated above.
func (s *PgStore) InsertProcesses(ctx context.Context, ownerID string, batch []ProcessRow) (int, error) {
	now := time.Now()
	copyRows := make([][]interface{}, len(batch))
	for i, p := range batch {
		copyRows[i] = []interface{}{
			uuid.New().String(), ownerID, p.ClientID,
			p.Numero, p.Tipo, "ATIVO", now,
		}
	}
	n, err := s.db.CopyFrom(
		ctx,
		pgx.Identifier{"processos"},
		[]string{"id", "user_id", "cliente_id", "numero", "tipo", "status", "created_at"},
		pgx.CopyFromRows(copyRows),
	)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
