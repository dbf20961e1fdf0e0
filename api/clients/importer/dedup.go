package importer

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// FetchExistingKeys loads the dedup snapshot (emails and tax ids of the
// owner's persisted clients) in a single query. The snapshot is a
// point-in-time read; the unique indexes on clientes close the window
// against concurrent imports.
func FetchExistingKeys(ctx context.Context, db *pgxpool.Pool, ownerID string) (ExistingKeys, error) {
	keys := ExistingKeys{
		Emails:  make(map[string]struct{}),
		CpfCnpj: make(map[string]struct{}),
	}
	rows, err := db.Query(ctx, `SELECT COALESCE(email, ''), COALESCE(cpf_cnpj, '') FROM clientes WHERE user_id = $1`, ownerID)
	if err != nil {
		return keys, fmt.Errorf("failed to fetch existing clients: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var email, doc string
		if err := rows.Scan(&email, &doc); err != nil {
			continue
		}
		if email != "" {
			keys.Emails[email] = struct{}{}
		}
		if doc != "" {
			keys.CpfCnpj[doc] = struct{}{}
		}
	}
	return keys, rows.Err()
}

// FilterDuplicates drops candidates whose email or tax id already
// exists for the owner. Candidates with neither key are never skipped.
// Pure function of its inputs.
func FilterDuplicates(cands []CandidateRecord, existing ExistingKeys) (toInsert []CandidateRecord, skipped int) {
	toInsert = make([]CandidateRecord, 0, len(cands))
	for _, c := range cands {
		if c.Email != "" {
			if _, dup := existing.Emails[c.Email]; dup {
				skipped++
				continue
			}
		}
		if c.CpfCnpj != "" {
			if _, dup := existing.CpfCnpj[c.CpfCnpj]; dup {
				skipped++
				continue
			}
		}
		toInsert = append(toInsert, c)
	}
	return toInsert, skipped
}
