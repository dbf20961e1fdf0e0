package parcelas

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"JurisOfficeSaas/api/constants"
	"JurisOfficeSaas/internal/validation"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Parcela is one scheduled payment obligation of a client. The link to
// the client is by id, never by display name.
type Parcela struct {
	ID                 string          `json:"id"`
	ClienteID          string          `json:"cliente_id"`
	ClienteNome        string          `json:"cliente_nome"`
	Valor              decimal.Decimal `json:"valor"`
	Tipo               string          `json:"tipo"`
	Status             string          `json:"status"`
	DataVencimento     time.Time       `json:"data_vencimento"`
	DataPagamento      *time.Time      `json:"data_pagamento,omitempty"`
	UltimaCobrancaEm   *time.Time      `json:"ultima_cobranca_em,omitempty"`
	TentativasCobranca int             `json:"tentativas_cobranca"`
}

// FetchPending loads the owner's PENDENTE installments due up to the
// horizon (inclusive), joined to the client for name and phone.
func FetchPending(ctx context.Context, db *pgxpool.Pool, ownerID string, horizon time.Time) ([]Parcela, map[string]string, error) {
	rows, err := db.Query(ctx, `
		SELECT p.id, p.cliente_id, c.nome, p.valor, p.tipo, p.status,
		       p.data_vencimento, p.data_pagamento, p.ultima_cobranca_em,
		       p.tentativas_cobranca, COALESCE(c.telefone, '')
		FROM parcelas p
		JOIN clientes c ON c.id = p.cliente_id
		WHERE p.user_id = $1 AND p.status = 'PENDENTE' AND p.data_vencimento <= $2
		ORDER BY p.data_vencimento
	`, ownerID, horizon)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	out := []Parcela{}
	phones := map[string]string{}
	for rows.Next() {
		var p Parcela
		var phone string
		if err := rows.Scan(&p.ID, &p.ClienteID, &p.ClienteNome, &p.Valor, &p.Tipo, &p.Status,
			&p.DataVencimento, &p.DataPagamento, &p.UltimaCobrancaEm, &p.TentativasCobranca, &phone); err != nil {
			continue
		}
		out = append(out, p)
		if phone != "" {
			phones[p.ClienteID] = phone
		}
	}
	return out, phones, rows.Err()
}

// MarkReminded records a successful dispatch on the installment.
func MarkReminded(ctx context.Context, db *pgxpool.Pool, parcelaID string, sentAt time.Time) error {
	_, err := db.Exec(ctx, `
		UPDATE parcelas
		SET ultima_cobranca_em = $2, tentativas_cobranca = tentativas_cobranca + 1
		WHERE id = $1
	`, parcelaID, sentAt)
	return err
}

// Handler: ListParcelas returns the owner's installments, optionally
// filtered by status.
func ListParcelas(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := validation.ExtractUserID(r)
		if err != nil || validation.ValidateSession(userID) == nil {
			http.Error(w, constants.ErrInvalidSession, http.StatusUnauthorized)
			return
		}

		status := r.URL.Query().Get("status")
		query := `
			SELECT p.id, p.cliente_id, c.nome, p.valor, p.tipo, p.status,
			       p.data_vencimento, p.data_pagamento, p.ultima_cobranca_em, p.tentativas_cobranca
			FROM parcelas p
			JOIN clientes c ON c.id = p.cliente_id
			WHERE p.user_id = $1`
		args := []interface{}{userID}
		if status != "" {
			query += ` AND p.status = $2`
			args = append(args, status)
		}
		query += ` ORDER BY p.data_vencimento`

		rows, err := pgxPool.Query(ctx, query, args...)
		if err != nil {
			http.Error(w, constants.ErrFailedToQuery, http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		out := []Parcela{}
		for rows.Next() {
			var p Parcela
			if err := rows.Scan(&p.ID, &p.ClienteID, &p.ClienteNome, &p.Valor, &p.Tipo, &p.Status,
				&p.DataVencimento, &p.DataPagamento, &p.UltimaCobrancaEm, &p.TentativasCobranca); err == nil {
				out = append(out, p)
			}
		}
		w.Header().Set(constants.ContentTypeText, constants.ContentTypeJSON)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "parcelas": out})
	}
}

// Handler: CreateParcela registers a new installment for a client.
func CreateParcela(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := validation.ExtractUserID(r)
		if err != nil || validation.ValidateSession(userID) == nil {
			http.Error(w, constants.ErrInvalidSession, http.StatusUnauthorized)
			return
		}

		var req struct {
			UserID         string `json:"user_id"`
			ClienteID      string `json:"cliente_id"`
			Valor          string `json:"valor"`
			Tipo           string `json:"tipo"`
			DataVencimento string `json:"data_vencimento"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ClienteID == "" {
			http.Error(w, constants.ErrInvalidJSON, http.StatusBadRequest)
			return
		}
		valor, err := decimal.NewFromString(req.Valor)
		if err != nil || valor.IsNegative() {
			http.Error(w, constants.FormatFieldError("valor", req.Valor), http.StatusBadRequest)
			return
		}
		venc, err := time.Parse(constants.DateFormat, req.DataVencimento)
		if err != nil {
			http.Error(w, constants.FormatFieldError("data_vencimento", req.DataVencimento), http.StatusBadRequest)
			return
		}
		tipo := req.Tipo
		switch tipo {
		case constants.ParcelaTipoEntrada, constants.ParcelaTipoHonorarios, constants.ParcelaTipoTMP:
		default:
			http.Error(w, constants.FormatFieldError("tipo", tipo), http.StatusBadRequest)
			return
		}

		id := uuid.New().String()
		_, err = pgxPool.Exec(ctx, `
			INSERT INTO parcelas (id, user_id, cliente_id, valor, tipo, status, data_vencimento, tentativas_cobranca, created_at)
			VALUES ($1, $2, $3, $4, $5, 'PENDENTE', $6, 0, now())
		`, id, userID, req.ClienteID, valor, tipo, venc)
		if err != nil {
			http.Error(w, constants.ErrDB, http.StatusInternalServerError)
			return
		}
		w.Header().Set(constants.ContentTypeText, constants.ContentTypeJSON)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "id": id, "message": constants.SuccessCreated})
	}
}

// Handler: ConfirmPayment settles an installment. PAGO is terminal for
// the cadence engine; the record itself is never deleted here.
func ConfirmPayment(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := validation.ExtractUserID(r)
		if err != nil || validation.ValidateSession(userID) == nil {
			http.Error(w, constants.ErrInvalidSession, http.StatusUnauthorized)
			return
		}

		var req struct {
			UserID    string `json:"user_id"`
			ParcelaID string `json:"parcela_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ParcelaID == "" {
			http.Error(w, constants.ErrInvalidJSON, http.StatusBadRequest)
			return
		}

		tag, err := pgxPool.Exec(ctx, `
			UPDATE parcelas SET status = 'PAGO', data_pagamento = now()
			WHERE id = $1 AND user_id = $2 AND status = 'PENDENTE'
		`, req.ParcelaID, userID)
		if err != nil {
			http.Error(w, constants.ErrDB, http.StatusInternalServerError)
			return
		}
		if tag.RowsAffected() == 0 {
			http.Error(w, constants.ErrParcelaNotFound, http.StatusNotFound)
			return
		}
		w.Header().Set(constants.ContentTypeText, constants.ContentTypeJSON)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "message": constants.SuccessPayment})
	}
}
