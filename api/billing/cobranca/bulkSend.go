package cobranca

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"JurisOfficeSaas/api/billing/parcelas"
	"JurisOfficeSaas/api/constants"
	"JurisOfficeSaas/internal/config"
	"JurisOfficeSaas/internal/logger"
	"JurisOfficeSaas/internal/messaging"
	"JurisOfficeSaas/internal/validation"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Summary aggregates one bulk dispatch run. Failures never update the
// installment, so the next evaluation retries them naturally.
type Summary struct {
	SuccessCount int `json:"success_count"`
	FailureCount int `json:"failure_count"`
	SkippedCount int `json:"skipped_count"`
}

// RunBulkCobranca evaluates the owner's pending installments due within
// the reminder window or overdue, resolves phones in the same pass, and
// dispatches sequentially with a fixed delay between messages to stay
// under the provider's rate limits.
func RunBulkCobranca(ctx context.Context, db *pgxpool.Pool, gw messaging.Gateway, ownerID string, today time.Time, delay time.Duration) (Summary, error) {
	var sum Summary

	horizon := today.AddDate(0, 0, config.ReminderDaysBefore)
	snapshot, phones, err := parcelas.FetchPending(ctx, db, ownerID, horizon)
	if err != nil {
		return sum, fmt.Errorf("failed to load pending installments: %w", err)
	}

	due := parcelas.DueReminders(snapshot, today)
	for i, rem := range due {
		phone, ok := phones[rem.Parcela.ClienteID]
		if !ok {
			sum.SkippedCount++
			continue
		}
		if i > 0 && delay > 0 {
			time.Sleep(delay)
		}

		res, err := gw.Send(ctx, messaging.ToE164(phone), rem.Body)
		if err != nil || !res.Success {
			sum.FailureCount++
			if logger.GlobalLogger != nil {
				logger.GlobalLogger.LogAudit(fmt.Sprintf("Cobranca dispatch failed for parcela %s: %v", rem.Parcela.ID, err))
			}
			continue
		}

		if err := parcelas.MarkReminded(ctx, db, rem.Parcela.ID, time.Now()); err != nil {
			// message went out; only the bookkeeping failed
			if logger.GlobalLogger != nil {
				logger.GlobalLogger.LogAudit(fmt.Sprintf("Failed to record reminder on parcela %s: %v", rem.Parcela.ID, err))
			}
		}
		sum.SuccessCount++
	}
	return sum, nil
}

// Handler: BulkSendCobranca runs the bulk flow for the calling user.
func BulkSendCobranca(pgxPool *pgxpool.Pool, gw messaging.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := validation.ExtractUserID(r)
		if err != nil || validation.ValidateSession(userID) == nil {
			http.Error(w, constants.ErrInvalidSession, http.StatusUnauthorized)
			return
		}
		if gw == nil {
			http.Error(w, constants.ErrGatewayUnavailable, http.StatusServiceUnavailable)
			return
		}

		sum, err := RunBulkCobranca(ctx, pgxPool, gw, userID, time.Now(),
			time.Duration(config.MessageDispatchDelayMs)*time.Millisecond)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set(constants.ContentTypeText, constants.ContentTypeJSON)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "summary": sum})
	}
}

// Handler: SendCobranca dispatches one reminder for a single
// installment, applying the same cadence rule as the bulk flow.
func SendCobranca(pgxPool *pgxpool.Pool, gw messaging.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := validation.ExtractUserID(r)
		if err != nil || validation.ValidateSession(userID) == nil {
			http.Error(w, constants.ErrInvalidSession, http.StatusUnauthorized)
			return
		}
		if gw == nil {
			http.Error(w, constants.ErrGatewayUnavailable, http.StatusServiceUnavailable)
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

		var p parcelas.Parcela
		var phone string
		err = pgxPool.QueryRow(ctx, `
			SELECT p.id, p.cliente_id, c.nome, p.valor, p.tipo, p.status,
			       p.data_vencimento, p.tentativas_cobranca, COALESCE(c.telefone, '')
			FROM parcelas p
			JOIN clientes c ON c.id = p.cliente_id
			WHERE p.id = $1 AND p.user_id = $2
		`, req.ParcelaID, userID).Scan(&p.ID, &p.ClienteID, &p.ClienteNome, &p.Valor, &p.Tipo,
			&p.Status, &p.DataVencimento, &p.TentativasCobranca, &phone)
		if err != nil {
			http.Error(w, constants.ErrParcelaNotFound, http.StatusNotFound)
			return
		}
		if p.Status == constants.ParcelaStatusPago {
			http.Error(w, constants.ErrParcelaAlreadyPaid, http.StatusConflict)
			return
		}
		if phone == "" {
			http.Error(w, constants.ErrNoPhoneOnFile, http.StatusUnprocessableEntity)
			return
		}

		// Same cadence gate as the bulk flow: no dispatch outside the
		// reminder days.
		today := time.Now()
		due := parcelas.DueReminders([]parcelas.Parcela{p}, today)
		if len(due) == 0 {
			http.Error(w, constants.ErrParcelaNotDue, http.StatusConflict)
			return
		}
		res, err := gw.Send(ctx, messaging.ToE164(phone), due[0].Body)
		if err != nil || !res.Success {
			http.Error(w, constants.FormatError(constants.ErrDispatchFailed, res.Error), http.StatusBadGateway)
			return
		}
		if err := parcelas.MarkReminded(ctx, pgxPool, p.ID, time.Now()); err != nil {
			if logger.GlobalLogger != nil {
				logger.GlobalLogger.LogAudit(fmt.Sprintf("Failed to record reminder on parcela %s: %v", p.ID, err))
			}
		}
		w.Header().Set(constants.ContentTypeText, constants.ContentTypeJSON)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "provider_message_id": res.ProviderMessageID})
	}
}
