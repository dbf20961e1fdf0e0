package jobs

import (
	"context"
	"fmt"
	"math"
	"time"

	"JurisOfficeSaas/api/billing/cobranca"
	"JurisOfficeSaas/internal/config"
	"JurisOfficeSaas/internal/logger"
	"JurisOfficeSaas/internal/messaging"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
)

// CobrancaConfig holds configuration for the scheduled reminder run.
type CobrancaConfig struct {
	Schedule  string
	BatchSize int
	TimeZone  string
}

// NewDefaultCobrancaConfig creates a CobrancaConfig with defaults from
// the config package.
func NewDefaultCobrancaConfig() *CobrancaConfig {
	return &CobrancaConfig{
		Schedule:  config.DefaultCobrancaSchedule,
		BatchSize: config.CobrancaBatchSize,
		TimeZone:  config.DefaultTimeZone,
	}
}

// RetryWithBackoff executes a function with exponential backoff retry logic
func RetryWithBackoff(maxRetries int, initialDelay time.Duration, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(math.Pow(2, float64(attempt-1))) * initialDelay
			if logger.GlobalLogger != nil {
				logger.GlobalLogger.LogAudit(fmt.Sprintf("Retrying after %v (attempt %d/%d)", delay, attempt, maxRetries))
			}
			time.Sleep(delay)
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if logger.GlobalLogger != nil {
			logger.GlobalLogger.LogAudit(fmt.Sprintf("Attempt %d failed: %v", attempt+1, lastErr))
		}
	}

	return fmt.Errorf("failed after %d attempts: %v", maxRetries+1, lastErr)
}

// RunCobrancaScheduler starts the cron job that evaluates reminder
// cadence for every owner with pending installments.
func RunCobrancaScheduler(cfg *CobrancaConfig, db *pgxpool.Pool) error {
	if cfg.Schedule == "" {
		cfg.Schedule = config.DefaultCobrancaSchedule
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = config.CobrancaBatchSize
	}
	if cfg.TimeZone == "" {
		cfg.TimeZone = config.DefaultTimeZone
	}

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		loc = time.UTC
	}

	c := cron.New(cron.WithLocation(loc))

	_, err = c.AddFunc(cfg.Schedule, func() {
		if err := ProcessDueCobrancas(db, cfg.BatchSize); err != nil {
			if logger.GlobalLogger != nil {
				logger.GlobalLogger.LogAudit(fmt.Sprintf("Cobranca processor failed: %v", err))
			}
		}
	})

	if err != nil {
		return fmt.Errorf("unable to schedule cobranca processor: %v", err)
	}

	c.Start()
	if logger.GlobalLogger != nil {
		logger.GlobalLogger.LogAudit("Cobranca scheduler started")
	}
	return nil
}

// scanOwners drains the owner id rows. A mid-stream failure is an
// error, not a silently shortened owner list.
func scanOwners(rows pgx.Rows) ([]string, error) {
	defer rows.Close()
	owners := []string{}
	for rows.Next() {
		var owner string
		if err := rows.Scan(&owner); err != nil {
			return nil, err
		}
		owners = append(owners, owner)
	}
	return owners, rows.Err()
}

// capOwners bounds how many owners one run processes; the remainder is
// picked up by the next scheduled run.
func capOwners(owners []string, max int) []string {
	if max > 0 && len(owners) > max {
		return owners[:max]
	}
	return owners
}

// ProcessDueCobrancas runs one evaluation pass: every owner with
// pending installments inside the reminder window gets a bulk run, at
// most maxOwners of them per pass. Owner runs are independent; one
// failing owner never blocks the rest.
func ProcessDueCobrancas(db *pgxpool.Pool, maxOwners int) error {
	gw, err := messaging.NewWhatsAppGatewayFromEnv()
	if err != nil {
		return fmt.Errorf("messaging gateway unavailable: %w", err)
	}

	ctx := context.Background()
	today := time.Now()
	horizon := today.AddDate(0, 0, config.ReminderDaysBefore)

	rows, err := db.Query(ctx, `
		SELECT DISTINCT user_id FROM parcelas
		WHERE status = 'PENDENTE' AND data_vencimento <= $1
	`, horizon)
	if err != nil {
		return fmt.Errorf("failed to list owners with pending installments: %w", err)
	}
	owners, err := scanOwners(rows)
	if err != nil {
		return fmt.Errorf("failed to scan owners with pending installments: %w", err)
	}
	owners = capOwners(owners, maxOwners)

	delay := time.Duration(config.MessageDispatchDelayMs) * time.Millisecond
	for _, owner := range owners {
		ownerID := owner
		err := RetryWithBackoff(config.DefaultGatewayMaxRetries, 2*time.Second, func() error {
			sum, err := cobranca.RunBulkCobranca(ctx, db, gw, ownerID, today, delay)
			if err != nil {
				return err
			}
			if logger.GlobalLogger != nil {
				logger.GlobalLogger.LogAudit(fmt.Sprintf(
					"Cobranca run for user %s: %d sent, %d failed, %d skipped",
					ownerID, sum.SuccessCount, sum.FailureCount, sum.SkippedCount))
			}
			return nil
		})
		if err != nil && logger.GlobalLogger != nil {
			logger.GlobalLogger.LogAudit(fmt.Sprintf("Cobranca run gave up for user %s: %v", ownerID, err))
		}
	}
	return nil
}
