package jobs

import (
	"fmt"
	"log"

	"JurisOfficeSaas/internal/logger"
	"JurisOfficeSaas/internal/serviceiface"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CronService struct {
	config map[string]interface{}
	db     *pgxpool.Pool
}

func NewCronService(cfg map[string]interface{}, db *pgxpool.Pool) serviceiface.Service {
	return &CronService{
		config: cfg,
		db:     db,
	}
}

func (s *CronService) Name() string {
	return "cron"
}

// applyCronOverrides folds the services.yaml config map into the
// cobranca defaults.
func applyCronOverrides(cfg *CobrancaConfig, m map[string]interface{}) {
	if m == nil {
		return
	}
	if schedule, ok := m["cobranca_schedule"].(string); ok && schedule != "" {
		cfg.Schedule = schedule
	}
	if batchSize, ok := m["cobranca_batch_size"].(int); ok && batchSize > 0 {
		cfg.BatchSize = batchSize
	}
}

func (s *CronService) Start() error {
	log.Println("Starting cron service...")

	cobrancaConfig := NewDefaultCobrancaConfig()
	applyCronOverrides(cobrancaConfig, s.config)

	err := RunCobrancaScheduler(cobrancaConfig, s.db)
	if err != nil {
		return fmt.Errorf("failed to start cobranca scheduler: %v", err)
	}

	if logger.GlobalLogger != nil {
		logger.GlobalLogger.LogAudit("Cobranca scheduler started")
	}
	log.Println("Cron service started — Cobranca Scheduler scheduled")

	return nil
}

func (s *CronService) Stop() error {
	// The cron entries are managed internally by RunCobrancaScheduler
	log.Println("Cron service stopped.")
	return nil
}
