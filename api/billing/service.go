package billing

import (
	"JurisOfficeSaas/internal/serviceiface"

	"github.com/jackc/pgx/v5/pgxpool"
)

type BillingService struct {
	config map[string]interface{}
	db     *pgxpool.Pool
}

func NewBillingService(cfg map[string]interface{}, db *pgxpool.Pool) serviceiface.Service {
	return &BillingService{config: cfg, db: db}
}

func (s *BillingService) Name() string {
	return "billing"
}

func (s *BillingService) Start() error {
	go StartBillingService(s.db)
	return nil
}

func (s *BillingService) Stop() error {
	// Implement stop logic if needed
	return nil
}
