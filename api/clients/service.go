package clients

import (
	"JurisOfficeSaas/internal/serviceiface"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ClientsService struct {
	config map[string]interface{}
	db     *pgxpool.Pool
}

func NewClientsService(cfg map[string]interface{}, db *pgxpool.Pool) serviceiface.Service {
	return &ClientsService{config: cfg, db: db}
}

func (s *ClientsService) Name() string {
	return "clients"
}

func (s *ClientsService) Start() error {
	go StartClientsService(s.db)
	return nil
}

func (s *ClientsService) Stop() error {
	// Implement stop logic if needed
	return nil
}
