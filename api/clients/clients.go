package clients

import (
	"log"
	"net/http"

	"JurisOfficeSaas/api/clients/clientes"
	"JurisOfficeSaas/internal/config"
	"JurisOfficeSaas/internal/progress"
	"JurisOfficeSaas/internal/storage"

	"github.com/jackc/pgx/v5/pgxpool"
)

func StartClientsService(db *pgxpool.Pool) {
	mux := http.NewServeMux()

	reports := storage.NewReportStoreFromEnv(config.ReportBucket)
	sse := progress.NewSSEServer()

	mux.HandleFunc("/clients/upload", clientes.UploadClientes(db, reports))
	mux.HandleFunc("/clients/import/progress", sse.HandleSSE)

	log.Println("Clients Service started on :6143")
	err := http.ListenAndServe(":6143", mux)
	if err != nil {
		log.Fatalf("Clients Service failed: %v", err)
	}
}
