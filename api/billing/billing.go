package billing

import (
	"log"
	"net/http"

	"JurisOfficeSaas/api/billing/cobranca"
	"JurisOfficeSaas/api/billing/parcelas"
	"JurisOfficeSaas/internal/messaging"

	"github.com/jackc/pgx/v5/pgxpool"
)

func StartBillingService(db *pgxpool.Pool) {
	mux := http.NewServeMux()

	var gw messaging.Gateway
	if g, err := messaging.NewWhatsAppGatewayFromEnv(); err != nil {
		log.Printf("Billing Service: messaging gateway not configured: %v", err)
	} else {
		gw = g
	}

	mux.HandleFunc("/billing/parcelas", parcelas.ListParcelas(db))
	mux.HandleFunc("/billing/parcelas/create", parcelas.CreateParcela(db))
	mux.HandleFunc("/billing/parcelas/pay", parcelas.ConfirmPayment(db))
	mux.HandleFunc("/billing/cobranca/send", cobranca.SendCobranca(db, gw))
	mux.HandleFunc("/billing/cobranca/bulk", cobranca.BulkSendCobranca(db, gw))

	log.Println("Billing Service started on :7143")
	err := http.ListenAndServe(":7143", mux)
	if err != nil {
		log.Fatalf("Billing Service failed: %v", err)
	}
}
