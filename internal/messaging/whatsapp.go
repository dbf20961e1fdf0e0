package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"JurisOfficeSaas/pkg/loadbalancer"
)

// WhatsAppGateway posts reminder messages to the WhatsApp provider's
// REST endpoint. Multiple provider URLs rotate round-robin.
type WhatsAppGateway struct {
	endpoints *loadbalancer.LoadBalancer
	token     string
	client    *http.Client
}

// NewWhatsAppGatewayFromEnv wires the gateway from WHATSAPP_API_URLS
// (comma separated) and WHATSAPP_API_TOKEN.
func NewWhatsAppGatewayFromEnv() (*WhatsAppGateway, error) {
	raw := os.Getenv("WHATSAPP_API_URLS")
	token := os.Getenv("WHATSAPP_API_TOKEN")
	if raw == "" || token == "" {
		return nil, fmt.Errorf("WHATSAPP_API_URLS and WHATSAPP_API_TOKEN must be set")
	}
	urls := []string{}
	for _, u := range strings.Split(raw, ",") {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, strings.TrimSuffix(u, "/"))
		}
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("no usable URL in WHATSAPP_API_URLS")
	}
	return &WhatsAppGateway{
		endpoints: loadbalancer.NewLoadBalancer(urls),
		token:     token,
		client:    &http.Client{Timeout: 15 * time.Second},
	}, nil
}

type sendRequest struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

type sendResponse struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

func (g *WhatsAppGateway) Send(ctx context.Context, toE164, body string) (Result, error) {
	payload, err := json.Marshal(sendRequest{To: toE164, Body: body})
	if err != nil {
		return Result{Error: err.Error()}, err
	}

	endpoint := g.endpoints.GetNextServer() + "/v1/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return Result{Error: err.Error()}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.token)

	resp, err := g.client.Do(req)
	if err != nil {
		return Result{Error: err.Error()}, err
	}
	defer resp.Body.Close()

	var out sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil && resp.StatusCode < 300 {
		// provider answered 2xx with a body we could not read; treat as sent
		return Result{Success: true}, nil
	}
	if resp.StatusCode >= 300 {
		msg := out.Error
		if msg == "" {
			msg = fmt.Sprintf("provider returned status %d", resp.StatusCode)
		}
		return Result{Error: msg}, fmt.Errorf("whatsapp dispatch failed: %s", msg)
	}
	return Result{Success: true, ProviderMessageID: out.ID}, nil
}
