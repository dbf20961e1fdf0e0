package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter builds the gateway's route table: auth endpoints served
// locally, domain traffic proxied to the owning service.
func NewRouter() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/auth/login", LoginHandler).Methods("POST")
	router.HandleFunc("/auth/logout", LogoutHandler).Methods("POST")
	router.HandleFunc("/get-sessions", GetSessionsHandler).Methods("GET")

	router.PathPrefix("/clients/").HandlerFunc(createReverseProxy("http://localhost:6143"))
	router.PathPrefix("/billing/").HandlerFunc(createReverseProxy("http://localhost:7143"))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("API Gateway is healthy"))
	}).Methods("GET")

	router.NotFoundHandler = http.HandlerFunc(notFoundHandler)

	return router
}
