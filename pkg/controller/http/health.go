package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/ctxlog"

	"github.com/m-mizutani/gemhook/pkg/domain/interfaces"
	"github.com/m-mizutani/gemhook/pkg/domain/model"
	"github.com/m-mizutani/gemhook/pkg/domain/types"
)

// healthHandler reports liveness and whether the secret bundle has loaded
func healthHandler(secrets interfaces.SecretsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := &model.HealthStatus{
			Status:       "healthy",
			Service:      "gemhook",
			Version:      types.Version,
			SecretsReady: secrets != nil && secrets.Ready(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(status); err != nil {
			ctxlog.From(r.Context()).Error("Failed to encode health response", "error", err)
		}
	}
}
