package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/dtos"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-utils"
)

const healthTimeout = 3 * time.Second

// Pinger checks the service's backing stores.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	app Pinger
}

func NewHealthController(app Pinger) *HealthController {
	return &HealthController{app}
}

// HealthCheckHandler => GET /health
func (c *HealthController) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()
	if err := c.app.Ping(ctx); err != nil {
		utils.Logger.WithError(err).Error("gatepass-service backing store unreachable")
		utils.RespondErrorWithCode(w, http.StatusServiceUnavailable, utils.ErrCodeInternal, "Backing store unreachable", nil, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.HealthCheckResponse{Status: "OK"})
}
