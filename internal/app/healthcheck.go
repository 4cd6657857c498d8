package app

import (
	"net/http"

	"github.com/metinatakli/seating-session/api"
)

func (app *Application) GetHealth(w http.ResponseWriter, r *http.Request) {
	status := "UP"
	systemInfo := api.SystemInfo{
		Version:     version,
		Environment: app.config.Env,
	}

	if app.redis != nil {
		err := app.redis.Ping(r.Context()).Err()
		if err != nil {
			app.logError(r, err)
			status = "DEGRADED"
		}
	}

	resp := api.HealthcheckResponse{
		Status:     status,
		SystemInfo: systemInfo,
	}

	app.writeJSON(w, http.StatusOK, resp, nil)
}
