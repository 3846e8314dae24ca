package main

import "net/http"

// healthCheckHandler reports liveness in the platform's envelope shape so
// uptime probes and API consumers read the same contract.
func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	env := envelope{
		"success": true,
		"status":  "available",
		"system_info": map[string]string{
			"service":     "inkwell",
			"environment": app.config.Environment,
			"version":     app.config.Version,
		},
	}

	err := app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
