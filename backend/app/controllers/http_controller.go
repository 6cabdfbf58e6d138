package controllers

import (
	"fmt"
	"net/http"
	"time"

	"user-grid/network"
)

type HTTPController struct {
	version string
	now     func() time.Time
}

func NewHTTPController(version string) *HTTPController {
	return &HTTPController{version: version, now: time.Now}
}

func (c *HTTPController) Health(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, "Server is running", network.HealthInfo{
		Timestamp: c.now().Format(time.RFC3339),
		Version:   c.version,
	})
}

func (c *HTTPController) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "Welcome to Go Server API\n")
	fmt.Fprintf(w, "Available endpoints:\n")
	fmt.Fprintf(w, "GET %s - Health check\n", network.PathHealth)
	fmt.Fprintf(w, "GET %s - Get all users\n", network.PathUsers)
	fmt.Fprintf(w, "GET %s?id=1 - Get user by ID\n", network.PathUser)
	fmt.Fprintf(w, "POST %s - Create new user\n", network.PathCreateUser)
}
