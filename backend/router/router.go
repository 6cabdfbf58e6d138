package router

import (
	"net/http"

	"user-grid/backend/app/controllers"
	"user-grid/backend/app/middleware"
	"user-grid/network"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(httpCtrl *controllers.HTTPController, userCtrl *controllers.UserController) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimw.Recoverer)

	r.Get("/", httpCtrl.Index)
	r.Get(network.PathHealth, httpCtrl.Health)
	r.Get(network.PathUsers, userCtrl.List)
	r.Get(network.PathUser, userCtrl.Get)
	// any method, so the controller can answer 405 itself
	r.HandleFunc(network.PathCreateUser, userCtrl.Create)

	return r
}
