package handler

import (
	"net/http"

	"comptroller/handler/hc"
	"comptroller/handler/render"
	"comptroller/handler/rest"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/twitchtv/twirp"
)

// Server server
type Server struct {
	services rest.Services
	version  string
}

// New new server function
func New(
	services rest.Services,
	version string,
) Server {
	return Server{
		services: services,
		version:  version,
	}
}

// Handler routes /api, /hc and /metrics
func (s Server) Handler() http.Handler {
	mux := chi.NewMux()
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.StripSlashes)
	mux.Use(cors.AllowAll().Handler)

	mux.Mount("/api", s.HandleRestAPI())
	mux.Mount("/hc", hc.Handle(s.version, s.services.Blocks))
	mux.Mount("/metrics", promhttp.Handler())

	return mux
}

// HandleRestAPI handle restful apis
func (s Server) HandleRestAPI() http.Handler {
	r := chi.NewRouter()
	r.Use(render.WrapResponse(render.ResponseErrorMessageAsHint))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.Error(w, twirp.NotFoundError("not found"))
	})

	r.Mount("/", rest.Handle(s.services))

	return r
}
