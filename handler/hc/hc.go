package hc

import (
	"net/http"
	"time"

	"comptroller/core"
	"comptroller/handler/render"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
)

// Handle reports uptime, version and the block the clock is at
func Handle(version string, blocks core.IBlockService) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.NoCache)
	r.Handle("/", handle(version, blocks))
	return r
}

func handle(version string, blocks core.IBlockService) http.HandlerFunc {
	started := time.Now()
	return func(w http.ResponseWriter, r *http.Request) {
		block, err := blocks.CurrentBlock(r.Context())
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{
			"uptime":  time.Since(started).Truncate(time.Millisecond).String(),
			"version": version,
			"block":   block,
		})
	}
}
