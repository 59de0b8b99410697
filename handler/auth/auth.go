package auth

import (
	"net/http"
	"strings"

	"comptroller/handler/render"
	"comptroller/handler/request"

	"github.com/fox-one/pkg/logger"
	"github.com/twitchtv/twirp"
)

// HeaderCaller carries the account authenticated by the gateway in front
// of the api
const HeaderCaller = "X-Comptroller-Account"

// HandleAuthentication binds the caller account to the request context
func HandleAuthentication() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			caller := strings.TrimSpace(r.Header.Get(HeaderCaller))
			if caller == "" {
				next.ServeHTTP(w, r)
				return
			}

			logger.FromContext(ctx).WithField("caller", caller).Debugln("authenticated")
			next.ServeHTTP(w, r.WithContext(request.NewContext(ctx).WithCaller(caller)))
		}

		return http.HandlerFunc(fn)
	}
}

// HandleAuthenticated rejects requests without a caller
func HandleAuthenticated() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			if _, ok := request.NewContext(r.Context()).GetCaller(); !ok {
				render.Error(w, twirp.NewError(twirp.Unauthenticated, "authentication required"))
				return
			}

			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(fn)
	}
}
