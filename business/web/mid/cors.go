package mid

import (
	"context"
	"net/http"

	"github.com/ardanlabs/powledger/foundation/web"
)

// Cors lets browser clients of the public API call the node from the listed
// origins. A "*" entry allows every origin. Requests from other origins are
// served without the CORS headers so the browser blocks the response.
func Cors(origins ...string) web.Middleware {
	allowAll := false
	allowed := make(map[string]struct{}, len(origins))
	for _, origin := range origins {
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = struct{}{}
	}

	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			origin := r.Header.Get("Origin")

			switch {
			case allowAll:
				w.Header().Set("Access-Control-Allow-Origin", "*")

			case origin != "":
				w.Header().Add("Vary", "Origin")
				if _, exists := allowed[origin]; !exists {
					return handler(ctx, w, r)
				}
				w.Header().Set("Access-Control-Allow-Origin", origin)

			default:
				return handler(ctx, w, r)
			}

			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")
			w.Header().Set("Access-Control-Max-Age", "86400")

			return handler(ctx, w, r)
		}

		return h
	}

	return m
}
