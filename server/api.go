package server

import (
	"net/http"
	"time"

	"github.com/cyclopcam/www"
	"github.com/go-chi/httprate"
	"github.com/julienschmidt/httprouter"
)

// Router returns the HTTP handler of the API
func (s *Server) Router() http.Handler {
	router := httprouter.New()

	protected := func(method, route string, handle httprouter.Handle) {
		www.Handle(s.Log, router, method, route, handle)
	}

	ratelimited := func(method, route string, handle httprouter.Handle, requestLimit int, windowLength time.Duration) {
		limited := httprate.Limit(requestLimit, windowLength, httprate.WithKeyFuncs(httprate.KeyByIP))
		www.Handle(s.Log, router, method, route, func(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
			limited(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handle(w, r, params)
			})).ServeHTTP(w, r)
		})
	}

	protected("GET", "/api/classes", s.httpClasses)
	protected("GET", "/api/frames", s.httpFrames)
	protected("GET", "/api/record/*id", s.httpRecord)
	// Rendering is far more expensive than the other calls
	ratelimited("GET", "/api/overlay/*id", s.httpOverlay, s.Config.OverlayRateLimit, time.Minute)

	return router
}
