package app

import (
	"context"
	"net/http"

	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/unrolled/secure"
)

const RequestIdHeader = "X-Request-Id"

type requestIdKey struct{}

// RequestId returns the id assigned to the request by the middleware, or "".
func RequestId(ctx context.Context) string {
	id, _ := ctx.Value(requestIdKey{}).(string)
	return id
}

// SetupMiddleware wraps the whole router, so unmatched routes and preflight requests
// pass through the middlewares as well.
func SetupMiddleware(r *mux.Router) http.Handler {
	var h http.Handler = r
	h = corsMiddleware()(h)
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(log.StandardLogger()),
		handlers.PrintRecoveryStack(true),
	)(h)
	h = securityHeaders().Handler(h)
	h = accessLogMiddleware(h)
	return requestIdMiddleware(h)
}

// requestIdMiddleware keeps an incoming X-Request-Id or generates a new one.
func requestIdMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id := req.Header.Get(RequestIdHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIdHeader, id)
		next.ServeHTTP(w, req.WithContext(context.WithValue(req.Context(), requestIdKey{}, id)))
	})
}

func accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		metrics := httpsnoop.CaptureMetrics(next, w, req)
		entry := log.WithFields(log.Fields{
			"method":    req.Method,
			"path":      req.URL.Path,
			"status":    metrics.Code,
			"bytes":     metrics.Written,
			"duration":  metrics.Duration.String(),
			"requestId": RequestId(req.Context()),
		})
		if metrics.Code >= http.StatusInternalServerError {
			entry.Warn("request failed")
			return
		}
		entry.Debug("request served")
	})
}

// securityHeaders sets the same response headers helmet's defaults do.
func securityHeaders() *secure.Secure {
	return secure.New(secure.Options{
		CustomFrameOptionsValue:       "SAMEORIGIN",
		ContentTypeNosniff:            true,
		ReferrerPolicy:                "no-referrer",
		CrossOriginOpenerPolicy:       "same-origin",
		CrossOriginResourcePolicy:     "same-origin",
		XDNSPrefetchControl:           "off",
		XPermittedCrossDomainPolicies: "none",
	})
}

func corsMiddleware() func(http.Handler) http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", RequestIdHeader}),
		handlers.ExposedHeaders([]string{RequestIdHeader, "Content-Disposition"}),
		handlers.OptionStatusCode(http.StatusNoContent),
	)
}
