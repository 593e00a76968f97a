package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"libraryapi/internal/httpx"
)

type resource interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

// routes registers every endpoint. Per resource:
//
//	GET    /{res}, /{res}/   list
//	POST   /{res}, /{res}/   create
//	GET    /{res}/{id}       get
//	PUT    /{res}/{id}       update
//	DELETE /{res}/{id}       delete
//
// The middleware chain wraps the router, so 404 and 405 responses are
// logged and rate limited too. Recovery sits inside the access log so a
// recovered panic is logged with the status the client actually got.
func (app *application) routes(ctx context.Context) http.Handler {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(notFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	router.HandleFunc("/", root).Methods(http.MethodGet)
	router.HandleFunc("/healthz", healthz).Methods(http.MethodGet)
	router.HandleFunc("/readyz", app.readyz).Methods(http.MethodGet)

	mountResource(router, "/authors", app.authors)
	mountResource(router, "/books", app.books)
	mountResource(router, "/publishers", app.publishers)

	limiter := httpx.NewRateLimitMiddleware(ctx, app.cfg.HTTP.RateLimitRPS, app.cfg.HTTP.RateLimitBurst, app.cfg.HTTP.TrustedProxies)

	return httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(app.log),
		httpx.RecoveryMiddleware(app.log),
		httpx.SecurityHeadersMiddleware,
		httpx.CORSMiddleware(app.cfg.HTTP.AllowedOrigins),
		limiter.Middleware,
		httpx.RequestSizeLimitMiddleware(app.cfg.HTTP.MaxBodyBytes),
	)
}

func mountResource(router *mux.Router, path string, h resource) {
	for _, p := range []string{path, path + "/"} {
		router.HandleFunc(p, h.List).Methods(http.MethodGet)
		router.HandleFunc(p, h.Create).Methods(http.MethodPost)
	}
	item := path + "/{id}"
	router.HandleFunc(item, h.Get).Methods(http.MethodGet)
	router.HandleFunc(item, h.Update).Methods(http.MethodPut)
	router.HandleFunc(item, h.Delete).Methods(http.MethodDelete)
}

func root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Hello from ROOT!"))
}

func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (app *application) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
	defer cancel()
	if err := app.db.Ping(ctx); err != nil {
		httpx.JSONError(w, http.StatusServiceUnavailable, "db not ready")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func notFound(w http.ResponseWriter, r *http.Request) {
	httpx.JSONError(w, http.StatusNotFound, "the requested resource could not be found")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	httpx.JSONError(w, http.StatusMethodNotAllowed, "the "+r.Method+" method is not supported for this resource")
}
