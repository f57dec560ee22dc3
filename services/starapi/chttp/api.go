package chttp

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	starCtx "github.com/projectroom119/Quizzy-TG-Mini-App/services/starapi/context"
)

// API presents the star ledger functionality over HTTP
type API struct {
	apiCtx starCtx.StarAPIContext
	router *mux.Router
}

// NewAPI creates an `API` struct from an API context
func NewAPI(apiCtx starCtx.StarAPIContext) *API {
	a := API{apiCtx: apiCtx, router: mux.NewRouter()}
	return &a
}

// Subrouter returns a mux subrouter.
func (a *API) Subrouter(path string) *mux.Router {
	return a.router.PathPrefix(path).Subrouter()
}

// Use registers a middleware on the API router
func (a *API) Use(mw func(http.Handler) http.Handler) {
	a.router.Use(mw)
}

// Router returns the underlying mux router
func (a *API) Router() *mux.Router {
	return a.router
}

// ListenAndServe serves HTTP using the API router
func (a *API) ListenAndServe(addr string) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      a.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	return server.ListenAndServe()
}
