package router

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/justinas/alice"
	"github.com/vfg2006/campaign-sync/pkg/apiErrors"
)

// Route associa método e caminho da API de controle a um handler,
// com middlewares aplicados apenas a ela (o primeiro fica mais externo)
type Route struct {
	Path        string
	Method      string
	Handler     http.Handler
	Middlewares []alice.Constructor
}

type Option func(router *Router)

// WithRoutes registra um grupo de rotas
func WithRoutes(routes ...Route) Option {
	return func(router *Router) {
		router.AddRoutes(routes...)
	}
}

// Router é o httprouter com as respostas de rota inexistente e método
// não suportado no mesmo formato JSON dos demais erros da API
type Router struct {
	mux *httprouter.Router
}

func New(opts ...Option) *Router {
	mux := httprouter.New()
	mux.RedirectTrailingSlash = false
	mux.NotFound = http.HandlerFunc(notFound)
	mux.MethodNotAllowed = http.HandlerFunc(methodNotAllowed)

	router := &Router{mux: mux}
	for _, opt := range opts {
		opt(router)
	}

	return router
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) AddRoutes(routes ...Route) {
	for _, route := range routes {
		r.mux.Handler(route.Method, route.Path, alice.New(route.Middlewares...).Then(route.Handler))
	}
}

func notFound(w http.ResponseWriter, req *http.Request) {
	apiErrors.WriteError(w, apiErrors.ErrRouteNotFound, "Rota não encontrada", map[string]string{
		"method": req.Method,
		"path":   req.URL.Path,
	})
}

// httprouter já preenche o header Allow antes de chamar este handler
func methodNotAllowed(w http.ResponseWriter, req *http.Request) {
	apiErrors.WriteError(w, apiErrors.ErrMethodNotAllowed, "Método não suportado", map[string]string{
		"method": req.Method,
		"path":   req.URL.Path,
		"allow":  w.Header().Get("Allow"),
	})
}
