package routes

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// RouteResolver maps a recorded request to the name of the handler that served it.
//
//go:generate mockgen -source=registry.go -destination=./mocks/registry_mock.go -package=mocks
type RouteResolver interface {
	// ResolveHandler returns the handler name for method and path, false when no route matches.
	// path may be a route template such as /users/{user} or a concrete path such as /users/42.
	ResolveHandler(method, path string) (string, bool)
}

// Definition is one application route known to the dashboard.
type Definition struct {
	Method  string
	Path    string
	Handler string
}

// Registry resolves handlers against a chi routing tree built from route definitions.
type Registry struct {
	mux      *chi.Mux
	handlers map[string]string
}

// NewRegistry builds a Registry. It fails on an unsupported method or a path chi cannot route.
func NewRegistry(definitions []Definition) (registry *Registry, err error) {
	// chi panics on malformed patterns.
	defer func() {
		if r := recover(); r != nil {
			registry, err = nil, fmt.Errorf("invalid route definition: %v", r)
		}
	}()

	mux := chi.NewRouter()
	handlers := make(map[string]string, len(definitions))
	noop := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	for _, d := range definitions {
		method := strings.ToUpper(d.Method)
		mux.Method(method, d.Path, noop)
		handlers[routeKey(method, d.Path)] = d.Handler
	}
	return &Registry{mux: mux, handlers: handlers}, nil
}

func (r *Registry) ResolveHandler(method, path string) (string, bool) {
	method = strings.ToUpper(method)
	if len(r.handlers) == 0 {
		return "", false
	}
	// Exact template match first so a recorded "/users/{user}" resolves without routing.
	if handler, ok := r.handlers[routeKey(method, path)]; ok {
		return handler, true
	}
	if !isRoutableMethod(method) {
		return "", false
	}

	rctx := chi.NewRouteContext()
	if !r.mux.Match(rctx, method, path) {
		return "", false
	}
	handler, ok := r.handlers[routeKey(method, rctx.RoutePattern())]
	return handler, ok
}

func routeKey(method, pattern string) string {
	if pattern != "/" {
		pattern = strings.TrimSuffix(pattern, "/")
	}
	return method + " " + pattern
}

func isRoutableMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch,
		http.MethodDelete, http.MethodOptions, http.MethodConnect, http.MethodTrace:
		return true
	}
	return false
}
