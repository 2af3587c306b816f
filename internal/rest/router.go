package rest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"
)

// Router registers routes on echo and refuses to register the same method and path twice.
type Router struct {
	e *echo.Echo
	// routes maps a normalized key to the route as first registered
	routes map[string]string
}

func NewRouter(e *echo.Echo) *Router {
	return &Router{e: e, routes: make(map[string]string)}
}

func (r *Router) Handle(method, path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) error {
	method = strings.ToUpper(strings.TrimSpace(method))
	route := method + " " + path

	key := routeKey(method, path)
	if existing, ok := r.routes[key]; ok {
		return fmt.Errorf("route %s conflicts with registered route %s", route, existing)
	}

	r.routes[key] = route
	r.e.Add(method, path, h, m...)

	return nil
}

// Routes lists the registered routes as "METHOD path", sorted.
func (r *Router) Routes() []string {
	routes := make([]string, 0, len(r.routes))
	for _, route := range r.routes {
		routes = append(routes, route)
	}
	sort.Strings(routes)
	return routes
}

// routeKey names a route the way echo matches it: parameter and wildcard
// names are dropped, so "/p/:id" and "/p/:pid" collide.
func routeKey(method, path string) string {
	path = strings.TrimSpace(path)
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}

	segments := strings.Split(path, "/")
	for i, segment := range segments {
		switch {
		case strings.HasPrefix(segment, ":"):
			segments[i] = ":"
		case strings.HasPrefix(segment, "*"):
			segments[i] = "*"
		}
	}

	return method + " " + strings.Join(segments, "/")
}
