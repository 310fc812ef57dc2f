// Package routes holds the dashboard's client-side route table.
package routes

import (
	"fmt"
	"strings"
)

// View names a dashboard page component.
type View string

const (
	ViewHome     View = "HomeView"
	ViewInsights View = "InsightsView"
	ViewParking  View = "ParkingView"
)

// Route maps a path to a named view. Routes take no parameters and have no guards.
type Route struct {
	Path string `json:"path" yaml:"path"`
	Name string `json:"name" yaml:"name"`
	View View   `json:"view" yaml:"view"`
}

// Table is an immutable set of routes.
type Table struct {
	routes []Route
	byPath map[string]Route
}

// Default returns the dashboard's route table.
func Default() *Table {
	t, err := NewTable(
		Route{Path: "/", Name: "Home", View: ViewHome},
		Route{Path: "/insights", Name: "Insights", View: ViewInsights},
		Route{Path: "/parking", Name: "Parking", View: ViewParking},
	)
	if err != nil {
		panic(err)
	}
	return t
}

// NewTable validates routes and builds a table. Paths must be absolute,
// unique once normalized, and free of parameters.
func NewTable(routes ...Route) (*Table, error) {
	t := &Table{
		routes: make([]Route, 0, len(routes)),
		byPath: make(map[string]Route, len(routes)),
	}

	for _, r := range routes {
		if !strings.HasPrefix(r.Path, "/") {
			return nil, fmt.Errorf("route %q: path must start with /", r.Path)
		}
		if strings.ContainsAny(r.Path, ":*?#") {
			return nil, fmt.Errorf("route %q: parameters are not supported", r.Path)
		}
		if r.Name == "" {
			return nil, fmt.Errorf("route %q: name is required", r.Path)
		}

		key := normalize(r.Path)
		if _, dup := t.byPath[key]; dup {
			return nil, fmt.Errorf("route %q: duplicate path", r.Path)
		}

		t.byPath[key] = r
		t.routes = append(t.routes, r)
	}

	return t, nil
}

// Resolve returns the route for path. One trailing slash is ignored
// ("/insights/" resolves like "/insights"); lookups never depend on
// previously resolved paths.
func (t *Table) Resolve(path string) (Route, bool) {
	r, ok := t.byPath[normalize(path)]
	return r, ok
}

// ByName returns the route with the given name.
func (t *Table) ByName(name string) (Route, bool) {
	for _, r := range t.routes {
		if r.Name == name {
			return r, true
		}
	}
	return Route{}, false
}

// Routes returns the routes in declaration order.
func (t *Table) Routes() []Route {
	return append([]Route(nil), t.routes...)
}

func normalize(path string) string {
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		return path[:len(path)-1]
	}
	return path
}
