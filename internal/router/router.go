// Package router maps view paths to filters and tells the store when the
// active view changes.
package router

import (
	"strings"

	"github.com/idilsaglam/todoclient/internal/model"
)

// Route binds a path to the filter it selects.
type Route struct {
	Path   string
	Filter model.Filter
	Label  string
}

// Routes lists the known views in display order.
var Routes = []Route{
	{Path: "/", Filter: model.FilterAll, Label: "All"},
	{Path: "/incomplete", Filter: model.FilterIncomplete, Label: "Incomplete"},
	{Path: "/completed", Filter: model.FilterCompleted, Label: "Completed"},
}

// Target receives filter-changed notifications.
type Target interface {
	SetFilter(name model.Filter)
	SetEmptyMessage(name model.Filter)
}

// Resolve returns the filter for path. Unknown paths select every todo.
func Resolve(path string) model.Filter {
	p := "/" + strings.Trim(path, "/")
	for _, r := range Routes {
		if r.Path == p {
			return r.Filter
		}
	}
	return model.FilterAll
}

// PathOf returns the route path for a filter.
func PathOf(f model.Filter) string {
	for _, r := range Routes {
		if r.Filter == f {
			return r.Path
		}
	}
	return "/"
}

// Router tracks the current path.
type Router struct {
	target  Target
	current string
}

// New returns a Router notifying target.
func New(target Target) *Router {
	return &Router{target: target, current: "/"}
}

// Navigate switches to path and notifies the target with the resolved filter.
func (r *Router) Navigate(path string) model.Filter {
	f := Resolve(path)
	r.current = PathOf(f)
	r.target.SetFilter(f)
	r.target.SetEmptyMessage(f)
	return f
}

// Current returns the active path.
func (r *Router) Current() string { return r.current }
