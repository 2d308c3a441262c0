package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Capability is a set of operations a resource exposes.
type Capability uint8

const (
	CapList Capability = 1 << iota
	CapCreate
	CapRetrieve
	CapUpdate
	CapDelete
)

// Has reports whether every operation in other is part of c.
func (c Capability) Has(other Capability) bool {
	return c&other == other
}

// Resource describes a REST collection mounted at Path. The operations it
// declares must be backed by the matching handler interface below.
type Resource interface {
	Path() string
	Capabilities() Capability
}

type Lister interface {
	List(c echo.Context) error
}

type Creator interface {
	Create(c echo.Context) error
}

type Retriever interface {
	Retrieve(c echo.Context) error
}

// Updater serves both full (PUT) and partial (PATCH) updates.
type Updater interface {
	Update(c echo.Context) error
	PartialUpdate(c echo.Context) error
}

type Deleter interface {
	Delete(c echo.Context) error
}

type route struct {
	method string
	item   bool
	fn     echo.HandlerFunc
}

// Mount registers the routes of every declared capability of r on g:
//
//	list      GET    /path
//	create    POST   /path
//	retrieve  GET    /path/:id
//	update    PUT    /path/:id, PATCH /path/:id
//	delete    DELETE /path/:id
//
// Operations that are not declared get no route, so the router answers them
// with 404 or 405.
func Mount(g *echo.Group, r Resource, m ...echo.MiddlewareFunc) error {
	caps := r.Capabilities()
	var routes []route

	if caps.Has(CapList) {
		h, ok := r.(Lister)
		if !ok {
			return missing(r, "list")
		}
		routes = append(routes, route{http.MethodGet, false, h.List})
	}
	if caps.Has(CapCreate) {
		h, ok := r.(Creator)
		if !ok {
			return missing(r, "create")
		}
		routes = append(routes, route{http.MethodPost, false, h.Create})
	}
	if caps.Has(CapRetrieve) {
		h, ok := r.(Retriever)
		if !ok {
			return missing(r, "retrieve")
		}
		routes = append(routes, route{http.MethodGet, true, h.Retrieve})
	}
	if caps.Has(CapUpdate) {
		h, ok := r.(Updater)
		if !ok {
			return missing(r, "update")
		}
		routes = append(routes,
			route{http.MethodPut, true, h.Update},
			route{http.MethodPatch, true, h.PartialUpdate},
		)
	}
	if caps.Has(CapDelete) {
		h, ok := r.(Deleter)
		if !ok {
			return missing(r, "delete")
		}
		routes = append(routes, route{http.MethodDelete, true, h.Delete})
	}

	for _, rt := range routes {
		path := r.Path()
		if rt.item {
			path += "/:id"
		}
		g.Add(rt.method, path, rt.fn, m...)
	}
	return nil
}

func missing(r Resource, op string) error {
	return fmt.Errorf("resource %s declares %s but %T does not implement it", r.Path(), op, r)
}
