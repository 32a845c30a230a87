package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration. Routes are served from the root;
// this service exposes a small fixed surface rather than a versioned API.
type Router struct {
	engine     *gin.Engine
	registrars []RouteRegistrar
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine) *Router {
	return &Router{
		engine:     engine,
		registrars: make([]RouteRegistrar, 0),
	}
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	root := r.engine.Group("")
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(root)
	}
}
