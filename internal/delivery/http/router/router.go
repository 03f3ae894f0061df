// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"stroll/internal/delivery/http/middleware"
	"stroll/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	ItineraryHandler *handler.ItineraryHandler
	LoggerMiddleware *middleware.LoggerMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	itineraryHandler *handler.ItineraryHandler
	loggerMiddleware *middleware.LoggerMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		itineraryHandler: params.ItineraryHandler,
		loggerMiddleware: params.LoggerMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Planning routes
	itineraryGroup := e.Group("/itineraries")
	itineraryGroup.Use(r.loggerMiddleware.Handle)
	{
		itineraryGroup.POST("/plan", r.itineraryHandler.PlanItinerary)
	}
}
