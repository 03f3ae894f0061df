package handler

import (
	"log/slog"
	"net/http"
	"time"

	"stroll/internal/delivery/http/response"
	"stroll/internal/domain/entity"
	domainerrors "stroll/internal/domain/errors"
	"stroll/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// ItineraryHandlerParams holds dependencies for ItineraryHandler, injected by Fx.
type ItineraryHandlerParams struct {
	fx.In

	ItineraryUC usecase.ItineraryUsecase
	Logger      *slog.Logger
}

// ItineraryHandler holds dependencies for itinerary planning handlers
type ItineraryHandler struct {
	itineraryUC usecase.ItineraryUsecase
	logger      *slog.Logger
}

// NewItineraryHandler is the constructor for ItineraryHandler
func NewItineraryHandler(params ItineraryHandlerParams) *ItineraryHandler {
	return &ItineraryHandler{
		itineraryUC: params.ItineraryUC,
		logger:      params.Logger,
	}
}

// LocationDTO is a lat/lng pair in a request or response body.
type LocationDTO struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lng float64 `json:"lng" validate:"min=-180,max=180"`
}

// BreakPreferenceDTO carries the break insertion preferences.
type BreakPreferenceDTO struct {
	Enabled            bool     `json:"enabled"`
	IntervalMinutes    int      `json:"interval_minutes" validate:"omitempty,min=20,max=240"`
	HighCoffeeAffinity bool     `json:"high_coffee_affinity"`
	CategoryFilter     []string `json:"category_filter,omitempty"`
	SearchRadiusKm     float64  `json:"search_radius_km" validate:"omitempty,gt=0,max=5"`
}

// PlanItineraryRequest represents the request body for planning an itinerary
type PlanItineraryRequest struct {
	Interests     string              `json:"interests"`
	IntentVector  []float64           `json:"intent_vector,omitempty"`
	Categories    []string            `json:"categories,omitempty"`
	BudgetMinutes int                 `json:"budget_minutes" validate:"required,min=30,max=720"`
	Start         *LocationDTO        `json:"start,omitempty"`
	Address       string              `json:"address,omitempty"`
	SocialMode    string              `json:"social_mode" validate:"required,oneof=solo friends family"`
	Intensity     string              `json:"intensity" validate:"required,oneof=relaxed medium intense"`
	Breaks        *BreakPreferenceDTO `json:"breaks,omitempty"`
	StartTime     string              `json:"start_time,omitempty"`
	TimeZone      string              `json:"time_zone,omitempty"`
}

// StopResponse is one stop on the planned route.
type StopResponse struct {
	Order         int         `json:"order"`
	POIID         string      `json:"poi_id"`
	Name          string      `json:"name"`
	Category      string      `json:"category"`
	Location      LocationDTO `json:"location"`
	ArrivalTime   time.Time   `json:"arrival_time"`
	LeaveTime     time.Time   `json:"leave_time"`
	VisitMinutes  int         `json:"visit_minutes"`
	IsCoffeeBreak bool        `json:"is_coffee_break"`
	IsOpen        bool        `json:"is_open"`
	Rating        float64     `json:"rating"`
	OpeningHours  string      `json:"opening_hours,omitempty"`
	Rationale     string      `json:"rationale,omitempty"`
	Tip           string      `json:"tip,omitempty"`
}

// PlanItineraryResponse represents the planned itinerary returned to the client
type PlanItineraryResponse struct {
	Summary         string            `json:"summary"`
	StartTime       time.Time         `json:"start_time"`
	TotalMinutes    float64           `json:"total_minutes"`
	TotalDistanceKm float64           `json:"total_distance_km"`
	Stops           []StopResponse    `json:"stops"`
	Legs            []entity.RouteLeg `json:"legs"`
	RouteGeometry   orb.LineString    `json:"route_geometry,omitempty"`
	Warnings        []string          `json:"warnings,omitempty"`
}

// PlanItinerary handles POST /itineraries/plan
func (h *ItineraryHandler) PlanItinerary(c echo.Context) error {
	var req PlanItineraryRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid planning request body")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	input, err := toPlanInput(&req)
	if err != nil {
		return h.handleAppError(c, err)
	}

	itinerary, err := h.itineraryUC.PlanItinerary(c.Request().Context(), input)
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toPlanResponse(itinerary), "Itinerary planned successfully")
}

// toPlanInput maps the request body onto the planning input.
func toPlanInput(req *PlanItineraryRequest) (*usecase.PlanItineraryInput, error) {
	input := &usecase.PlanItineraryInput{
		Interests:     req.Interests,
		IntentVector:  req.IntentVector,
		Categories:    req.Categories,
		BudgetMinutes: req.BudgetMinutes,
		Address:       req.Address,
		SocialMode:    entity.SocialMode(req.SocialMode),
		Intensity:     entity.Intensity(req.Intensity),
		TimeZone:      req.TimeZone,
	}

	if req.Start != nil {
		input.Start = &entity.Location{Lat: req.Start.Lat, Lng: req.Start.Lng}
	}

	if req.Breaks != nil {
		input.Breaks = entity.BreakPreference{
			Enabled:            req.Breaks.Enabled,
			IntervalMinutes:    req.Breaks.IntervalMinutes,
			HighCoffeeAffinity: req.Breaks.HighCoffeeAffinity,
			CategoryFilter:     req.Breaks.CategoryFilter,
			SearchRadiusKm:     req.Breaks.SearchRadiusKm,
		}
	}

	if req.StartTime != "" {
		startTime, err := time.Parse(time.RFC3339, req.StartTime)
		if err != nil {
			return nil, domainerrors.ErrInputValidation.WithDetails("start_time must be RFC 3339: " + req.StartTime)
		}
		input.StartTime = startTime
	}

	return input, nil
}

// toPlanResponse shapes the assembled itinerary for the wire.
func toPlanResponse(itinerary *entity.Itinerary) *PlanItineraryResponse {
	stops := make([]StopResponse, 0, len(itinerary.Stops))
	for _, stop := range itinerary.Stops {
		stops = append(stops, StopResponse{
			Order:         stop.Order,
			POIID:         stop.POI.ID,
			Name:          stop.POI.Name,
			Category:      stop.POI.Category,
			Location:      LocationDTO{Lat: stop.POI.Location.Lat, Lng: stop.POI.Location.Lng},
			ArrivalTime:   stop.ArrivalTime,
			LeaveTime:     stop.LeaveTime,
			VisitMinutes:  stop.VisitMinutes,
			IsCoffeeBreak: stop.IsCoffeeBreak,
			IsOpen:        stop.IsOpen,
			Rating:        stop.POI.Rating,
			OpeningHours:  stop.POI.Hours.Text,
			Rationale:     stop.Rationale,
			Tip:           stop.Tip,
		})
	}

	return &PlanItineraryResponse{
		Summary:         itinerary.Summary,
		StartTime:       itinerary.StartTime,
		TotalMinutes:    itinerary.TotalMinutes,
		TotalDistanceKm: itinerary.TotalDistanceKm,
		Stops:           stops,
		Legs:            itinerary.Legs,
		RouteGeometry:   itinerary.RouteGeometry(),
		Warnings:        itinerary.Warnings,
	}
}

// handleAppError handles application errors
func (h *ItineraryHandler) handleAppError(c echo.Context, err error) error {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return response.Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), appErr.Details())
	}

	return errors.WithStack(err)
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
