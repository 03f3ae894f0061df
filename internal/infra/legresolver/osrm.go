package legresolver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"stroll/config"
	"stroll/internal/domain/entity"
	"stroll/internal/domain/service"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// OSRMProvider resolves legs through an OSRM-compatible routing server
// using the foot profile.
type OSRMProvider struct {
	baseURL string
	client  *http.Client
}

// NewOSRMProvider creates the provider. The HTTP client carries no
// timeout of its own; the resolver bounds each call through its context.
func NewOSRMProvider(cfg *config.Config) service.LegProvider {
	baseURL := ""
	if cfg.LegResolver != nil {
		baseURL = strings.TrimRight(cfg.LegResolver.BaseURL, "/")
	}

	return &OSRMProvider{
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

type osrmRouteResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		DistanceMeters  float64 `json:"distance"`
		DurationSeconds float64 `json:"duration"`
		Geometry        struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// GetLeg resolves a single leg through the OSRM route endpoint.
func (p *OSRMProvider) GetLeg(ctx context.Context, from, to entity.Location, mode entity.TravelMode) (*entity.RouteLeg, error) {
	if p.baseURL == "" {
		return nil, errors.New("leg provider base URL not configured")
	}

	url := fmt.Sprintf("%s/route/v1/%s/%f,%f;%f,%f?overview=full&geometries=geojson",
		p.baseURL, osrmProfile(mode), from.Lng, from.Lat, to.Lng, to.Lat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create route request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "route request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

		return nil, errors.Errorf("route request returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed osrmRouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.Wrap(err, "decode route response")
	}
	if parsed.Code != "Ok" || len(parsed.Routes) == 0 {
		return nil, errors.Errorf("no route found (code %s)", parsed.Code)
	}

	route := parsed.Routes[0]
	line := make(orb.LineString, 0, len(route.Geometry.Coordinates))
	for _, coord := range route.Geometry.Coordinates {
		if len(coord) >= 2 {
			line = append(line, orb.Point{coord[0], coord[1]})
		}
	}

	return &entity.RouteLeg{
		From:        from,
		To:          to,
		DistanceKm:  route.DistanceMeters / 1000.0,
		DurationMin: route.DurationSeconds / 60.0,
		Mode:        mode,
		Geometry:    line,
	}, nil
}

func osrmProfile(mode entity.TravelMode) string {
	if mode == entity.TravelModeTransit {
		return "driving"
	}

	return "foot"
}
