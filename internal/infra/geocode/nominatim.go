// Package geocode adapts a Nominatim-compatible search endpoint to the
// engine's address resolution port.
package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"stroll/config"
	"stroll/internal/domain/entity"
	"stroll/internal/domain/service"

	"github.com/pkg/errors"
)

const defaultCallTimeout = 2 * time.Second

// NominatimGeocoder resolves free-form addresses to coordinates.
type NominatimGeocoder struct {
	baseURL     string
	callTimeout time.Duration
	client      *http.Client
}

// NewNominatimGeocoder creates the geocoder.
func NewNominatimGeocoder(cfg *config.Config) service.Geocoder {
	geocoder := &NominatimGeocoder{
		callTimeout: defaultCallTimeout,
		client:      &http.Client{},
	}
	if cfg.Geocoder != nil {
		geocoder.baseURL = strings.TrimRight(cfg.Geocoder.BaseURL, "/")
		if cfg.Geocoder.CallTimeout > 0 {
			geocoder.callTimeout = cfg.Geocoder.CallTimeout
		}
	}

	return geocoder
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode resolves an address to a location. Returns
// service.ErrAddressNotResolved when the provider finds no match.
func (g *NominatimGeocoder) Geocode(ctx context.Context, address string) (entity.Location, error) {
	if g.baseURL == "" {
		return entity.Location{}, errors.New("geocoder base URL not configured")
	}

	query := url.Values{}
	query.Set("q", address)
	query.Set("format", "jsonv2")
	query.Set("limit", "1")

	callCtx, cancel := context.WithTimeout(ctx, g.callTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, g.baseURL+"/search?"+query.Encode(), nil)
	if err != nil {
		return entity.Location{}, errors.Wrap(err, "create geocode request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return entity.Location{}, errors.Wrap(err, "geocode request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

		return entity.Location{}, errors.Errorf("geocode request returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return entity.Location{}, errors.Wrap(err, "decode geocode response")
	}
	if len(results) == 0 {
		return entity.Location{}, service.ErrAddressNotResolved
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return entity.Location{}, errors.Wrap(err, "parse geocode latitude")
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return entity.Location{}, errors.Wrap(err, "parse geocode longitude")
	}

	location := entity.Location{Lat: lat, Lng: lng}
	if !location.Valid() {
		return entity.Location{}, service.ErrAddressNotResolved
	}

	return location, nil
}
