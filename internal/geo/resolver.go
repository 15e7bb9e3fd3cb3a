package geo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/baxromumarov/civic-reps/internal/observability"
)

const (
	DefaultBaseURL = "http://api.zippopotam.us"
	unknown        = "Unknown"
)

var ErrNoPlaces = errors.New("zip lookup returned no places")

type Location struct {
	City  string
	State string
}

// UnknownLocation is what a failed lookup degrades to.
var UnknownLocation = Location{City: unknown, State: unknown}

func (l Location) Known() bool {
	return l.State != unknown
}

type zipResponse struct {
	PostCode string     `json:"post code"`
	Country  string     `json:"country"`
	Places   []zipPlace `json:"places"`
}

type zipPlace struct {
	PlaceName         string `json:"place name"`
	State             string `json:"state"`
	StateAbbreviation string `json:"state abbreviation"`
}

// Resolver maps US ZIP codes to a city and state through the zippopotam.us API.
type Resolver struct {
	client *resty.Client
}

func NewResolver(baseURL string, timeout time.Duration, userAgent string) *Resolver {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 6 * time.Second
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if userAgent != "" {
		client.SetHeader("User-Agent", userAgent)
	}
	return &Resolver{client: client}
}

// Lookup returns the first place listed for zip.
func (r *Resolver) Lookup(ctx context.Context, zip string) (Location, error) {
	var body zipResponse
	res, err := r.client.R().
		SetContext(ctx).
		SetPathParam("zip", zip).
		SetResult(&body).
		Get("/us/{zip}")
	if err != nil {
		return UnknownLocation, fmt.Errorf("zip lookup failed: %w", err)
	}
	if res.IsError() {
		return UnknownLocation, fmt.Errorf("zip lookup failed: status %d", res.StatusCode())
	}
	if len(body.Places) == 0 {
		return UnknownLocation, ErrNoPlaces
	}

	place := body.Places[0]
	if place.PlaceName == "" || place.StateAbbreviation == "" {
		return UnknownLocation, fmt.Errorf("zip lookup decode failed: incomplete place %+v", place)
	}
	return Location{City: place.PlaceName, State: place.StateAbbreviation}, nil
}

// Resolve never fails: any lookup error is logged and yields UnknownLocation.
func (r *Resolver) Resolve(ctx context.Context, zip string) Location {
	loc, err := r.Lookup(ctx, zip)
	if err != nil {
		observability.IncError(observability.ErrorResolution, "geo")
		slog.Warn("zip lookup failed, using fallback", "zip", zip, "error", err)
		return UnknownLocation
	}
	return loc
}
