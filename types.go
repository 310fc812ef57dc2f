package parkinsights

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/OrlandoBitencourt/parkinsights/internal/backend"
)

// Response is the raw backend response. The client never decodes or
// alters it; use DecodeJSON when a typed view is wanted.
type Response struct {
	// Method and URL describe the request that produced this response.
	Method string
	URL    string

	StatusCode int
	Header     http.Header
	Body       []byte
}

// DecodeJSON unmarshals the body into v.
func (r *Response) DecodeJSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", r.URL, err)
	}
	return nil
}

// ParkingPayload is the zone listing the parking API returns.
type ParkingPayload struct {
	Results []ParkingZone `json:"results"`
}

// ParkingZone is one on-street parking zone with its live availability.
// Nullable backend columns are pointers.
type ParkingZone struct {
	ZoneNumber     string     `json:"zone_number"`
	Street         *string    `json:"street"`
	Coords         Coords     `json:"coords"`
	TotalSpots     *int       `json:"total_spots"`
	AvailableSpots *int       `json:"available_spots"`
	LatestUpdate   *time.Time `json:"latest_update"`
}

// Coords is a WGS84 position; either part may be unknown.
type Coords struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

// StreetName returns the street or "" when unknown.
func (z ParkingZone) StreetName() string {
	if z.Street == nil {
		return ""
	}
	return *z.Street
}

// OccupancyRate returns the occupied share of the zone's spots in [0,1].
// ok is false when either count is unknown or the zone has no spots.
func (z ParkingZone) OccupancyRate() (rate float64, ok bool) {
	if z.TotalSpots == nil || z.AvailableSpots == nil || *z.TotalSpots <= 0 {
		return 0, false
	}
	occupied := *z.TotalSpots - *z.AvailableSpots
	if occupied < 0 {
		occupied = 0
	}
	return float64(occupied) / float64(*z.TotalSpots), true
}

func toResponse(r *backend.Response) *Response {
	return &Response{
		Method:     r.Method,
		URL:        r.URL,
		StatusCode: r.StatusCode,
		Header:     r.Header,
		Body:       r.Body,
	}
}
