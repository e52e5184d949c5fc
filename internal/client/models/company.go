package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Point is a map location. X is the longitude and Y the latitude.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// IsZero reports whether the point was never picked.
func (p Point) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

// String renders the point the way the backend accepts it on writes: "(x, y)".
func (p Point) String() string {
	return "(" + strconv.FormatFloat(p.X, 'f', -1, 64) + ", " + strconv.FormatFloat(p.Y, 'f', -1, 64) + ")"
}

// ParsePoint is the inverse of String.
func ParsePoint(s string) (Point, error) {
	var p Point
	if _, err := fmt.Sscanf(s, "(%g, %g)", &p.X, &p.Y); err != nil {
		return Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return p, nil
}

// Company is a company record as returned by the backend.
type Company struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Service  string  `json:"service,omitempty"`
	Capital  float64 `json:"capital,omitempty"`
	LogoURL  string  `json:"logoUrl,omitempty"`
	Location *Point  `json:"location,omitempty"`
	Owner    *Owner  `json:"owner,omitempty"`
}

// CompanyInput is the body of company create and update requests.
type CompanyInput struct {
	Name     string  `json:"name" validate:"required,max=255"`
	Service  string  `json:"service" validate:"max=255"`
	Capital  float64 `json:"capital" validate:"gte=0"`
	Location Point   `json:"-"`
}

func (c CompanyInput) MarshalJSON() ([]byte, error) {
	type wire struct {
		Name     string  `json:"name"`
		Service  string  `json:"service"`
		Capital  float64 `json:"capital"`
		Location string  `json:"location"`
	}
	return json.Marshal(wire{
		Name:     c.Name,
		Service:  c.Service,
		Capital:  c.Capital,
		Location: c.Location.String(),
	})
}
