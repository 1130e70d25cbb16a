// Package mapping turns map interactions into schedule location text.
package mapping

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ukydev/carcare-booking/internal/models"
)

var (
	// ErrCredentialRequired means the visitor has not supplied a map access
	// credential yet; the client should show the credential entry form.
	ErrCredentialRequired = errors.New("map access credential required")
	ErrEmptyQuery         = errors.New("location search text is empty")
	ErrInvalidCoordinates = errors.New("coordinates out of range")
)

// DefaultCenter is where the map opens: Deira, Dubai.
var DefaultCenter = models.Location{Lat: 25.2697, Lon: 55.2962}

// Selection is a resolved location ready for Schedule.LocationText.
type Selection struct {
	LocationText string           `json:"location_text"`
	Location     *models.Location `json:"location,omitempty"`
}

// Resolver resolves searches and map clicks. It performs no geocoding.
type Resolver struct {
	City string
}

// NewResolver returns a resolver labelling clicks with Dubai.
func NewResolver() *Resolver {
	return &Resolver{City: "Dubai"}
}

// ValidCredential reports whether a credential is usable.
func ValidCredential(credential string) bool {
	return strings.TrimSpace(credential) != ""
}

// ResolveText accepts a free-text search as the location.
func (r *Resolver) ResolveText(credential, query string) (Selection, error) {
	if !ValidCredential(credential) {
		return Selection{}, ErrCredentialRequired
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return Selection{}, ErrEmptyQuery
	}
	return Selection{LocationText: query}, nil
}

// ResolveCoordinates formats a map click as "lat, lon - City".
func (r *Resolver) ResolveCoordinates(credential string, loc models.Location) (Selection, error) {
	if !ValidCredential(credential) {
		return Selection{}, ErrCredentialRequired
	}
	if !loc.Valid() {
		return Selection{}, ErrInvalidCoordinates
	}
	return Selection{
		LocationText: fmt.Sprintf("%s - %s", loc.String(), r.City),
		Location:     &loc,
	}, nil
}
