// Package catalog holds the read-only reference data the booking flow renders:
// service offerings, vehicle makes and the bookable schedule.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ukydev/carcare-booking/internal/models"
)

var (
	ErrDuplicateService = errors.New("duplicate service id")
	ErrInvalidService   = errors.New("invalid service offering")
)

// Catalog is an immutable set of service offerings.
type Catalog struct {
	offerings []models.ServiceOffering
	byID      map[string]int
}

// CategoryInfo describes a category tab.
type CategoryInfo struct {
	ID       models.Category `json:"id"`
	Name     string          `json:"name"`
	Services int             `json:"services"`
}

// New validates the offerings and builds a catalog from them.
func New(offerings []models.ServiceOffering) (*Catalog, error) {
	c := &Catalog{
		offerings: make([]models.ServiceOffering, 0, len(offerings)),
		byID:      make(map[string]int, len(offerings)),
	}
	for _, o := range offerings {
		if err := validateOffering(o); err != nil {
			return nil, err
		}
		if _, exists := c.byID[o.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateService, o.ID)
		}
		o.Features = append([]string(nil), o.Features...)
		c.byID[o.ID] = len(c.offerings)
		c.offerings = append(c.offerings, o)
	}
	return c, nil
}

func validateOffering(o models.ServiceOffering) error {
	switch {
	case strings.TrimSpace(o.ID) == "":
		return fmt.Errorf("%w: missing id", ErrInvalidService)
	case strings.TrimSpace(o.Title) == "":
		return fmt.Errorf("%w: %s has no title", ErrInvalidService, o.ID)
	case o.UnitPrice.IsNegative():
		return fmt.Errorf("%w: %s has negative price", ErrInvalidService, o.ID)
	case !models.IsValidCategory(o.Category):
		return fmt.Errorf("%w: %s has unknown category %q", ErrInvalidService, o.ID, o.Category)
	}
	return nil
}

// Lookup returns the offering with the given id.
func (c *Catalog) Lookup(id string) (models.ServiceOffering, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.ServiceOffering{}, false
	}
	return c.offerings[i], true
}

// All returns every offering in catalog order.
func (c *Catalog) All() []models.ServiceOffering {
	out := make([]models.ServiceOffering, len(c.offerings))
	copy(out, c.offerings)
	return out
}

// Len returns the number of offerings.
func (c *Catalog) Len() int {
	return len(c.offerings)
}

// ByCategory returns the offerings in one category.
func (c *Catalog) ByCategory(category models.Category) []models.ServiceOffering {
	return c.Search(category, "")
}

// Search filters by category (empty matches all) and a case-insensitive query
// matched against title and description.
func (c *Catalog) Search(category models.Category, query string) []models.ServiceOffering {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []models.ServiceOffering
	for _, o := range c.offerings {
		if category != "" && o.Category != category {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(o.Title), q) &&
			!strings.Contains(strings.ToLower(o.Description), q) {
			continue
		}
		out = append(out, o)
	}
	return out
}

// Categories lists every category with the number of offerings it holds.
func (c *Catalog) Categories() []CategoryInfo {
	counts := make(map[models.Category]int)
	for _, o := range c.offerings {
		counts[o.Category]++
	}
	out := make([]CategoryInfo, 0, len(models.Categories))
	for _, cat := range models.Categories {
		out = append(out, CategoryInfo{ID: cat, Name: cat.DisplayName(), Services: counts[cat]})
	}
	return out
}
