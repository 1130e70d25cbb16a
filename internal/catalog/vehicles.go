package catalog

import (
	"strconv"
	"time"
)

// Brand is a car make offered in the vehicle picker.
type Brand struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Models []string `json:"models"`
}

// modelYearSpan is how many model years the picker offers.
const modelYearSpan = 25

var brandModels = map[string][]string{
	"audi":     {"A3", "A4", "A6", "A8", "Q3", "Q5", "Q7", "Q8"},
	"bmw":      {"1 Series", "3 Series", "5 Series", "7 Series", "X1", "X3", "X5", "X7"},
	"ford":     {"Explorer", "F-150", "Mustang", "Edge", "Escape"},
	"honda":    {"Civic", "Accord", "CR-V", "Pilot", "Odyssey"},
	"toyota":   {"Camry", "Corolla", "RAV4", "Highlander", "Prius"},
	"mercedes": {"C-Class", "E-Class", "S-Class", "GLC", "GLE", "GLS"},
}

var brands = []Brand{
	{ID: "audi", Name: "Audi"},
	{ID: "bmw", Name: "BMW"},
	{ID: "ford", Name: "Ford"},
	{ID: "gmc", Name: "GMC"},
	{ID: "honda", Name: "Honda"},
	{ID: "hyundai", Name: "Hyundai"},
	{ID: "infiniti", Name: "Infiniti"},
	{ID: "land-rover", Name: "Land Rover"},
	{ID: "lexus", Name: "Lexus"},
	{ID: "mercedes", Name: "Mercedes-Benz"},
	{ID: "nissan", Name: "Nissan"},
	{ID: "porsche", Name: "Porsche"},
	{ID: "toyota", Name: "Toyota"},
	{ID: "volkswagen", Name: "Volkswagen"},
}

// Brands returns the car makes with their known models.
// Brands without a model list get an empty slice.
func Brands() []Brand {
	out := make([]Brand, len(brands))
	for i, b := range brands {
		b.Models = append([]string{}, brandModels[b.ID]...)
		out[i] = b
	}
	return out
}

// BrandName maps a brand id to its display name.
func BrandName(id string) (string, bool) {
	for _, b := range brands {
		if b.ID == id {
			return b.Name, true
		}
	}
	return "", false
}

// ModelYears returns model years newest first, counting back from now's year.
func ModelYears(now time.Time) []string {
	years := make([]string, modelYearSpan)
	for i := range years {
		years[i] = strconv.Itoa(now.Year() - i)
	}
	return years
}
