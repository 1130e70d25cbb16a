package models

import "strings"

// Vehicle is the car a booking is made for.
type Vehicle struct {
	Brand string `bson:"brand" json:"brand"`
	Model string `bson:"model" json:"model"`
	Year  string `bson:"year" json:"year"` // model year, e.g. "2022"
}

// MissingFields lists the required vehicle fields that are blank.
func (v Vehicle) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(v.Brand) == "" {
		missing = append(missing, "brand")
	}
	if strings.TrimSpace(v.Model) == "" {
		missing = append(missing, "model")
	}
	if strings.TrimSpace(v.Year) == "" {
		missing = append(missing, "year")
	}
	return missing
}

// IsComplete reports whether brand, model and year are all set.
func (v Vehicle) IsComplete() bool {
	return len(v.MissingFields()) == 0
}
