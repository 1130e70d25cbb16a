package models

import "strings"

// Schedule is the appointment chosen in the location step.
type Schedule struct {
	Date         string `json:"date"`          // YYYY-MM-DD
	Time         string `json:"time"`          // slot label, e.g. "10:00 AM"
	LocationText string `json:"location_text"` // free text or resolved map point
	VehiclePlate string `json:"vehicle_plate"`
}

// MissingFields lists the schedule fields that are blank.
func (s Schedule) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(s.Date) == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(s.Time) == "" {
		missing = append(missing, "time")
	}
	if strings.TrimSpace(s.LocationText) == "" {
		missing = append(missing, "location")
	}
	if strings.TrimSpace(s.VehiclePlate) == "" {
		missing = append(missing, "vehicle_plate")
	}
	return missing
}
