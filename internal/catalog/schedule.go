package catalog

import "time"

// bookingWindowDays is how far ahead appointments can be booked.
const bookingWindowDays = 14

// DateOption is a selectable appointment date.
type DateOption struct {
	Value string `json:"value"` // YYYY-MM-DD
	Label string `json:"label"` // Monday, January 2
}

var timeSlots = []string{
	"09:00 AM", "10:00 AM", "11:00 AM", "12:00 PM",
	"01:00 PM", "02:00 PM", "03:00 PM", "04:00 PM",
	"05:00 PM", "06:00 PM", "07:00 PM",
}

var popularLocations = []string{
	"Muteena - Dubai - United Arab Emirates",
	"Dubai Marina - Dubai",
	"Downtown Dubai - Dubai",
	"Jumeirah Beach Residence - Dubai",
	"Business Bay - Dubai",
	"Deira - Dubai",
	"Bur Dubai - Dubai",
	"Al Barsha - Dubai",
}

// TimeSlots returns the bookable time slot labels.
func TimeSlots() []string {
	return append([]string(nil), timeSlots...)
}

// PopularLocations returns the suggested service areas.
func PopularLocations() []string {
	return append([]string(nil), popularLocations...)
}

// BookableDates returns the next bookingWindowDays days, starting tomorrow.
func BookableDates(now time.Time) []DateOption {
	out := make([]DateOption, 0, bookingWindowDays)
	for i := 1; i <= bookingWindowDays; i++ {
		d := now.AddDate(0, 0, i)
		out = append(out, DateOption{
			Value: d.Format("2006-01-02"),
			Label: d.Format("Monday, January 2"),
		})
	}
	return out
}
