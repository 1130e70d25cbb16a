package booking

// Step is a wizard state. The numeric values are part of the API.
type Step int

const (
	StepLanding Step = iota
	StepVehicle
	StepServices
	StepSchedule
	StepCheckout
)

// lastStep is the final interactive step; completing it ends the booking.
const lastStep = StepCheckout

func (s Step) String() string {
	switch s {
	case StepLanding:
		return "landing"
	case StepVehicle:
		return "vehicle-selection"
	case StepServices:
		return "service-selection"
	case StepSchedule:
		return "schedule-selection"
	case StepCheckout:
		return "checkout"
	default:
		return "unknown"
	}
}

// Title is the label shown in the step indicator.
func (s Step) Title() string {
	switch s {
	case StepVehicle:
		return "Select Car"
	case StepServices:
		return "Select Services"
	case StepSchedule:
		return "Select Location"
	case StepCheckout:
		return "Checkout"
	default:
		return ""
	}
}

// Valid reports whether s is one of the defined steps.
func (s Step) Valid() bool {
	return s >= StepLanding && s <= lastStep
}

// Step indicator statuses.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusInactive  = "inactive"
)

// StepProgress is one entry of the step indicator.
type StepProgress struct {
	Step   Step   `json:"step"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

func progress(current Step) []StepProgress {
	out := make([]StepProgress, 0, int(lastStep))
	for s := StepVehicle; s <= lastStep; s++ {
		status := StatusInactive
		switch {
		case current == s:
			status = StatusActive
		case current > s:
			status = StatusCompleted
		}
		out = append(out, StepProgress{Step: s, Title: s.Title(), Status: status})
	}
	return out
}
