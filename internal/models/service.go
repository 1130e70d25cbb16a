package models

import "github.com/ukydev/carcare-booking/internal/money"

// Category groups service offerings. The set is closed.
type Category string

const (
	CategoryCarWash     Category = "car-wash"
	CategoryCarService  Category = "car-service"
	CategoryDetailing   Category = "3m-detailing"
	CategoryBattery     Category = "battery"
	CategoryEmergency   Category = "emergency"
	CategoryMonthlyWash Category = "monthly-wash"
	CategoryBodyPaint   Category = "body-paint"
	CategoryDoorstep    Category = "doorstep"
	CategoryCeramic     Category = "ceramic"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryCarWash,
	CategoryCarService,
	CategoryDetailing,
	CategoryBattery,
	CategoryEmergency,
	CategoryMonthlyWash,
	CategoryBodyPaint,
	CategoryDoorstep,
	CategoryCeramic,
}

// IsValidCategory checks if a category is one of the known variants
func IsValidCategory(c Category) bool {
	switch c {
	case CategoryCarWash, CategoryCarService, CategoryDetailing, CategoryBattery,
		CategoryEmergency, CategoryMonthlyWash, CategoryBodyPaint, CategoryDoorstep,
		CategoryCeramic:
		return true
	default:
		return false
	}
}

// DisplayName returns the label shown in the category carousel.
func (c Category) DisplayName() string {
	switch c {
	case CategoryCarWash:
		return "Car Wash"
	case CategoryCarService:
		return "Car Service"
	case CategoryDetailing:
		return "3M Detailing"
	case CategoryBattery:
		return "Battery"
	case CategoryEmergency:
		return "Emergency Services"
	case CategoryMonthlyWash:
		return "Monthly Car Wash"
	case CategoryBodyPaint:
		return "Body Paint"
	case CategoryDoorstep:
		return "Doorstep Mechanic"
	case CategoryCeramic:
		return "Ceramic Coating"
	default:
		return string(c)
	}
}

// ServiceOffering is a catalog entry the customer can add to the cart.
type ServiceOffering struct {
	ID            string       `bson:"_id" json:"id"`
	Title         string       `bson:"title" json:"title"`
	Description   string       `bson:"description" json:"description"`
	UnitPrice     money.Amount `bson:"unit_price" json:"unit_price"`
	Category      Category     `bson:"category" json:"category"`
	Features      []string     `bson:"features" json:"features"`
	WarrantyLabel string       `bson:"warranty_label,omitempty" json:"warranty_label,omitempty"`
}
