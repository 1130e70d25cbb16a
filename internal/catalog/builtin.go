package catalog

import (
	"github.com/ukydev/carcare-booking/internal/models"
	"github.com/ukydev/carcare-booking/internal/money"
)

// BuiltinOfferings returns the offerings the service ships with.
func BuiltinOfferings() []models.ServiceOffering {
	return []models.ServiceOffering{
		{
			ID:            "full-service",
			Title:         "Full Synthetic 10k/15k Engine Oil Service",
			Description:   "Full Synthetic 10k/15k Engine oil From MOBIL & Original Oil Filter replacement with All fluids Top-up, Ac & Air Filter cleaning. With FREE pickup & drop off using Valet Driver and Get your Car Back same day.",
			UnitPrice:     money.FromFloat(517.5),
			Category:      models.CategoryCarService,
			Features:      []string{"MOBIL Oil", "Original Oil Filter", "All Fluids Top-up", "AC & Air Filter", "FREE Pickup & Drop", "Same Day Service"},
			WarrantyLabel: "6 Months Service Warranty",
		},
		{
			ID:          "diagnostics",
			Title:       "Diagnostics Report",
			Description: "A Full 360 Degree Diagnostics that covers Brakes, Suspension, Spark Plugs, Engine Oil, Brake Fluid, Coolant, Battery, Air Filter and other 50+ points checklist with detailed report.",
			UnitPrice:   money.Zero,
			Category:    models.CategoryCarService,
			Features:    []string{"360° Inspection", "50+ Point Check", "Detailed Report", "Professional Assessment"},
		},
		{
			ID:          "exterior-wash",
			Title:       "Exterior Car Wash",
			Description: "Professional exterior washing with premium soap, tire cleaning, and protective wax coating.",
			UnitPrice:   money.FromFloat(45),
			Category:    models.CategoryCarWash,
			Features:    []string{"Exterior Wash", "Tire Cleaning", "Wax Coating"},
		},
		{
			ID:            "full-detailing",
			Title:         "Complete 3M Detailing",
			Description:   "Premium 3M products for paint correction, ceramic coating, and interior protection.",
			UnitPrice:     money.FromFloat(850),
			Category:      models.CategoryDetailing,
			Features:      []string{"3M Products", "Paint Correction", "Ceramic Coating", "Interior Protection"},
			WarrantyLabel: "12 Months Protection",
		},
		{
			ID:            "battery-replacement",
			Title:         "Battery Replacement",
			Description:   "High-quality battery replacement with 2-year warranty and free installation.",
			UnitPrice:     money.FromFloat(250),
			Category:      models.CategoryBattery,
			Features:      []string{"Premium Battery", "Free Installation", "Old Battery Disposal"},
			WarrantyLabel: "2 Years Warranty",
		},
	}
}

// Default builds the catalog from the built-in offerings.
func Default() *Catalog {
	c, err := New(BuiltinOfferings())
	if err != nil {
		panic(err)
	}
	return c
}
