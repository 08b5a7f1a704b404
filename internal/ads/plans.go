package ads

import "github.com/lapulperia/lapulperia-backend/pkg/enums"

// PlanInfo describes one advertising tier. Prices are lempiras, durations
// days.
type PlanInfo struct {
	Price    float64  `json:"price"`
	Duration int      `json:"duration"`
	Name     string   `json:"name"`
	Features []string `json:"features"`
}

// Plans is the fixed advertising catalog.
var Plans = map[enums.AdPlan]PlanInfo{
	enums.AdPlanBasico: {
		Price:    50,
		Duration: 7,
		Name:     "Básico",
		Features: []string{"Aparece en lista destacada"},
	},
	enums.AdPlanDestacado: {
		Price:    100,
		Duration: 15,
		Name:     "Destacado",
		Features: []string{"Aparece primero en búsquedas", "Badge destacado"},
	},
	enums.AdPlanPremium: {
		Price:    200,
		Duration: 30,
		Name:     "Premium",
		Features: []string{"Aparece primero", "Badge premium", "Banner en inicio"},
	},
}
