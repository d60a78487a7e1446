// Package hierarchy models the classification tree of memory technologies.
package hierarchy

// VectorLen is the number of comparable features in an attribute vector.
const VectorLen = 5

// Attributes is the fixed feature profile attached to every node.
type Attributes struct {
	AverageCost        float64 `json:"average_cost" yaml:"average_cost"`
	MaxSpeed           float64 `json:"max_speed" yaml:"max_speed"`
	MaxStorageCapacity float64 `json:"max_storage_capacity" yaml:"max_storage_capacity"`
	ReleaseYear        int     `json:"release_year" yaml:"release_year"`
	GeneralPurpose     bool    `json:"general_purpose" yaml:"general_purpose"`
}

// Vector returns the features in metric order:
// cost, speed, capacity, year, general-purpose flag (1 or 0).
func (a Attributes) Vector() [VectorLen]float64 {
	return [VectorLen]float64{
		a.AverageCost,
		a.MaxSpeed,
		a.MaxStorageCapacity,
		float64(a.ReleaseYear),
		boolToFloat(a.GeneralPurpose),
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
