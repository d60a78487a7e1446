package treefile

import "github.com/okian/memtree/internal/domain/hierarchy"

// DefaultRootName is the root of the built-in hierarchy.
const DefaultRootName = "Memory"

// Units: cost in USD per GB, speed in GB/s, capacity in GB.
var defaultDocument = document{
	Name: DefaultRootName,
	Children: []document{
		{
			Name:       "RAM",
			Attributes: attrs(5, 40, 64, 1996, true),
			Children: []document{
				{Name: "DDR3", Attributes: attrs(2.5, 17, 16, 2007, true)},
				{Name: "DDR4", Attributes: attrs(2.2, 25.6, 32, 2014, true)},
				{Name: "DDR5", Attributes: attrs(3.4, 51.2, 64, 2020, true)},
				{Name: "LPDDR5", Attributes: attrs(4.1, 51.2, 16, 2019, true)},
			},
		},
		{
			Name:       "Graphic memory",
			Attributes: attrs(9, 400, 16, 1998, false),
			Children: []document{
				{Name: "GDDR5", Attributes: attrs(6, 256, 8, 2008, false)},
				{Name: "GDDR6", Attributes: attrs(8, 768, 24, 2018, false)},
				{Name: "HBM2", Attributes: attrs(18, 460, 16, 2016, false)},
			},
		},
		{
			Name:       "Microcontroller RAM",
			Attributes: attrs(400, 0.2, 0.0005, 1980, false),
			Children: []document{
				{Name: "MCU SRAM", Attributes: attrs(900, 0.4, 0.0005, 1990, false)},
				{Name: "EEPROM", Attributes: attrs(250, 0.001, 0.0001, 1983, false)},
			},
		},
		{
			Name:       "Cache",
			Attributes: attrs(5000, 1000, 0.03, 1985, true),
			Children: []document{
				{Name: "L1 cache", Attributes: attrs(20000, 3000, 0.000064, 1989, true)},
				{Name: "L2 cache", Attributes: attrs(8000, 1500, 0.001, 1995, true)},
				{Name: "L3 cache", Attributes: attrs(3000, 800, 0.064, 2003, true)},
			},
		},
		{
			Name:       "Secondary memory",
			Attributes: attrs(0.05, 1.5, 8000, 1956, true),
			Children: []document{
				{Name: "HDD", Attributes: attrs(0.02, 0.25, 20000, 1956, true)},
				{Name: "SATA SSD", Attributes: attrs(0.06, 0.55, 4000, 2008, true)},
				{Name: "NVMe SSD", Attributes: attrs(0.08, 7, 8000, 2013, true)},
				{Name: "Magnetic tape", Attributes: attrs(0.005, 0.4, 18000, 1952, false)},
			},
		},
	},
}

func attrs(cost, speed, capacity float64, year int, general bool) hierarchy.Attributes {
	return hierarchy.Attributes{
		AverageCost:        cost,
		MaxSpeed:           speed,
		MaxStorageCapacity: capacity,
		ReleaseYear:        year,
		GeneralPurpose:     general,
	}
}

// Default returns a fresh copy of the built-in hierarchy.
func Default() *hierarchy.Tree {
	t, err := hierarchy.New(defaultDocument.Name, defaultDocument.Attributes)
	if err != nil {
		panic(err)
	}
	if err := addChildren(t, defaultDocument.Name, defaultDocument.Children); err != nil {
		panic(err)
	}
	return t
}
