package material

import "fmt"

// Reference values: NIST X-ray Data Booklet edges, ICRU 37/49 mean
// excitation energies, PDG radiation lengths. Compound A values are
// effective (Z / (Z/A)).
var reference = []Material{
	// Biological / reference
	{Key: "air", Name: "Air", Z: 7.3, A: 14.62, Density: 0.001225, IeV: 85.7, KEdgeKeV: 0.53, LEdgeKeV: 0.05, X0: 36.62},
	{Key: "water", Name: "Water", Z: 7.42, A: 13.37, Density: 1.0, IeV: 75.0, KEdgeKeV: 0.53, LEdgeKeV: 0.05, X0: 36.08},
	{Key: "soft_tissue", Name: "Soft Tissue", Z: 7.4, A: 13.46, Density: 1.06, IeV: 72.3, KEdgeKeV: 0.53, LEdgeKeV: 0.05},
	{Key: "fat", Name: "Adipose Tissue", Z: 5.9, A: 10.62, Density: 0.92, IeV: 63.2, KEdgeKeV: 0.28, LEdgeKeV: 0.03},
	{Key: "muscle", Name: "Muscle", Z: 7.4, A: 13.47, Density: 1.04, IeV: 75.3, KEdgeKeV: 0.53, LEdgeKeV: 0.05},
	{Key: "bone", Name: "Cortical Bone", Z: 13.8, A: 26.81, Density: 1.85, IeV: 106.4, KEdgeKeV: 4.0, LEdgeKeV: 0.45},

	// Metals / filters
	{Key: "aluminum", Z: 13, A: 26.982, Density: 2.70, IeV: 166, KEdgeKeV: 1.56, LEdgeKeV: 0.09, X0: 24.01},
	{Key: "titanium", Z: 22, A: 47.867, Density: 4.51, IeV: 233, KEdgeKeV: 4.97, LEdgeKeV: 0.46, X0: 16.16},
	{Key: "iron", Z: 26, A: 55.845, Density: 7.87, IeV: 286, KEdgeKeV: 7.11, LEdgeKeV: 0.72, X0: 13.84},
	{Key: "copper", Z: 29, A: 63.546, Density: 8.96, IeV: 322, KEdgeKeV: 8.98, LEdgeKeV: 0.93, X0: 12.86},
	{Key: "silver", Z: 47, A: 107.868, Density: 10.49, IeV: 470, KEdgeKeV: 25.51, LEdgeKeV: 3.56, X0: 8.97},
	{Key: "tungsten", Z: 74, A: 183.84, Density: 19.25, IeV: 727, KEdgeKeV: 69.53, LEdgeKeV: 12.1, X0: 6.76},
	{Key: "lead", Z: 82, A: 207.2, Density: 11.34, IeV: 823, KEdgeKeV: 88.0, LEdgeKeV: 15.9, X0: 6.37},

	// Contrast agents
	{Key: "iodine", Z: 53, A: 126.904, Density: 4.93, IeV: 491, KEdgeKeV: 33.17, LEdgeKeV: 4.56, X0: 8.48},
	{Key: "barium", Z: 56, A: 137.327, Density: 3.62, IeV: 491, KEdgeKeV: 37.44, LEdgeKeV: 5.25, X0: 8.31},

	// Shielding / structural
	{Key: "concrete", Name: "Concrete", Z: 11, A: 21.88, Density: 2.3, IeV: 135.2, X0: 26.57},
	{Key: "iron_steel", Name: "Steel", Z: 26, A: 55.845, Density: 7.9, IeV: 286, KEdgeKeV: 7.11, LEdgeKeV: 0.72, X0: 13.84},
	{Key: "tungsten_alloy", Name: "Tungsten Alloy", Z: 74, A: 183.84, Density: 17.5, IeV: 727, KEdgeKeV: 69.53, LEdgeKeV: 12.1, X0: 6.76},
}

// Default is the built-in table. It is never mutated; configuration
// overrides build a new table with Override.
var Default = mustTable(reference)

func mustTable(ms []Material) *Table {
	t, err := NewTable(ms)
	if err != nil {
		panic(fmt.Sprintf("material: bad reference table: %v", err))
	}
	return t
}
