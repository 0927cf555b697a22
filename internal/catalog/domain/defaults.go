package catalog

// DefaultTables returns the built-in Qiangli/Novastar reference tables.
func DefaultTables() Tables {
	return Tables{
		Processors: []Processor{
			{ID: "vx400", Label: "VX400", Family: FamilySync, Ports: 4},
			{ID: "vx600-pro", Label: "VX600 Pro", Family: FamilySync, Ports: 6},
			{ID: "vx1000-pro", Label: "VX1000 Pro", Family: FamilySync, Ports: 10},
			{ID: "vx2000-pro", Label: "VX2000 Pro", Family: FamilySync, Ports: 20},
			{ID: "vx16s", Label: "VX16S", Family: FamilySync, Ports: 16},
			{ID: "vc2", Label: "VC2", Family: FamilySync, Ports: 2},
			{ID: "vc4", Label: "VC4", Family: FamilySync, Ports: 4},
			{ID: "vc6", Label: "VC6", Family: FamilySync, Ports: 6},
			{ID: "vc10", Label: "VC10", Family: FamilySync, Ports: 10},
			{ID: "vc16", Label: "VC16", Family: FamilySync, Ports: 16},
			{ID: "vc24", Label: "VC24", Family: FamilySync, Ports: 24},
			{ID: "mctrl300", Label: "MCTRL300", Family: FamilySync, Ports: 2},
			{ID: "mctrl600", Label: "MCTRL600", Family: FamilySync, Ports: 4},
			{ID: "mctrl700", Label: "MCTRL700", Family: FamilySync, Ports: 6},
			{ID: "mctrl4k", Label: "MCTRL4K", Family: FamilySync, Ports: 16},
			{ID: "mctrl-r5", Label: "MCTRL R5", Family: FamilySync, Ports: 8},
			{ID: "tb10-plus", Label: "TB10 Plus", Family: FamilyAsync, Ports: 1},
			{ID: "tb30", Label: "TB30", Family: FamilyAsync, Ports: 1},
			{ID: "tb40", Label: "TB40", Family: FamilyAsync, Ports: 2},
			{ID: "tb50", Label: "TB50", Family: FamilyAsync, Ports: 2},
			{ID: "tb60", Label: "TB60", Family: FamilyAsync, Ports: 4},
		},
		Cards: []ReceivingCard{
			{ID: "a5s-plus", Label: "A5s Plus", MaxWidthPx: 320, MaxHeightPx: 256},
			{ID: "a7s-plus", Label: "A7s Plus", MaxWidthPx: 512, MaxHeightPx: 256},
			{ID: "a8s", Label: "A8s / A8s-N", MaxWidthPx: 512, MaxHeightPx: 384},
			{ID: "a10s-plus", Label: "A10s Plus-N / A10s Pro", MaxWidthPx: 512, MaxHeightPx: 512},
			{ID: "mrv412", Label: "MRV412", MaxWidthPx: 512, MaxHeightPx: 512},
			{ID: "mrv416", Label: "MRV416", MaxWidthPx: 512, MaxHeightPx: 384},
			{ID: "mrv432", Label: "MRV432", MaxWidthPx: 512, MaxHeightPx: 512},
			{ID: "mrv532", Label: "MRV532", MaxWidthPx: 512, MaxHeightPx: 512},
			{ID: "nv3210", Label: "NV3210", MaxWidthPx: 512, MaxHeightPx: 384},
			{ID: "mrv208", Label: "MRV208-N / MRV208-1", MaxWidthPx: 256, MaxHeightPx: 256},
			{ID: "mrv470-1", Label: "MRV470-1", MaxWidthPx: 512, MaxHeightPx: 384},
			{ID: "a4s-plus", Label: "A4s Plus", MaxWidthPx: 256, MaxHeightPx: 256},
		},
		Cabinets: []Cabinet{
			{ID: "cab-640x480", Label: "Cabinet 640×480", WidthMM: 640, HeightMM: 480, WeightKG: 7.5},
			{ID: "cab-640x640", Label: "Cabinet 640×640", WidthMM: 640, HeightMM: 640, WeightKG: 9.5},
			{ID: "cab-960x480", Label: "Cabinet 960×480", WidthMM: 960, HeightMM: 480, WeightKG: 10.5},
			{ID: "cab-960x960", Label: "Cabinet 960×960", WidthMM: 960, HeightMM: 960, WeightKG: 28},
		},
		PowerBuckets: []PowerBucket{
			{Environment: EnvironmentIndoor, MinPitch: 0, MaxPitch: 1.3, AvgWattsPerModule: 9.5, PeakWattsPerModule: 30},
			{Environment: EnvironmentIndoor, MinPitch: 1.3, MaxPitch: 1.8, AvgWattsPerModule: 8.5, PeakWattsPerModule: 28},
			{Environment: EnvironmentIndoor, MinPitch: 1.8, MaxPitch: 2.6, AvgWattsPerModule: 7.5, PeakWattsPerModule: 26},
			{Environment: EnvironmentIndoor, MinPitch: 2.6, AvgWattsPerModule: 6.5, PeakWattsPerModule: 22},
			{Environment: EnvironmentOutdoor, MinPitch: 0, MaxPitch: 4, AvgWattsPerModule: 18, PeakWattsPerModule: 50},
			{Environment: EnvironmentOutdoor, MinPitch: 4, MaxPitch: 6.5, AvgWattsPerModule: 16, PeakWattsPerModule: 45},
			{Environment: EnvironmentOutdoor, MinPitch: 6.5, AvgWattsPerModule: 14, PeakWattsPerModule: 40},
		},
		Pitches: map[Environment][]float64{
			EnvironmentIndoor:  {0.8, 1.0, 1.25, 1.37, 1.53, 1.66, 1.86, 2.0, 2.5, 3.07, 4.0},
			EnvironmentOutdoor: {2.5, 3.07, 4.0, 5.0, 6.0, 6.66, 8.0, 10.0},
		},
		RefreshRates: []int{1920, 2880, 3840, 6000, 7680},
		Policy:       DefaultPolicy(),
	}
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(DefaultTables())
	if err != nil {
		panic("catalog: built-in tables invalid: " + err.Error())
	}
	return c
}
