package sizing

import (
	catalog "ledwall-configurator/internal/catalog/domain"
)

const (
	verticalProfileTrimMM   = 40
	horizontalProfileTrimMM = 60
	tallScreenMM            = 3000
)

// StructureResult is the on-site frame for monolithic mounting. It stays
// zero for cabinet mounting.
type StructureResult struct {
	VerticalProfiles   int     `json:"vertical_profiles"`
	VerticalLenMM      int     `json:"vertical_len_mm"`
	HorizontalProfiles int     `json:"horizontal_profiles"`
	HorizontalLenMM    int     `json:"horizontal_len_mm"`
	TotalProfileM      float64 `json:"total_profile_m"`
	FastenerCount      int     `json:"fastener_count"`
	PSUScrewCount      int     `json:"psu_screw_count"`
	MagnetCount        int     `json:"magnet_count"`
}

// SizeStructure computes frame profiles and fasteners for a monolithic screen.
func SizeStructure(g Geometry, psuCount int, policy catalog.Policy) StructureResult {
	s := StructureResult{
		VerticalProfiles:   g.Columns + 1,
		VerticalLenMM:      g.RealHeightMM - verticalProfileTrimMM,
		HorizontalProfiles: 2,
		HorizontalLenMM:    g.RealWidthMM - horizontalProfileTrimMM,
	}
	if g.RealHeightMM > tallScreenMM {
		s.HorizontalProfiles = 3
	}
	// Single-module screens are shorter than the trim.
	if s.VerticalLenMM < 0 {
		s.VerticalLenMM = 0
	}
	if s.HorizontalLenMM < 0 {
		s.HorizontalLenMM = 0
	}
	s.TotalProfileM = float64(s.VerticalProfiles*s.VerticalLenMM+s.HorizontalProfiles*s.HorizontalLenMM) / 1000

	magnets := g.ModuleCount * policy.MagnetsPerModule
	s.MagnetCount = ceilDivInt(magnets, policy.MagnetBatch) * policy.MagnetBatch

	crossings := s.HorizontalProfiles * s.VerticalProfiles
	s.FastenerCount = ceilTol(float64(crossings) * (1 + policy.FastenerReservePct/100))
	s.PSUScrewCount = ceilTol(float64(psuCount*policy.ScrewsPerPSU) * (1 + policy.ScrewReservePct/100))
	return s
}
