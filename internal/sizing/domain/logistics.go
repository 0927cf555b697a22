package sizing

import (
	catalog "ledwall-configurator/internal/catalog/domain"
)

// LogisticsResult is weight and packing of the order.
type LogisticsResult struct {
	ModuleWeightKG  float64 `json:"module_weight_kg"`
	FrameWeightKG   float64 `json:"frame_weight_kg"`
	CabinetCount    int     `json:"cabinet_count,omitempty"`
	CabinetWeightKG float64 `json:"cabinet_weight_kg,omitempty"`
	TotalWeightKG   float64 `json:"total_weight_kg"`
	BoxCount        int     `json:"box_count"`
	BoxWeightKG     float64 `json:"box_weight_kg"`
	BoxVolumeM3     float64 `json:"box_volume_m3"`
}

// LogisticsInput carries the earlier stage outputs logistics depends on.
type LogisticsInput struct {
	OrderModules  int
	Environment   catalog.Environment
	Mounting      Mounting
	Geometry      Geometry
	TotalProfileM float64
	Cabinet       catalog.Cabinet
}

// SizeLogistics computes module, frame or cabinet weight and box packing.
func SizeLogistics(in LogisticsInput, policy catalog.Policy) LogisticsResult {
	var out LogisticsResult
	out.ModuleWeightKG = float64(in.OrderModules) * policy.ModuleWeightKG[in.Environment]

	switch in.Mounting {
	case MountingCabinet:
		if in.Cabinet.WidthMM > 0 && in.Cabinet.HeightMM > 0 {
			out.CabinetCount = ceilDivInt(in.Geometry.RealWidthMM, in.Cabinet.WidthMM) *
				ceilDivInt(in.Geometry.RealHeightMM, in.Cabinet.HeightMM)
		}
		out.CabinetWeightKG = float64(out.CabinetCount) * in.Cabinet.WeightKG
		out.FrameWeightKG = out.CabinetWeightKG
	default:
		out.FrameWeightKG = in.TotalProfileM * policy.FrameKGPerMeter
	}

	out.TotalWeightKG = (out.ModuleWeightKG + out.FrameWeightKG) * (1 + policy.MiscHardwarePct/100)
	out.BoxCount = ceilDivInt(in.OrderModules, policy.ModulesPerBox)
	out.BoxWeightKG = float64(out.BoxCount) * policy.BoxWeightKG
	out.BoxVolumeM3 = float64(out.BoxCount) * policy.BoxVolumeM3
	return out
}
