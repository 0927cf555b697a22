package sizing

import (
	catalog "ledwall-configurator/internal/catalog/domain"
)

// PowerBudget is the electrical load of the module grid.
type PowerBudget struct {
	Bucket            catalog.PowerBucket
	AvgKW             float64
	PeakKW            float64
	PeakWithReserveKW float64
}

// ComputePowerBudget looks up per-module consumption and applies the power
// reserve margin. Unmatched pitches use the catalog default bucket.
func ComputePowerBudget(moduleCount int, env catalog.Environment, pitch, reservePct float64, c *catalog.Catalog) (PowerBudget, error) {
	if reservePct < 0 {
		return PowerBudget{}, invalid(ErrInvalidCapacity, "power_reserve_pct", "must not be negative, got %v", reservePct)
	}
	bucket := c.PowerBucketFor(env, pitch)
	avg := float64(moduleCount) * bucket.AvgWattsPerModule / 1000
	peak := float64(moduleCount) * bucket.PeakWattsPerModule / 1000
	return PowerBudget{
		Bucket:            bucket,
		AvgKW:             avg,
		PeakKW:            peak,
		PeakWithReserveKW: peak * (1 + reservePct/100),
	}, nil
}

// PSUSizing holds both lower bounds and the binding count.
type PSUSizing struct {
	ByPower   int
	ByModules int
	Count     int
}

// SizePSUs returns the PSU count satisfying both the power and the
// modules-per-unit constraint, plus one spare when extra is set.
func SizePSUs(peakWithReserveKW, psuWatts float64, moduleCount, modulesPerPSU int, extra bool) (PSUSizing, error) {
	if psuWatts <= 0 {
		return PSUSizing{}, invalid(ErrInvalidCapacity, "psu_watts", "must be positive, got %v", psuWatts)
	}
	if modulesPerPSU <= 0 {
		return PSUSizing{}, invalid(ErrInvalidCapacity, "modules_per_psu", "must be positive, got %d", modulesPerPSU)
	}
	s := PSUSizing{
		ByPower:   ceilTol(peakWithReserveKW * 1000 / psuWatts),
		ByModules: ceilDivInt(moduleCount, modulesPerPSU),
	}
	s.Count = maxInt(s.ByPower, s.ByModules)
	if extra {
		s.Count++
	}
	return s, nil
}
