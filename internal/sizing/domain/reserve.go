package sizing

// ReserveModules returns the spare module count for a grid.
func ReserveModules(moduleCount int, r ReservePolicy) (int, error) {
	switch r.Mode {
	case ReservePercent, "":
		if r.ModuleCount != 0 {
			return 0, invalid(ErrInvalidCapacity, "reserve.module_count", "cannot be combined with a percentage reserve")
		}
		if r.ModulePct < 0 {
			return 0, invalid(ErrInvalidCapacity, "reserve.module_pct", "must not be negative, got %v", r.ModulePct)
		}
		return ceilTol(float64(moduleCount) * r.ModulePct / 100), nil
	case ReserveCount:
		if r.ModulePct != 0 {
			return 0, invalid(ErrInvalidCapacity, "reserve.module_pct", "cannot be combined with an absolute reserve")
		}
		if r.ModuleCount < 0 {
			return 0, invalid(ErrInvalidCapacity, "reserve.module_count", "must not be negative, got %d", r.ModuleCount)
		}
		return r.ModuleCount, nil
	default:
		return 0, invalid(ErrInvalidCapacity, "reserve.mode", "unknown mode %q", r.Mode)
	}
}
