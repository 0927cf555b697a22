package sizing

import (
	"math"

	catalog "ledwall-configurator/internal/catalog/domain"
)

// Electrical is the supply sizing for the peak load.
type Electrical struct {
	VoltageV   float64
	CurrentA   float64
	CableLabel string
	BreakerA   int
}

// VoltageFor returns the effective voltage of a supply phase. Three-phase
// assumes a balanced load on 380 V line-to-line.
func VoltageFor(phase catalog.Phase) (float64, bool) {
	switch phase {
	case catalog.PhaseSingle220:
		return 220, true
	case catalog.PhaseThree380:
		return 380 * math.Sqrt(3), true
	default:
		return 0, false
	}
}

// SizeElectrical converts the reserved peak load to current, cable and breaker.
func SizeElectrical(peakWithReserveKW float64, phase catalog.Phase, policy catalog.Policy) (Electrical, error) {
	voltage, ok := VoltageFor(phase)
	if !ok {
		return Electrical{}, invalid(ErrUnknownCatalogKey, "phase", "unknown phase %q", phase)
	}
	rules := policy.CableRulesFor(phase)
	if len(rules) == 0 {
		return Electrical{}, invalid(ErrUnknownCatalogKey, "phase", "no cable table for %q", phase)
	}
	current := peakWithReserveKW * 1000 / voltage
	return Electrical{
		VoltageV:   voltage,
		CurrentA:   current,
		CableLabel: selectCable(rules, current),
		BreakerA:   ceilTol(current * (1 + policy.BreakerMarginPct/100)),
	}, nil
}

func selectCable(rules []catalog.CableRule, current float64) string {
	for _, rule := range rules {
		if rule.MaxAmps == 0 || current < rule.MaxAmps {
			return rule.Label
		}
	}
	return rules[len(rules)-1].Label
}
