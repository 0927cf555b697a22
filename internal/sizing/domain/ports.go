package sizing

import (
	catalog "ledwall-configurator/internal/catalog/domain"
)

// PortCheck compares the pixel load against processor port capacity.
type PortCheck struct {
	Required  int
	Available int
	LoadPct   float64
	Status    PortStatus
}

// CheckPorts never fails: an undersized processor is reported in Status.
func CheckPorts(totalPixels, processorPorts int, warnPct float64) PortCheck {
	pc := PortCheck{
		Required:  ceilDivInt(totalPixels, catalog.PixelsPerPort),
		Available: processorPorts,
	}
	if processorPorts > 0 {
		pc.LoadPct = float64(totalPixels) / float64(processorPorts*catalog.PixelsPerPort) * 100
	}
	switch {
	case pc.Required > processorPorts:
		pc.Status = PortStatusOverloaded
	case pc.LoadPct > warnPct:
		pc.Status = PortStatusWarning
	default:
		pc.Status = PortStatusOK
	}
	return pc
}
