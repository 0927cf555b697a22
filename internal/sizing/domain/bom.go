package sizing

import (
	"fmt"

	catalog "ledwall-configurator/internal/catalog/domain"
)

// BOMLine is one itemized position of the bill of materials.
type BOMLine struct {
	Position int     `json:"position"`
	Item     string  `json:"item"`
	Spec     string  `json:"spec"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// BuildBOM itemizes a sizing result. Lines with zero quantity are omitted.
func BuildBOM(res SizingResult, req ScreenRequest, sel ComponentSelection, c *catalog.Catalog) []BOMLine {
	var lines []BOMLine
	add := func(item, spec string, qty float64, unit string) {
		if qty <= 0 {
			return
		}
		lines = append(lines, BOMLine{Position: len(lines) + 1, Item: item, Spec: spec, Quantity: qty, Unit: unit})
	}

	tech := req.Technology
	if tech == "" {
		tech = "LED"
	}
	add("LED module", fmt.Sprintf("%d×%d mm P%v %s %s", catalog.ModuleWidthMM, catalog.ModuleHeightMM, req.PitchMM, tech, req.Environment), float64(res.OrderModules), "pcs")

	processorLabel := string(sel.ProcessorID)
	if p, err := c.Processor(sel.ProcessorID); err == nil {
		processorLabel = p.Label
	}
	add("Video processor", processorLabel, 1, "pcs")

	cardLabel := string(sel.CardID)
	if card, err := c.Card(sel.CardID); err == nil {
		cardLabel = card.Label
	}
	add("Receiving card", cardLabel, float64(res.CardCount), "pcs")
	add("Power supply", fmt.Sprintf("%.0f W", sel.PSUWatts), float64(res.PSUCount), "pcs")
	add("Power cord", "PSU daisy chain", float64(res.PowerCordCount), "pcs")
	add("Patch cord", "RJ45 network", float64(res.PatchCordCount), "pcs")
	add("Circuit breaker", fmt.Sprintf("%d A", res.BreakerA), 1, "pcs")
	add("Supply cable", res.CableLabel, 1, "set")

	switch req.Mounting {
	case MountingMonolithic:
		s := res.Structure
		add("Vertical profile", fmt.Sprintf("%d mm", s.VerticalLenMM), float64(s.VerticalProfiles), "pcs")
		add("Horizontal profile", fmt.Sprintf("%d mm", s.HorizontalLenMM), float64(s.HorizontalProfiles), "pcs")
		add("Profile total", "aluminium", s.TotalProfileM, "m")
		add("Frame fastener", "profile crossing", float64(s.FastenerCount), "pcs")
		add("PSU screw", "PSU to profile", float64(s.PSUScrewCount), "pcs")
		add("Magnet", "module mount", float64(s.MagnetCount), "pcs")
	case MountingCabinet:
		label := string(req.CabinetID)
		if cab, err := c.CabinetDimsFor(req.CabinetID); err == nil {
			label = cab.Label
		}
		add("Cabinet", label, float64(res.Logistics.CabinetCount), "pcs")
	}

	add("Shipping box", fmt.Sprintf("%d modules", c.Policy().ModulesPerBox), float64(res.Logistics.BoxCount), "pcs")
	return lines
}
