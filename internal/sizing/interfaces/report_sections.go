package interfaces

import (
	"fmt"
	"strings"

	catalog "ledwall-configurator/internal/catalog/domain"
	"ledwall-configurator/internal/sizing/application"
	sizing "ledwall-configurator/internal/sizing/domain"
)

type reportRow struct {
	label string
	value string
}

type reportSection struct {
	title string
	rows  []reportRow
}

// reportSections is the shared layout of every document format.
func reportSections(r application.Report) []reportSection {
	req, sel, res := r.Request, r.Selection, r.Result

	project := reportSection{title: "Project"}
	project.rows = appendIf(project.rows, "Project", r.Project.Name)
	project.rows = appendIf(project.rows, "Client", r.Project.Client)
	project.rows = appendIf(project.rows, "Location", r.Project.Location)
	project.rows = appendIf(project.rows, "Engineer", r.Project.Engineer)
	project.rows = append(project.rows, reportRow{"Date", r.ProjectDate()})
	project.rows = appendIf(project.rows, "Installation", string(r.Project.Installation))

	screen := reportSection{title: "Screen", rows: []reportRow{
		{"Requested size", fmt.Sprintf("%d × %d mm", req.WidthMM, req.HeightMM)},
		{"Real size", fmt.Sprintf("%d × %d mm", res.RealWidthMM, res.RealHeightMM)},
		{"Module grid", fmt.Sprintf("%d × %d (%d modules)", res.Columns, res.Rows, res.ModuleCount)},
		{"Area", fmt.Sprintf("%.2f m²", res.AreaM2)},
		{"Environment", string(req.Environment)},
		{"Pixel pitch", fmt.Sprintf("P%v mm", req.PitchMM)},
		{"Resolution", fmt.Sprintf("%d × %d px (%d px)", res.ResolutionW, res.ResolutionH, res.TotalPixels)},
		{"Mounting", string(req.Mounting)},
	}}
	if req.RefreshHz > 0 {
		screen.rows = append(screen.rows, reportRow{"Refresh rate", fmt.Sprintf("%d Hz", req.RefreshHz)})
	}
	screen.rows = appendIf(screen.rows, "Technology", req.Technology)
	screen.rows = append(screen.rows, reportRow{"Modules to order", fmt.Sprintf("%d (%d reserve)", res.OrderModules, res.ReserveModules)})

	power := reportSection{title: "Power", rows: []reportRow{
		{"Per module", fmt.Sprintf("%.1f W avg / %.1f W peak", res.AvgWattsPerModule, res.PeakWattsPerModule)},
		{"Average", fmt.Sprintf("%.2f kW", res.AvgPowerKW)},
		{"Peak", fmt.Sprintf("%.2f kW", res.PeakPowerKW)},
		{"Peak with reserve", fmt.Sprintf("%.2f kW (+%v%%)", res.PeakWithReserveKW, sel.PowerReservePct)},
		{"Power supplies", fmt.Sprintf("%d × %.0f W (power %d, modules %d)", res.PSUCount, sel.PSUWatts, res.PSUByPower, res.PSUByModules)},
	}}

	control := reportSection{title: "Control", rows: []reportRow{
		{"Processor", r.ProcessorLabel},
		{"Ports", fmt.Sprintf("%d required / %d available", res.RequiredPorts, res.AvailablePorts)},
		{"Port load", fmt.Sprintf("%.1f%% (%s)", res.PortLoadPct, res.PortStatus)},
		{"Receiving cards", fmt.Sprintf("%d × %s (pixels %d, modules %d)", res.CardCount, r.CardLabel, res.CardByPixels, res.CardByModules)},
		{"Patch cords", fmt.Sprintf("%d", res.PatchCordCount)},
		{"Power cords", fmt.Sprintf("%d", res.PowerCordCount)},
	}}

	electrical := reportSection{title: "Electrical", rows: []reportRow{
		{"Supply", phaseLabel(sel.Phase)},
		{"Current", fmt.Sprintf("%.1f A at %.0f V", res.CurrentA, res.VoltageV)},
		{"Cable", res.CableLabel},
		{"Breaker", fmt.Sprintf("%d A", res.BreakerA)},
	}}

	out := []reportSection{project, screen, power, control, electrical}
	if req.Mounting == sizing.MountingMonolithic {
		s := res.Structure
		out = append(out, reportSection{title: "Structure", rows: []reportRow{
			{"Vertical profiles", fmt.Sprintf("%d × %d mm", s.VerticalProfiles, s.VerticalLenMM)},
			{"Horizontal profiles", fmt.Sprintf("%d × %d mm", s.HorizontalProfiles, s.HorizontalLenMM)},
			{"Profile total", fmt.Sprintf("%.2f m", s.TotalProfileM)},
			{"Fasteners", fmt.Sprintf("%d", s.FastenerCount)},
			{"PSU screws", fmt.Sprintf("%d", s.PSUScrewCount)},
			{"Magnets", fmt.Sprintf("%d", s.MagnetCount)},
		}})
	}

	l := res.Logistics
	logistics := reportSection{title: "Logistics", rows: []reportRow{
		{"Module weight", fmt.Sprintf("%.1f kg", l.ModuleWeightKG)},
	}}
	if l.CabinetCount > 0 {
		logistics.rows = append(logistics.rows, reportRow{"Cabinets", fmt.Sprintf("%d (%.1f kg)", l.CabinetCount, l.CabinetWeightKG)})
	} else {
		logistics.rows = append(logistics.rows, reportRow{"Frame weight", fmt.Sprintf("%.1f kg", l.FrameWeightKG)})
	}
	logistics.rows = append(logistics.rows,
		reportRow{"Total weight", fmt.Sprintf("%.1f kg", l.TotalWeightKG)},
		reportRow{"Boxes", fmt.Sprintf("%d (%.0f kg, %.2f m³)", l.BoxCount, l.BoxWeightKG, l.BoxVolumeM3)},
	)
	return append(out, logistics)
}

func appendIf(rows []reportRow, label, value string) []reportRow {
	if strings.TrimSpace(value) == "" {
		return rows
	}
	return append(rows, reportRow{label, value})
}

func phaseLabel(p catalog.Phase) string {
	switch p {
	case catalog.PhaseSingle220:
		return "single phase 220 V"
	case catalog.PhaseThree380:
		return "three phase 380 V"
	default:
		return string(p)
	}
}

func formatQuantity(q float64) string {
	if q == float64(int64(q)) {
		return fmt.Sprintf("%d", int64(q))
	}
	return fmt.Sprintf("%.2f", q)
}
