package sizing

import (
	catalog "ledwall-configurator/internal/catalog/domain"
)

// Mounting is how modules are held in place.
type Mounting string

const (
	MountingCabinet    Mounting = "cabinet"
	MountingMonolithic Mounting = "monolithic"
)

// ParseMounting normalizes a user supplied mounting type.
func ParseMounting(value string) (Mounting, bool) {
	switch Mounting(value) {
	case MountingCabinet, MountingMonolithic:
		return Mounting(value), true
	default:
		return "", false
	}
}

// ReserveMode selects how spare modules are ordered.
type ReserveMode string

const (
	ReservePercent ReserveMode = "percent"
	ReserveCount   ReserveMode = "count"
)

// ScreenRequest describes the requested screen.
type ScreenRequest struct {
	WidthMM     int                 `json:"width_mm"`
	HeightMM    int                 `json:"height_mm"`
	Environment catalog.Environment `json:"environment"`
	PitchMM     float64             `json:"pitch_mm"`
	Mounting    Mounting            `json:"mounting"`
	CabinetID   catalog.CabinetID   `json:"cabinet_id,omitempty"`
	RefreshHz   int                 `json:"refresh_hz,omitempty"`
	Technology  string              `json:"technology,omitempty"`
}

// ReservePolicy describes spare parts. Mode picks exactly one module reserve
// source; the flags add one whole unit on top of the rounded counts.
type ReservePolicy struct {
	Mode             ReserveMode `json:"mode"`
	ModulePct        float64     `json:"module_pct,omitempty"`
	ModuleCount      int         `json:"module_count,omitempty"`
	ExtraPSU         bool        `json:"extra_psu,omitempty"`
	ExtraCard        bool        `json:"extra_card,omitempty"`
	DoublePatchCords bool        `json:"double_patch_cords,omitempty"`
}

// ComponentSelection holds the chosen hardware and constraints.
type ComponentSelection struct {
	ProcessorID     catalog.ProcessorID `json:"processor_id"`
	CardID          catalog.CardID      `json:"card_id"`
	ModulesPerCard  int                 `json:"modules_per_card"`
	ModulesPerPSU   int                 `json:"modules_per_psu"`
	PSUWatts        float64             `json:"psu_watts"`
	Phase           catalog.Phase       `json:"phase"`
	PowerReservePct float64             `json:"power_reserve_pct"`
	Reserve         ReservePolicy       `json:"reserve"`
}

// PortStatus is the processor port finding.
type PortStatus string

const (
	PortStatusOK         PortStatus = "ok"
	PortStatusWarning    PortStatus = "warning"
	PortStatusOverloaded PortStatus = "overloaded"
)

// SizingResult is the full output of one calculation.
type SizingResult struct {
	Columns      int     `json:"columns"`
	Rows         int     `json:"rows"`
	ModuleCount  int     `json:"module_count"`
	RealWidthMM  int     `json:"real_width_mm"`
	RealHeightMM int     `json:"real_height_mm"`
	AreaM2       float64 `json:"area_m2"`
	ResolutionW  int     `json:"resolution_w_px"`
	ResolutionH  int     `json:"resolution_h_px"`
	TotalPixels  int     `json:"total_pixels"`

	ReserveModules int `json:"reserve_modules"`
	OrderModules   int `json:"order_modules"`

	AvgPowerKW         float64 `json:"avg_power_kw"`
	PeakPowerKW        float64 `json:"peak_power_kw"`
	PeakWithReserveKW  float64 `json:"peak_with_reserve_kw"`
	AvgWattsPerModule  float64 `json:"avg_w_per_module"`
	PeakWattsPerModule float64 `json:"peak_w_per_module"`

	PSUCount       int `json:"psu_count"`
	PSUByPower     int `json:"psu_by_power"`
	PSUByModules   int `json:"psu_by_modules"`
	CardCount      int `json:"card_count"`
	CardByPixels   int `json:"card_by_pixels"`
	CardByModules  int `json:"card_by_modules"`
	PatchCordCount int `json:"patch_cord_count"`
	PowerCordCount int `json:"power_cord_count"`

	RequiredPorts  int        `json:"required_ports"`
	AvailablePorts int        `json:"available_ports"`
	PortLoadPct    float64    `json:"port_load_pct"`
	PortStatus     PortStatus `json:"port_status"`

	VoltageV   float64 `json:"voltage_v"`
	CurrentA   float64 `json:"current_a"`
	CableLabel string  `json:"cable_label"`
	BreakerA   int     `json:"breaker_a"`

	Structure StructureResult `json:"structure"`
	Logistics LogisticsResult `json:"logistics"`
}

// Overloaded reports whether the processor cannot carry the screen.
func (r SizingResult) Overloaded() bool {
	return r.PortStatus == PortStatusOverloaded
}
