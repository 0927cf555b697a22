package sizing

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"testing"

	catalog "ledwall-configurator/internal/catalog/domain"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func baseRequest() ScreenRequest {
	return ScreenRequest{
		WidthMM:     3840,
		HeightMM:    2160,
		Environment: catalog.EnvironmentIndoor,
		PitchMM:     2.5,
		Mounting:    MountingMonolithic,
		RefreshHz:   3840,
		Technology:  "SMD",
	}
}

func baseSelection() ComponentSelection {
	return ComponentSelection{
		ProcessorID:     "vx1000-pro",
		CardID:          "a8s",
		ModulesPerCard:  12,
		ModulesPerPSU:   8,
		PSUWatts:        200,
		Phase:           catalog.PhaseSingle220,
		PowerReservePct: 30,
		Reserve:         ReservePolicy{Mode: ReservePercent, ModulePct: 10},
	}
}

func TestCalculate_MonolithicIndoor(t *testing.T) {
	res, err := Calculate(baseRequest(), baseSelection(), catalog.Default())
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}

	if res.Columns != 12 || res.Rows != 14 || res.ModuleCount != 168 {
		t.Fatalf("expected 12x14=168, got %dx%d=%d", res.Columns, res.Rows, res.ModuleCount)
	}
	if res.RealWidthMM != 3840 || res.RealHeightMM != 2240 {
		t.Fatalf("expected 3840x2240, got %dx%d", res.RealWidthMM, res.RealHeightMM)
	}
	if res.ResolutionW != 1536 || res.ResolutionH != 896 || res.TotalPixels != 1536*896 {
		t.Fatalf("unexpected resolution %dx%d (%d)", res.ResolutionW, res.ResolutionH, res.TotalPixels)
	}
	if !approx(res.PeakPowerKW, 4.368) || !approx(res.PeakWithReserveKW, 5.6784) {
		t.Fatalf("unexpected power %.4f / %.4f", res.PeakPowerKW, res.PeakWithReserveKW)
	}
	if !approx(res.AvgPowerKW, 1.26) {
		t.Fatalf("expected avg 1.26 kW, got %.4f", res.AvgPowerKW)
	}
	if res.PSUCount != 29 || res.PSUByPower != 29 || res.PSUByModules != 21 {
		t.Fatalf("unexpected psu sizing %d (%d/%d)", res.PSUCount, res.PSUByPower, res.PSUByModules)
	}
	// 1536x896 px fits exactly 7 A8s cards, but 168 modules at 12 per card needs 14.
	if res.CardCount != 14 || res.CardByPixels != 7 || res.CardByModules != 14 {
		t.Fatalf("unexpected card sizing %d (%d/%d)", res.CardCount, res.CardByPixels, res.CardByModules)
	}
	if res.RequiredPorts != 3 || res.AvailablePorts != 10 || res.PortStatus != PortStatusOK {
		t.Fatalf("unexpected ports %d/%d %s", res.RequiredPorts, res.AvailablePorts, res.PortStatus)
	}
	if res.ReserveModules != 17 || res.OrderModules != 185 {
		t.Fatalf("expected reserve 17 order 185, got %d/%d", res.ReserveModules, res.OrderModules)
	}
	if res.CableLabel != "3×16mm²" || res.BreakerA != 33 {
		t.Fatalf("unexpected electrical %s %dA", res.CableLabel, res.BreakerA)
	}

	s := res.Structure
	if s.VerticalProfiles != 13 || s.VerticalLenMM != 2200 || s.HorizontalProfiles != 2 || s.HorizontalLenMM != 3780 {
		t.Fatalf("unexpected profiles %+v", s)
	}
	if !approx(s.TotalProfileM, 36.16) {
		t.Fatalf("expected 36.16 m profile, got %.3f", s.TotalProfileM)
	}
	if s.MagnetCount != 1000 || s.FastenerCount != 27 || s.PSUScrewCount != 128 {
		t.Fatalf("unexpected fasteners magnets=%d fasteners=%d screws=%d", s.MagnetCount, s.FastenerCount, s.PSUScrewCount)
	}

	l := res.Logistics
	if !approx(l.ModuleWeightKG, 68.45) || !approx(l.FrameWeightKG, 72.32) {
		t.Fatalf("unexpected weights %.3f / %.3f", l.ModuleWeightKG, l.FrameWeightKG)
	}
	if !approx(l.TotalWeightKG, (68.45+72.32)*1.05) {
		t.Fatalf("unexpected total weight %.4f", l.TotalWeightKG)
	}
	if l.BoxCount != 5 || !approx(l.BoxWeightKG, 110) || !approx(l.BoxVolumeM3, 0.3) {
		t.Fatalf("unexpected packing %+v", l)
	}
	if l.CabinetCount != 0 {
		t.Fatalf("expected no cabinets for monolithic, got %d", l.CabinetCount)
	}
}

func TestCalculate_CabinetMountingSkipsStructure(t *testing.T) {
	req := baseRequest()
	req.Mounting = MountingCabinet
	req.CabinetID = "cab-960x960"

	res, err := Calculate(req, baseSelection(), catalog.Default())
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if res.Structure != (StructureResult{}) {
		t.Fatalf("expected zero structure, got %+v", res.Structure)
	}
	// 3840/960=4 columns, 2240/960=2.33 -> 3 rows.
	if res.Logistics.CabinetCount != 12 {
		t.Fatalf("expected 12 cabinets, got %d", res.Logistics.CabinetCount)
	}
	if !approx(res.Logistics.FrameWeightKG, 336) {
		t.Fatalf("expected 336 kg cabinets, got %.2f", res.Logistics.FrameWeightKG)
	}
}

func TestCalculate_OverloadIsNotAnError(t *testing.T) {
	sel := baseSelection()
	sel.ProcessorID = "vc2"

	res, err := Calculate(baseRequest(), sel, catalog.Default())
	if err != nil {
		t.Fatalf("overload must not fail: %v", err)
	}
	if !res.Overloaded() {
		t.Fatalf("expected overloaded, got %s", res.PortStatus)
	}
	if res.PSUCount == 0 || res.Logistics.BoxCount == 0 {
		t.Fatalf("expected full result alongside overload finding")
	}
}

func TestCalculate_ExtraUnitsAndPatchCords(t *testing.T) {
	sel := baseSelection()
	sel.Reserve.ExtraPSU = true
	sel.Reserve.ExtraCard = true
	sel.Reserve.DoublePatchCords = true

	res, err := Calculate(baseRequest(), sel, catalog.Default())
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if res.PSUCount != 30 {
		t.Fatalf("expected 29+1 PSUs, got %d", res.PSUCount)
	}
	if res.CardCount != 15 {
		t.Fatalf("expected 14+1 cards, got %d", res.CardCount)
	}
	if res.PatchCordCount != 30 {
		t.Fatalf("expected doubled patch cords 30, got %d", res.PatchCordCount)
	}
}

func TestCalculate_ThreePhase(t *testing.T) {
	sel := baseSelection()
	sel.Phase = catalog.PhaseThree380

	res, err := Calculate(baseRequest(), sel, catalog.Default())
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if !approx(res.VoltageV, 380*math.Sqrt(3)) {
		t.Fatalf("unexpected voltage %.3f", res.VoltageV)
	}
	if res.CableLabel != "5×6mm²" {
		t.Fatalf("expected 5×6mm², got %s", res.CableLabel)
	}
	if res.BreakerA != 11 {
		t.Fatalf("expected 11 A breaker, got %d", res.BreakerA)
	}
}

func TestCalculate_ValidationErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ScreenRequest, *ComponentSelection)
		kind   error
		field  string
	}{
		{"zero width", func(r *ScreenRequest, _ *ComponentSelection) { r.WidthMM = 0 }, ErrInvalidDimension, "width_mm"},
		{"negative height", func(r *ScreenRequest, _ *ComponentSelection) { r.HeightMM = -160 }, ErrInvalidDimension, "height_mm"},
		{"zero pitch", func(r *ScreenRequest, _ *ComponentSelection) { r.PitchMM = 0 }, ErrInvalidPitch, "pitch_mm"},
		{"outdoor pitch indoors", func(r *ScreenRequest, _ *ComponentSelection) { r.PitchMM = 10 }, ErrInvalidPitch, "pitch_mm"},
		{"unknown environment", func(r *ScreenRequest, _ *ComponentSelection) { r.Environment = "space" }, ErrInvalidPitch, "environment"},
		{"processor label", func(_ *ScreenRequest, s *ComponentSelection) { s.ProcessorID = "VX1000 Pro" }, ErrUnknownCatalogKey, "processor_id"},
		{"unknown card", func(_ *ScreenRequest, s *ComponentSelection) { s.CardID = "x" }, ErrUnknownCatalogKey, "card_id"},
		{"missing cabinet", func(r *ScreenRequest, _ *ComponentSelection) { r.Mounting = MountingCabinet }, ErrUnknownCatalogKey, "cabinet_id"},
		{"unknown phase", func(_ *ScreenRequest, s *ComponentSelection) { s.Phase = "dc" }, ErrUnknownCatalogKey, "phase"},
		{"zero psu watts", func(_ *ScreenRequest, s *ComponentSelection) { s.PSUWatts = 0 }, ErrInvalidCapacity, "psu_watts"},
		{"zero modules per psu", func(_ *ScreenRequest, s *ComponentSelection) { s.ModulesPerPSU = 0 }, ErrInvalidCapacity, "modules_per_psu"},
		{"negative modules per card", func(_ *ScreenRequest, s *ComponentSelection) { s.ModulesPerCard = -1 }, ErrInvalidCapacity, "modules_per_card"},
		{"both reserves", func(_ *ScreenRequest, s *ComponentSelection) { s.Reserve.ModuleCount = 5 }, ErrInvalidCapacity, "reserve.module_count"},
	}
	for _, tc := range cases {
		req, sel := baseRequest(), baseSelection()
		tc.mutate(&req, &sel)
		_, err := Calculate(req, sel, catalog.Default())
		if !errors.Is(err, tc.kind) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.kind, err)
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%s: expected ValidationError, got %T", tc.name, err)
		}
		if verr.Field != tc.field {
			t.Fatalf("%s: expected field %s, got %s", tc.name, tc.field, verr.Field)
		}
	}
}

func TestCalculate_Deterministic(t *testing.T) {
	c := catalog.Default()
	first, err := Calculate(baseRequest(), baseSelection(), c)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	second, err := Calculate(baseRequest(), baseSelection(), c)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if !bytes.Equal(a, b) {
		t.Fatalf("results differ:\n%s\n%s", a, b)
	}
}

func TestCalculate_Monotonic(t *testing.T) {
	c := catalog.Default()
	sel := baseSelection()
	var prev SizingResult
	for width := 320; width <= 9600; width += 250 {
		req := baseRequest()
		req.WidthMM = width
		res, err := Calculate(req, sel, c)
		if err != nil {
			t.Fatalf("width %d: %v", width, err)
		}
		if res.ModuleCount < prev.ModuleCount || res.TotalPixels < prev.TotalPixels ||
			res.PeakPowerKW < prev.PeakPowerKW || res.PSUCount < prev.PSUCount || res.CardCount < prev.CardCount {
			t.Fatalf("width %d decreased a figure: %+v after %+v", width, res, prev)
		}
		prev = res
	}
	prev = SizingResult{}
	for height := 160; height <= 6000; height += 130 {
		req := baseRequest()
		req.HeightMM = height
		res, err := Calculate(req, sel, c)
		if err != nil {
			t.Fatalf("height %d: %v", height, err)
		}
		if res.ModuleCount < prev.ModuleCount || res.TotalPixels < prev.TotalPixels ||
			res.PeakPowerKW < prev.PeakPowerKW || res.PSUCount < prev.PSUCount || res.CardCount < prev.CardCount {
			t.Fatalf("height %d decreased a figure", height)
		}
		prev = res
	}
}
