package sizing

import (
	"errors"

	catalog "ledwall-configurator/internal/catalog/domain"
)

// Calculate runs the sizing pipeline. It is a pure function of its inputs:
// the catalog is only read, and any validation failure aborts the whole run
// without a partial result.
func Calculate(req ScreenRequest, sel ComponentSelection, c *catalog.Catalog) (SizingResult, error) {
	if c == nil {
		return SizingResult{}, catalog.ErrNilCatalog
	}
	policy := c.Policy()

	geo, err := FitGeometry(req.WidthMM, req.HeightMM)
	if err != nil {
		return SizingResult{}, err
	}
	if err := validatePitch(req, c); err != nil {
		return SizingResult{}, err
	}
	res, err := ResolutionFor(geo, req.PitchMM)
	if err != nil {
		return SizingResult{}, err
	}

	cabinet, err := resolveMounting(req, c)
	if err != nil {
		return SizingResult{}, err
	}
	ports, err := c.PortsFor(sel.ProcessorID)
	if err != nil {
		return SizingResult{}, keyError("processor_id", err)
	}
	cardCapacity, err := c.PixelCapacityFor(sel.CardID)
	if err != nil {
		return SizingResult{}, keyError("card_id", err)
	}
	if _, ok := VoltageFor(sel.Phase); !ok {
		return SizingResult{}, invalid(ErrUnknownCatalogKey, "phase", "unknown phase %q", sel.Phase)
	}

	reserve, err := ReserveModules(geo.ModuleCount, sel.Reserve)
	if err != nil {
		return SizingResult{}, err
	}
	power, err := ComputePowerBudget(geo.ModuleCount, req.Environment, req.PitchMM, sel.PowerReservePct, c)
	if err != nil {
		return SizingResult{}, err
	}
	psu, err := SizePSUs(power.PeakWithReserveKW, sel.PSUWatts, geo.ModuleCount, sel.ModulesPerPSU, sel.Reserve.ExtraPSU)
	if err != nil {
		return SizingResult{}, err
	}
	cards, err := SizeCards(res.TotalPixels, cardCapacity, geo.ModuleCount, sel.ModulesPerCard, sel.Reserve.ExtraCard)
	if err != nil {
		return SizingResult{}, err
	}
	portCheck := CheckPorts(res.TotalPixels, ports, policy.PortWarnPct)
	elec, err := SizeElectrical(power.PeakWithReserveKW, sel.Phase, policy)
	if err != nil {
		return SizingResult{}, err
	}

	var structure StructureResult
	if req.Mounting == MountingMonolithic {
		structure = SizeStructure(geo, psu.Count, policy)
	}
	order := geo.ModuleCount + reserve
	logistics := SizeLogistics(LogisticsInput{
		OrderModules:  order,
		Environment:   req.Environment,
		Mounting:      req.Mounting,
		Geometry:      geo,
		TotalProfileM: structure.TotalProfileM,
		Cabinet:       cabinet,
	}, policy)

	patchCords := cards.Count
	if sel.Reserve.DoublePatchCords {
		patchCords *= 2
	}

	return SizingResult{
		Columns:      geo.Columns,
		Rows:         geo.Rows,
		ModuleCount:  geo.ModuleCount,
		RealWidthMM:  geo.RealWidthMM,
		RealHeightMM: geo.RealHeightMM,
		AreaM2:       geo.AreaM2(),
		ResolutionW:  res.Width,
		ResolutionH:  res.Height,
		TotalPixels:  res.TotalPixels,

		ReserveModules: reserve,
		OrderModules:   order,

		AvgPowerKW:         power.AvgKW,
		PeakPowerKW:        power.PeakKW,
		PeakWithReserveKW:  power.PeakWithReserveKW,
		AvgWattsPerModule:  power.Bucket.AvgWattsPerModule,
		PeakWattsPerModule: power.Bucket.PeakWattsPerModule,

		PSUCount:       psu.Count,
		PSUByPower:     psu.ByPower,
		PSUByModules:   psu.ByModules,
		CardCount:      cards.Count,
		CardByPixels:   cards.ByPixels,
		CardByModules:  cards.ByModules,
		PatchCordCount: patchCords,
		PowerCordCount: psu.Count,

		RequiredPorts:  portCheck.Required,
		AvailablePorts: portCheck.Available,
		PortLoadPct:    portCheck.LoadPct,
		PortStatus:     portCheck.Status,

		VoltageV:   elec.VoltageV,
		CurrentA:   elec.CurrentA,
		CableLabel: elec.CableLabel,
		BreakerA:   elec.BreakerA,

		Structure: structure,
		Logistics: logistics,
	}, nil
}

func validatePitch(req ScreenRequest, c *catalog.Catalog) error {
	if _, ok := catalog.ParseEnvironment(string(req.Environment)); !ok {
		return invalid(ErrInvalidPitch, "environment", "unknown environment %q", req.Environment)
	}
	if req.PitchMM <= 0 {
		return invalid(ErrInvalidPitch, "pitch_mm", "must be positive, got %v", req.PitchMM)
	}
	if !c.AllowsPitch(req.Environment, req.PitchMM) {
		return invalid(ErrInvalidPitch, "pitch_mm", "%v mm is not offered for %s screens", req.PitchMM, req.Environment)
	}
	return nil
}

func resolveMounting(req ScreenRequest, c *catalog.Catalog) (catalog.Cabinet, error) {
	switch req.Mounting {
	case MountingMonolithic:
		return catalog.Cabinet{}, nil
	case MountingCabinet:
		if req.CabinetID == "" {
			return catalog.Cabinet{}, invalid(ErrUnknownCatalogKey, "cabinet_id", "required for cabinet mounting")
		}
		cab, err := c.CabinetDimsFor(req.CabinetID)
		if err != nil {
			return catalog.Cabinet{}, keyError("cabinet_id", err)
		}
		return cab, nil
	default:
		return catalog.Cabinet{}, invalid(ErrUnknownCatalogKey, "mounting", "unknown mounting %q", req.Mounting)
	}
}

func keyError(field string, err error) error {
	var ke *catalog.KeyError
	if errors.As(err, &ke) {
		return invalid(ErrUnknownCatalogKey, field, "%s %q not in catalog", ke.Table, ke.Key)
	}
	return err
}
