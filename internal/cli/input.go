package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	catalog "ledwall-configurator/internal/catalog/domain"
	"ledwall-configurator/internal/sizing/application"
	sizing "ledwall-configurator/internal/sizing/domain"
)

// flagError reports a flag value that does not name a known option.
type flagError struct {
	flag  string
	value string
}

func (e *flagError) Error() string {
	return fmt.Sprintf("invalid --%s %q", e.flag, e.value)
}

// inputFlags holds the screen, component and project flags shared by calc and export.
type inputFlags struct {
	width       int
	height      int
	environment string
	pitch       float64
	mounting    string
	cabinet     string
	refresh     int
	technology  string

	processor        string
	card             string
	modulesPerCard   int
	modulesPerPSU    int
	psuWatts         float64
	phase            string
	powerReservePct  float64
	reservePct       float64
	reserveCount     int
	extraPSU         bool
	extraCard        bool
	doublePatchCords bool

	project      string
	client       string
	location     string
	engineer     string
	date         string
	installation string
}

func defaultInputFlags() inputFlags {
	return inputFlags{
		environment:     string(catalog.EnvironmentIndoor),
		pitch:           2.5,
		mounting:        string(sizing.MountingMonolithic),
		refresh:         3840,
		technology:      "SMD",
		processor:       "vx1000-pro",
		card:            "a8s",
		modulesPerCard:  12,
		modulesPerPSU:   8,
		psuWatts:        200,
		phase:           string(catalog.PhaseSingle220),
		powerReservePct: 30,
		reservePct:      10,
	}
}

func (f *inputFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.IntVarP(&f.width, "width", "W", 0, "requested screen width in mm")
	fs.IntVarP(&f.height, "height", "H", 0, "requested screen height in mm")
	fs.StringVar(&f.environment, "environment", f.environment, "indoor or outdoor")
	fs.Float64Var(&f.pitch, "pitch", f.pitch, "pixel pitch in mm")
	fs.StringVar(&f.mounting, "mounting", f.mounting, "monolithic or cabinet")
	fs.StringVar(&f.cabinet, "cabinet", "", "cabinet id (cabinet mounting)")
	fs.IntVar(&f.refresh, "refresh", f.refresh, "refresh rate in Hz")
	fs.StringVar(&f.technology, "technology", f.technology, "LED technology label")

	fs.StringVar(&f.processor, "processor", f.processor, "video processor id")
	fs.StringVar(&f.card, "card", f.card, "receiving card id")
	fs.IntVar(&f.modulesPerCard, "modules-per-card", f.modulesPerCard, "modules driven by one receiving card")
	fs.IntVar(&f.modulesPerPSU, "modules-per-psu", f.modulesPerPSU, "modules fed by one power supply")
	fs.Float64Var(&f.psuWatts, "psu-watts", f.psuWatts, "power supply rating in W")
	fs.StringVar(&f.phase, "phase", f.phase, "single_220 or three_380")
	fs.Float64Var(&f.powerReservePct, "power-reserve", f.powerReservePct, "power reserve in percent")
	fs.Float64Var(&f.reservePct, "reserve-pct", f.reservePct, "spare modules in percent")
	fs.IntVar(&f.reserveCount, "reserve-count", 0, "spare modules as a fixed count (overrides --reserve-pct)")
	fs.BoolVar(&f.extraPSU, "extra-psu", false, "order one spare power supply")
	fs.BoolVar(&f.extraCard, "extra-card", false, "order one spare receiving card")
	fs.BoolVar(&f.doublePatchCords, "double-patch-cords", false, "order twice the patch cords")

	fs.StringVar(&f.project, "project", "", "project name")
	fs.StringVar(&f.client, "client", "", "client name")
	fs.StringVar(&f.location, "location", "", "installation address")
	fs.StringVar(&f.engineer, "engineer", "", "responsible engineer")
	fs.StringVar(&f.date, "date", "", "project date (YYYY-MM-DD)")
	fs.StringVar(&f.installation, "installation", "", "wall, hanging or floor")

	_ = cmd.MarkFlagRequired("width")
	_ = cmd.MarkFlagRequired("height")
}

// input converts the flags parsed by cmd into a sizing request.
func (f *inputFlags) input(cmd *cobra.Command) (application.CalculateInput, error) {
	env, ok := catalog.ParseEnvironment(normalize(f.environment))
	if !ok {
		return application.CalculateInput{}, &flagError{flag: "environment", value: f.environment}
	}
	mounting, ok := sizing.ParseMounting(normalize(f.mounting))
	if !ok {
		return application.CalculateInput{}, &flagError{flag: "mounting", value: f.mounting}
	}
	phase, ok := catalog.ParsePhase(normalize(f.phase))
	if !ok {
		return application.CalculateInput{}, &flagError{flag: "phase", value: f.phase}
	}
	installation, ok := application.ParseInstallation(f.installation)
	if !ok {
		return application.CalculateInput{}, &flagError{flag: "installation", value: f.installation}
	}

	reserve := sizing.ReservePolicy{
		Mode:             sizing.ReservePercent,
		ModulePct:        f.reservePct,
		ExtraPSU:         f.extraPSU,
		ExtraCard:        f.extraCard,
		DoublePatchCords: f.doublePatchCords,
	}
	if cmd.Flags().Changed("reserve-count") {
		reserve.Mode = sizing.ReserveCount
		reserve.ModulePct = 0
		reserve.ModuleCount = f.reserveCount
	}

	return application.CalculateInput{
		Project: application.Project{
			Name:         strings.TrimSpace(f.project),
			Client:       strings.TrimSpace(f.client),
			Location:     strings.TrimSpace(f.location),
			Engineer:     strings.TrimSpace(f.engineer),
			Date:         strings.TrimSpace(f.date),
			Installation: installation,
		},
		Request: sizing.ScreenRequest{
			WidthMM:     f.width,
			HeightMM:    f.height,
			Environment: env,
			PitchMM:     f.pitch,
			Mounting:    mounting,
			CabinetID:   catalog.CabinetID(strings.TrimSpace(f.cabinet)),
			RefreshHz:   f.refresh,
			Technology:  strings.TrimSpace(f.technology),
		},
		Selection: sizing.ComponentSelection{
			ProcessorID:     catalog.ProcessorID(strings.TrimSpace(f.processor)),
			CardID:          catalog.CardID(strings.TrimSpace(f.card)),
			ModulesPerCard:  f.modulesPerCard,
			ModulesPerPSU:   f.modulesPerPSU,
			PSUWatts:        f.psuWatts,
			Phase:           phase,
			PowerReservePct: f.powerReservePct,
			Reserve:         reserve,
		},
	}, nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
