package sizing

import (
	"math"

	catalog "ledwall-configurator/internal/catalog/domain"
)

// tolerance is the relative slack applied before rounding, so that
// 5.000000000001 modules stays 5 and 2999.9999999 pixels stays 3000.
// A ceiling may therefore undershoot its quotient by at most x*tolerance.
const tolerance = 1e-9

const (
	// MaxDimensionMM bounds each requested axis. Larger screens are rejected
	// as ErrInvalidDimension so that every derived count fits in an int.
	MaxDimensionMM = 1_000_000
	// MaxAxisPixels bounds the resolution on each axis.
	MaxAxisPixels = 1 << 22
)

// Geometry is the module grid fitted to a requested size.
type Geometry struct {
	Columns      int
	Rows         int
	RealWidthMM  int
	RealHeightMM int
	ModuleCount  int
}

// AreaM2 returns the real screen area in square metres.
func (g Geometry) AreaM2() float64 {
	return float64(g.RealWidthMM) * float64(g.RealHeightMM) / 1e6
}

// Resolution is the pixel grid of a fitted screen.
type Resolution struct {
	Width       int
	Height      int
	TotalPixels int
}

// FitGeometry rounds the requested size up to whole modules.
func FitGeometry(widthMM, heightMM int) (Geometry, error) {
	if err := checkDimension("width_mm", widthMM); err != nil {
		return Geometry{}, err
	}
	if err := checkDimension("height_mm", heightMM); err != nil {
		return Geometry{}, err
	}
	cols := ceilDivInt(widthMM, catalog.ModuleWidthMM)
	rows := ceilDivInt(heightMM, catalog.ModuleHeightMM)
	return Geometry{
		Columns:      cols,
		Rows:         rows,
		RealWidthMM:  cols * catalog.ModuleWidthMM,
		RealHeightMM: rows * catalog.ModuleHeightMM,
		ModuleCount:  cols * rows,
	}, nil
}

func checkDimension(field string, mm int) error {
	if mm <= 0 {
		return invalid(ErrInvalidDimension, field, "must be positive, got %d", mm)
	}
	if mm > MaxDimensionMM {
		return invalid(ErrInvalidDimension, field, "must not exceed %d, got %d", MaxDimensionMM, mm)
	}
	return nil
}

// ResolutionFor floors the real size divided by pitch on each axis.
func ResolutionFor(g Geometry, pitch float64) (Resolution, error) {
	if pitch <= 0 || math.IsNaN(pitch) || math.IsInf(pitch, 0) {
		return Resolution{}, invalid(ErrInvalidPitch, "pitch_mm", "must be positive, got %v", pitch)
	}
	wf := float64(g.RealWidthMM) / pitch
	hf := float64(g.RealHeightMM) / pitch
	if wf > MaxAxisPixels || hf > MaxAxisPixels {
		return Resolution{}, invalid(ErrInvalidPitch, "pitch_mm",
			"%v mm yields more than %d pixels per axis", pitch, MaxAxisPixels)
	}
	w := floorTol(wf)
	h := floorTol(hf)
	return Resolution{Width: w, Height: h, TotalPixels: w * h}, nil
}

func ceilDivInt(a, b int) int {
	if a <= 0 {
		return 0
	}
	return a/b + btoi(a%b != 0)
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}

func ceilTol(x float64) int {
	return int(math.Ceil(x - slack(x)))
}

func floorTol(x float64) int {
	return int(math.Floor(x + slack(x)))
}

func slack(x float64) float64 {
	return tolerance * math.Max(1, math.Abs(x))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
