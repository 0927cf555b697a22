package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	catalog "ledwall-configurator/internal/catalog/domain"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadYAMLOverlaysDefaults(t *testing.T) {
	path := writeFile(t, "catalog.yaml", `
processors:
  - id: vx600-pro
    label: VX600 Pro
    family: sync
    ports: 6
  - id: h2
    label: H2
    family: sync
    ports: 40
pitches:
  indoor: [1.2, 2.5]
policy:
  port_warn_pct: 90
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ports, err := c.PortsFor("h2"); err != nil || ports != 40 {
		t.Fatalf("expected h2 with 40 ports, got %d (%v)", ports, err)
	}
	if _, err := c.PortsFor("vx1000-pro"); !errors.Is(err, catalog.ErrUnknownKey) {
		t.Fatalf("processor table must be replaced, got %v", err)
	}
	if _, err := c.PixelCapacityFor("a8s"); err != nil {
		t.Fatalf("cards must keep defaults: %v", err)
	}
	if !c.AllowsPitch(catalog.EnvironmentIndoor, 1.2) || c.AllowsPitch(catalog.EnvironmentIndoor, 1.86) {
		t.Fatalf("indoor pitches not replaced: %v", c.Pitches(catalog.EnvironmentIndoor))
	}
	if !c.AllowsPitch(catalog.EnvironmentOutdoor, 10) {
		t.Fatalf("outdoor pitches must keep defaults")
	}
	policy := c.Policy()
	if policy.PortWarnPct != 90 {
		t.Fatalf("expected warn 90, got %v", policy.PortWarnPct)
	}
	if policy.ModulesPerBox != 40 {
		t.Fatalf("expected default modules per box, got %d", policy.ModulesPerBox)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "catalog.toml", `
refresh_rates = [3840, 7680]

[policy]
breaker_margin_pct = 30

[[cabinets]]
id = "cab-500x500"
label = "Cabinet 500×500"
width_mm = 500
height_mm = 500
weight_kg = 8.5
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cab, err := c.CabinetDimsFor("cab-500x500")
	if err != nil {
		t.Fatalf("cabinet: %v", err)
	}
	if cab.WeightKG != 8.5 {
		t.Fatalf("expected 8.5 kg, got %v", cab.WeightKG)
	}
	if c.Policy().BreakerMarginPct != 30 {
		t.Fatalf("expected margin 30, got %v", c.Policy().BreakerMarginPct)
	}
	if got := c.Tables().RefreshRates; len(got) != 2 {
		t.Fatalf("expected 2 refresh rates, got %v", got)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	yamlPath := writeFile(t, "bad.yaml", "processor:\n  - id: x\n")
	if _, err := Load(yamlPath); err == nil {
		t.Fatalf("expected error for misspelled yaml key")
	}
	tomlPath := writeFile(t, "bad.toml", "port_warn = 90\n")
	if _, err := Load(tomlPath); err == nil {
		t.Fatalf("expected error for unknown toml key")
	}
}

func TestLoadRejectsInvalidEntries(t *testing.T) {
	path := writeFile(t, "catalog.yml", `
receiving_cards:
  - id: broken
    label: Broken
    max_width_px: 0
    max_height_px: 256
`)
	_, err := Load(path)
	if !errors.Is(err, catalog.ErrInvalidEntry) {
		t.Fatalf("expected ErrInvalidEntry, got %v", err)
	}
}

func TestDecodeUnsupportedFormat(t *testing.T) {
	_, err := Decode(".json", []byte("{}"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestEmptyFileKeepsDefaults(t *testing.T) {
	path := writeFile(t, "empty.yaml", "")
	c, err := Source{Path: path}.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(c.Tables().Processors) != len(catalog.DefaultTables().Processors) {
		t.Fatalf("expected default processors")
	}
}

func TestLoadExplicitZeroPolicy(t *testing.T) {
	files := map[string]string{
		"catalog.yaml": "policy:\n  misc_hardware_pct: 0\n  fastener_reserve_pct: 0\n  screw_reserve_pct: 0\n  breaker_margin_pct: 0\n",
		"catalog.toml": "[policy]\nmisc_hardware_pct = 0\nfastener_reserve_pct = 0\nscrew_reserve_pct = 0\nbreaker_margin_pct = 0\n",
	}
	for name, body := range files {
		c, err := Load(writeFile(t, name, body))
		if err != nil {
			t.Fatalf("%s: load: %v", name, err)
		}
		p := c.Policy()
		if p.MiscHardwarePct != 0 || p.FastenerReservePct != 0 || p.ScrewReservePct != 0 || p.BreakerMarginPct != 0 {
			t.Fatalf("%s: expected explicit zeros to override defaults, got %+v", name, p)
		}
		if p.PortWarnPct != catalog.DefaultPolicy().PortWarnPct {
			t.Fatalf("%s: expected default warn threshold kept, got %v", name, p.PortWarnPct)
		}
	}
}

func TestLoadRejectsExplicitZeroCount(t *testing.T) {
	path := writeFile(t, "catalog.yaml", "policy:\n  modules_per_box: 0\n")
	if _, err := Load(path); !errors.Is(err, catalog.ErrInvalidEntry) {
		t.Fatalf("expected ErrInvalidEntry for zero modules per box, got %v", err)
	}
}
