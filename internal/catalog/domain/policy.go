package catalog

// CableRule maps a current ceiling to a supply cable. A zero MaxAmps is the
// catch-all and must close the table.
type CableRule struct {
	MaxAmps float64 `json:"max_amps" yaml:"max_amps" toml:"max_amps"`
	Label   string  `json:"label" yaml:"label" toml:"label"`
}

// Policy holds the product thresholds and factors the engine applies.
type Policy struct {
	PortWarnPct        float64                     `json:"port_warn_pct" yaml:"port_warn_pct" toml:"port_warn_pct"`
	BreakerMarginPct   float64                     `json:"breaker_margin_pct" yaml:"breaker_margin_pct" toml:"breaker_margin_pct"`
	CableRules         map[Phase][]CableRule       `json:"cable_rules" yaml:"cable_rules" toml:"cable_rules"`
	DefaultBuckets     map[Environment]PowerBucket `json:"default_buckets" yaml:"default_buckets" toml:"default_buckets"`
	ModuleWeightKG     map[Environment]float64     `json:"module_weight_kg" yaml:"module_weight_kg" toml:"module_weight_kg"`
	FrameKGPerMeter    float64                     `json:"frame_kg_per_m" yaml:"frame_kg_per_m" toml:"frame_kg_per_m"`
	MiscHardwarePct    float64                     `json:"misc_hardware_pct" yaml:"misc_hardware_pct" toml:"misc_hardware_pct"`
	ModulesPerBox      int                         `json:"modules_per_box" yaml:"modules_per_box" toml:"modules_per_box"`
	BoxWeightKG        float64                     `json:"box_weight_kg" yaml:"box_weight_kg" toml:"box_weight_kg"`
	BoxVolumeM3        float64                     `json:"box_volume_m3" yaml:"box_volume_m3" toml:"box_volume_m3"`
	MagnetsPerModule   int                         `json:"magnets_per_module" yaml:"magnets_per_module" toml:"magnets_per_module"`
	MagnetBatch        int                         `json:"magnet_batch" yaml:"magnet_batch" toml:"magnet_batch"`
	FastenerReservePct float64                     `json:"fastener_reserve_pct" yaml:"fastener_reserve_pct" toml:"fastener_reserve_pct"`
	ScrewsPerPSU       int                         `json:"screws_per_psu" yaml:"screws_per_psu" toml:"screws_per_psu"`
	ScrewReservePct    float64                     `json:"screw_reserve_pct" yaml:"screw_reserve_pct" toml:"screw_reserve_pct"`
}

// DefaultPolicy returns the canonical thresholds.
func DefaultPolicy() Policy {
	return Policy{
		PortWarnPct:      85,
		BreakerMarginPct: 25,
		CableRules: map[Phase][]CableRule{
			PhaseSingle220: {
				{MaxAmps: 60, Label: "3×16mm²"},
				{MaxAmps: 100, Label: "3×25mm²"},
				{Label: "3×35mm²"},
			},
			PhaseThree380: {
				{MaxAmps: 32, Label: "5×6mm²"},
				{MaxAmps: 63, Label: "5×10mm²"},
				{MaxAmps: 100, Label: "5×16mm²"},
				{Label: "5×25mm²"},
			},
		},
		DefaultBuckets: map[Environment]PowerBucket{
			EnvironmentIndoor:  {Environment: EnvironmentIndoor, AvgWattsPerModule: 8, PeakWattsPerModule: 24},
			EnvironmentOutdoor: {Environment: EnvironmentOutdoor, AvgWattsPerModule: 15, PeakWattsPerModule: 45},
		},
		ModuleWeightKG: map[Environment]float64{
			EnvironmentIndoor:  0.37,
			EnvironmentOutdoor: 0.5,
		},
		FrameKGPerMeter:    2,
		MiscHardwarePct:    5,
		ModulesPerBox:      40,
		BoxWeightKG:        22,
		BoxVolumeM3:        0.06,
		MagnetsPerModule:   4,
		MagnetBatch:        500,
		FastenerReservePct: 3,
		ScrewsPerPSU:       4,
		ScrewReservePct:    10,
	}
}

// CableRulesFor returns the cable table for a phase.
func (p Policy) CableRulesFor(phase Phase) []CableRule {
	return p.CableRules[phase]
}

// PolicyOverlay is a partial policy. A nil field keeps the base value; a set
// field replaces it, zero included.
type PolicyOverlay struct {
	PortWarnPct        *float64                    `json:"port_warn_pct,omitempty" yaml:"port_warn_pct" toml:"port_warn_pct"`
	BreakerMarginPct   *float64                    `json:"breaker_margin_pct,omitempty" yaml:"breaker_margin_pct" toml:"breaker_margin_pct"`
	CableRules         map[Phase][]CableRule       `json:"cable_rules,omitempty" yaml:"cable_rules" toml:"cable_rules"`
	DefaultBuckets     map[Environment]PowerBucket `json:"default_buckets,omitempty" yaml:"default_buckets" toml:"default_buckets"`
	ModuleWeightKG     map[Environment]float64     `json:"module_weight_kg,omitempty" yaml:"module_weight_kg" toml:"module_weight_kg"`
	FrameKGPerMeter    *float64                    `json:"frame_kg_per_m,omitempty" yaml:"frame_kg_per_m" toml:"frame_kg_per_m"`
	MiscHardwarePct    *float64                    `json:"misc_hardware_pct,omitempty" yaml:"misc_hardware_pct" toml:"misc_hardware_pct"`
	ModulesPerBox      *int                        `json:"modules_per_box,omitempty" yaml:"modules_per_box" toml:"modules_per_box"`
	BoxWeightKG        *float64                    `json:"box_weight_kg,omitempty" yaml:"box_weight_kg" toml:"box_weight_kg"`
	BoxVolumeM3        *float64                    `json:"box_volume_m3,omitempty" yaml:"box_volume_m3" toml:"box_volume_m3"`
	MagnetsPerModule   *int                        `json:"magnets_per_module,omitempty" yaml:"magnets_per_module" toml:"magnets_per_module"`
	MagnetBatch        *int                        `json:"magnet_batch,omitempty" yaml:"magnet_batch" toml:"magnet_batch"`
	FastenerReservePct *float64                    `json:"fastener_reserve_pct,omitempty" yaml:"fastener_reserve_pct" toml:"fastener_reserve_pct"`
	ScrewsPerPSU       *int                        `json:"screws_per_psu,omitempty" yaml:"screws_per_psu" toml:"screws_per_psu"`
	ScrewReservePct    *float64                    `json:"screw_reserve_pct,omitempty" yaml:"screw_reserve_pct" toml:"screw_reserve_pct"`
}

// Merge applies the set fields of o onto p.
func (p Policy) Merge(o PolicyOverlay) Policy {
	out := p.clone()
	setFloat(&out.PortWarnPct, o.PortWarnPct)
	setFloat(&out.BreakerMarginPct, o.BreakerMarginPct)
	for phase, rules := range o.CableRules {
		out.CableRules[phase] = append([]CableRule(nil), rules...)
	}
	for env, bucket := range o.DefaultBuckets {
		bucket.Environment = env
		out.DefaultBuckets[env] = bucket
	}
	for env, weight := range o.ModuleWeightKG {
		out.ModuleWeightKG[env] = weight
	}
	setFloat(&out.FrameKGPerMeter, o.FrameKGPerMeter)
	setFloat(&out.MiscHardwarePct, o.MiscHardwarePct)
	setInt(&out.ModulesPerBox, o.ModulesPerBox)
	setFloat(&out.BoxWeightKG, o.BoxWeightKG)
	setFloat(&out.BoxVolumeM3, o.BoxVolumeM3)
	setInt(&out.MagnetsPerModule, o.MagnetsPerModule)
	setInt(&out.MagnetBatch, o.MagnetBatch)
	setFloat(&out.FastenerReservePct, o.FastenerReservePct)
	setInt(&out.ScrewsPerPSU, o.ScrewsPerPSU)
	setFloat(&out.ScrewReservePct, o.ScrewReservePct)
	return out
}

// AsOverlay returns an overlay that sets every field of p.
func (p Policy) AsOverlay() PolicyOverlay {
	c := p.clone()
	return PolicyOverlay{
		PortWarnPct:        &c.PortWarnPct,
		BreakerMarginPct:   &c.BreakerMarginPct,
		CableRules:         c.CableRules,
		DefaultBuckets:     c.DefaultBuckets,
		ModuleWeightKG:     c.ModuleWeightKG,
		FrameKGPerMeter:    &c.FrameKGPerMeter,
		MiscHardwarePct:    &c.MiscHardwarePct,
		ModulesPerBox:      &c.ModulesPerBox,
		BoxWeightKG:        &c.BoxWeightKG,
		BoxVolumeM3:        &c.BoxVolumeM3,
		MagnetsPerModule:   &c.MagnetsPerModule,
		MagnetBatch:        &c.MagnetBatch,
		FastenerReservePct: &c.FastenerReservePct,
		ScrewsPerPSU:       &c.ScrewsPerPSU,
		ScrewReservePct:    &c.ScrewReservePct,
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func (p Policy) clone() Policy {
	out := p
	out.CableRules = make(map[Phase][]CableRule, len(p.CableRules))
	for phase, rules := range p.CableRules {
		out.CableRules[phase] = append([]CableRule(nil), rules...)
	}
	out.DefaultBuckets = make(map[Environment]PowerBucket, len(p.DefaultBuckets))
	for env, b := range p.DefaultBuckets {
		out.DefaultBuckets[env] = b
	}
	out.ModuleWeightKG = make(map[Environment]float64, len(p.ModuleWeightKG))
	for env, w := range p.ModuleWeightKG {
		out.ModuleWeightKG[env] = w
	}
	return out
}

func (p Policy) validate() error {
	if p.PortWarnPct <= 0 || p.PortWarnPct > 100 {
		return invalidEntry("port warning threshold %.1f%% outside (0,100]", p.PortWarnPct)
	}
	if p.BreakerMarginPct < 0 {
		return invalidEntry("breaker margin must not be negative")
	}
	for _, phase := range []Phase{PhaseSingle220, PhaseThree380} {
		rules := p.CableRules[phase]
		if len(rules) == 0 {
			return invalidEntry("cable table for %s is empty", phase)
		}
		last := 0.0
		for i, rule := range rules {
			if rule.Label == "" {
				return invalidEntry("cable rule %d for %s has no label", i, phase)
			}
			isLast := i == len(rules)-1
			if rule.MaxAmps == 0 && !isLast {
				return invalidEntry("cable catch-all for %s must be the last rule", phase)
			}
			if isLast && rule.MaxAmps != 0 {
				return invalidEntry("cable table for %s must end with a catch-all", phase)
			}
			if rule.MaxAmps != 0 && rule.MaxAmps <= last {
				return invalidEntry("cable ceilings for %s must ascend", phase)
			}
			last = rule.MaxAmps
		}
	}
	for _, env := range []Environment{EnvironmentIndoor, EnvironmentOutdoor} {
		b, ok := p.DefaultBuckets[env]
		if !ok || b.AvgWattsPerModule <= 0 || b.PeakWattsPerModule < b.AvgWattsPerModule {
			return invalidEntry("default power bucket for %s needs 0 < avg <= peak", env)
		}
		if p.ModuleWeightKG[env] <= 0 {
			return invalidEntry("module weight for %s must be positive", env)
		}
	}
	if p.ModulesPerBox <= 0 || p.MagnetsPerModule <= 0 || p.MagnetBatch <= 0 || p.ScrewsPerPSU <= 0 {
		return invalidEntry("packing and fastener counts must be positive")
	}
	if p.FrameKGPerMeter < 0 || p.MiscHardwarePct < 0 || p.BoxWeightKG < 0 || p.BoxVolumeM3 < 0 ||
		p.FastenerReservePct < 0 || p.ScrewReservePct < 0 {
		return invalidEntry("weights, volumes and reserves must not be negative")
	}
	return nil
}
