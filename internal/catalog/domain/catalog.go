package catalog

import (
	"sort"
)

const (
	// PixelsPerPort is the pixel load one processor video port carries.
	PixelsPerPort = 650000
	// ModuleWidthMM is the fixed module width.
	ModuleWidthMM = 320
	// ModuleHeightMM is the fixed module height.
	ModuleHeightMM = 160
)

// Environment is the installation environment of a screen.
type Environment string

const (
	EnvironmentIndoor  Environment = "indoor"
	EnvironmentOutdoor Environment = "outdoor"
)

// ParseEnvironment normalizes a user supplied environment.
func ParseEnvironment(value string) (Environment, bool) {
	switch Environment(value) {
	case EnvironmentIndoor, EnvironmentOutdoor:
		return Environment(value), true
	default:
		return "", false
	}
}

// Phase is the mains supply of the installation.
type Phase string

const (
	PhaseSingle220 Phase = "single_220"
	PhaseThree380  Phase = "three_380"
)

// ParsePhase normalizes a user supplied phase.
func ParsePhase(value string) (Phase, bool) {
	switch Phase(value) {
	case PhaseSingle220, PhaseThree380:
		return Phase(value), true
	default:
		return "", false
	}
}

// ProcessorFamily groups processors by how they drive the screen.
type ProcessorFamily string

const (
	FamilySync  ProcessorFamily = "sync"
	FamilyAsync ProcessorFamily = "async"
)

type (
	ProcessorID string
	CardID      string
	CabinetID   string
)

// Processor is a video processor or player.
type Processor struct {
	ID     ProcessorID     `json:"id" yaml:"id" toml:"id"`
	Label  string          `json:"label" yaml:"label" toml:"label"`
	Family ProcessorFamily `json:"family" yaml:"family" toml:"family"`
	Ports  int             `json:"ports" yaml:"ports" toml:"ports"`
}

// ReceivingCard is a controller board driving a cluster of modules.
type ReceivingCard struct {
	ID          CardID `json:"id" yaml:"id" toml:"id"`
	Label       string `json:"label" yaml:"label" toml:"label"`
	MaxWidthPx  int    `json:"max_width_px" yaml:"max_width_px" toml:"max_width_px"`
	MaxHeightPx int    `json:"max_height_px" yaml:"max_height_px" toml:"max_height_px"`
}

// CapacityPx is the pixel count one card can drive.
func (c ReceivingCard) CapacityPx() int {
	return c.MaxWidthPx * c.MaxHeightPx
}

// Cabinet is a pre-assembled frame holding modules.
type Cabinet struct {
	ID       CabinetID `json:"id" yaml:"id" toml:"id"`
	Label    string    `json:"label" yaml:"label" toml:"label"`
	WidthMM  int       `json:"width_mm" yaml:"width_mm" toml:"width_mm"`
	HeightMM int       `json:"height_mm" yaml:"height_mm" toml:"height_mm"`
	WeightKG float64   `json:"weight_kg" yaml:"weight_kg" toml:"weight_kg"`
}

// PowerBucket holds per-module consumption for a half-open pitch range
// [MinPitch, MaxPitch). MaxPitch of zero leaves the range unbounded.
type PowerBucket struct {
	Environment        Environment `json:"environment" yaml:"environment" toml:"environment"`
	MinPitch           float64     `json:"min_pitch" yaml:"min_pitch" toml:"min_pitch"`
	MaxPitch           float64     `json:"max_pitch" yaml:"max_pitch" toml:"max_pitch"`
	AvgWattsPerModule  float64     `json:"avg_w" yaml:"avg_w" toml:"avg_w"`
	PeakWattsPerModule float64     `json:"peak_w" yaml:"peak_w" toml:"peak_w"`
}

// Contains reports whether pitch falls into the bucket.
func (b PowerBucket) Contains(env Environment, pitch float64) bool {
	if b.Environment != env || pitch < b.MinPitch {
		return false
	}
	return b.MaxPitch == 0 || pitch < b.MaxPitch
}

// Catalog is the read-only reference data snapshot used by the sizing engine.
type Catalog struct {
	processors   map[ProcessorID]Processor
	cards        map[CardID]ReceivingCard
	cabinets     map[CabinetID]Cabinet
	buckets      []PowerBucket
	pitches      map[Environment][]float64
	refreshRates []int
	policy       Policy
}

// Tables is the plain form of a catalog, used for construction and listing.
type Tables struct {
	Processors   []Processor               `json:"processors" yaml:"processors" toml:"processors"`
	Cards        []ReceivingCard           `json:"receiving_cards" yaml:"receiving_cards" toml:"receiving_cards"`
	Cabinets     []Cabinet                 `json:"cabinets" yaml:"cabinets" toml:"cabinets"`
	PowerBuckets []PowerBucket             `json:"power_buckets" yaml:"power_buckets" toml:"power_buckets"`
	Pitches      map[Environment][]float64 `json:"pitches" yaml:"pitches" toml:"pitches"`
	RefreshRates []int                     `json:"refresh_rates" yaml:"refresh_rates" toml:"refresh_rates"`
	Policy       Policy                    `json:"policy" yaml:"policy" toml:"policy"`
}

// New validates tables and builds an immutable catalog.
func New(t Tables) (*Catalog, error) {
	c := &Catalog{
		processors:   make(map[ProcessorID]Processor, len(t.Processors)),
		cards:        make(map[CardID]ReceivingCard, len(t.Cards)),
		cabinets:     make(map[CabinetID]Cabinet, len(t.Cabinets)),
		buckets:      append([]PowerBucket(nil), t.PowerBuckets...),
		pitches:      make(map[Environment][]float64, len(t.Pitches)),
		refreshRates: append([]int(nil), t.RefreshRates...),
		policy:       t.Policy.clone(),
	}
	for _, p := range t.Processors {
		if p.ID == "" {
			return nil, invalidEntry("processor with empty id")
		}
		if _, dup := c.processors[p.ID]; dup {
			return nil, invalidEntry("duplicate processor %q", p.ID)
		}
		if p.Ports <= 0 {
			return nil, invalidEntry("processor %q ports must be positive", p.ID)
		}
		c.processors[p.ID] = p
	}
	for _, card := range t.Cards {
		if card.ID == "" {
			return nil, invalidEntry("receiving card with empty id")
		}
		if _, dup := c.cards[card.ID]; dup {
			return nil, invalidEntry("duplicate receiving card %q", card.ID)
		}
		if card.CapacityPx() <= 0 {
			return nil, invalidEntry("receiving card %q capacity must be positive", card.ID)
		}
		c.cards[card.ID] = card
	}
	for _, cab := range t.Cabinets {
		if cab.ID == "" {
			return nil, invalidEntry("cabinet with empty id")
		}
		if _, dup := c.cabinets[cab.ID]; dup {
			return nil, invalidEntry("duplicate cabinet %q", cab.ID)
		}
		if cab.WidthMM <= 0 || cab.HeightMM <= 0 || cab.WeightKG <= 0 {
			return nil, invalidEntry("cabinet %q dimensions and weight must be positive", cab.ID)
		}
		c.cabinets[cab.ID] = cab
	}
	for _, b := range c.buckets {
		if _, ok := ParseEnvironment(string(b.Environment)); !ok {
			return nil, invalidEntry("power bucket environment %q", b.Environment)
		}
		if b.MaxPitch != 0 && b.MaxPitch <= b.MinPitch {
			return nil, invalidEntry("power bucket %s [%.2f,%.2f) is empty", b.Environment, b.MinPitch, b.MaxPitch)
		}
		if b.AvgWattsPerModule <= 0 || b.PeakWattsPerModule < b.AvgWattsPerModule {
			return nil, invalidEntry("power bucket %s [%.2f,%.2f) needs 0 < avg <= peak", b.Environment, b.MinPitch, b.MaxPitch)
		}
	}
	for env, list := range t.Pitches {
		if _, ok := ParseEnvironment(string(env)); !ok {
			return nil, invalidEntry("pitch list environment %q", env)
		}
		for _, p := range list {
			if p <= 0 {
				return nil, invalidEntry("%s pitch %.2f must be positive", env, p)
			}
		}
		sorted := append([]float64(nil), list...)
		sort.Float64s(sorted)
		c.pitches[env] = sorted
	}
	if err := c.policy.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// PortsFor returns the number of video ports of a processor.
func (c *Catalog) PortsFor(id ProcessorID) (int, error) {
	p, err := c.Processor(id)
	if err != nil {
		return 0, err
	}
	return p.Ports, nil
}

// Processor returns a processor by id.
func (c *Catalog) Processor(id ProcessorID) (Processor, error) {
	if c == nil {
		return Processor{}, ErrNilCatalog
	}
	p, ok := c.processors[id]
	if !ok {
		return Processor{}, &KeyError{Table: "processor", Key: string(id)}
	}
	return p, nil
}

// PixelCapacityFor returns the pixel capacity of a receiving card.
func (c *Catalog) PixelCapacityFor(id CardID) (int, error) {
	card, err := c.Card(id)
	if err != nil {
		return 0, err
	}
	return card.CapacityPx(), nil
}

// Card returns a receiving card by id.
func (c *Catalog) Card(id CardID) (ReceivingCard, error) {
	if c == nil {
		return ReceivingCard{}, ErrNilCatalog
	}
	card, ok := c.cards[id]
	if !ok {
		return ReceivingCard{}, &KeyError{Table: "receiving card", Key: string(id)}
	}
	return card, nil
}

// CabinetDimsFor returns a cabinet by id.
func (c *Catalog) CabinetDimsFor(id CabinetID) (Cabinet, error) {
	if c == nil {
		return Cabinet{}, ErrNilCatalog
	}
	cab, ok := c.cabinets[id]
	if !ok {
		return Cabinet{}, &KeyError{Table: "cabinet", Key: string(id)}
	}
	return cab, nil
}

// PowerBucketFor returns the consumption bucket for a pitch. The first
// matching bucket wins; unmatched pitches fall back to the policy default.
func (c *Catalog) PowerBucketFor(env Environment, pitch float64) PowerBucket {
	if c == nil {
		return PowerBucket{}
	}
	for _, b := range c.buckets {
		if b.Contains(env, pitch) {
			return b
		}
	}
	fallback := c.policy.DefaultBuckets[env]
	fallback.Environment = env
	return fallback
}

// AllowsPitch reports whether pitch is offered for the environment.
func (c *Catalog) AllowsPitch(env Environment, pitch float64) bool {
	if c == nil {
		return false
	}
	for _, p := range c.pitches[env] {
		if p == pitch {
			return true
		}
	}
	return false
}

// Pitches returns the offered pitches for an environment in ascending order.
func (c *Catalog) Pitches(env Environment) []float64 {
	if c == nil {
		return nil
	}
	return append([]float64(nil), c.pitches[env]...)
}

// Policy returns a copy of the engineering policy.
func (c *Catalog) Policy() Policy {
	if c == nil {
		return Policy{}
	}
	return c.policy.clone()
}

// Tables returns the catalog contents with every table sorted by id.
func (c *Catalog) Tables() Tables {
	if c == nil {
		return Tables{}
	}
	t := Tables{
		Processors:   make([]Processor, 0, len(c.processors)),
		Cards:        make([]ReceivingCard, 0, len(c.cards)),
		Cabinets:     make([]Cabinet, 0, len(c.cabinets)),
		PowerBuckets: append([]PowerBucket(nil), c.buckets...),
		Pitches:      make(map[Environment][]float64, len(c.pitches)),
		RefreshRates: append([]int(nil), c.refreshRates...),
		Policy:       c.policy.clone(),
	}
	for _, p := range c.processors {
		t.Processors = append(t.Processors, p)
	}
	for _, card := range c.cards {
		t.Cards = append(t.Cards, card)
	}
	for _, cab := range c.cabinets {
		t.Cabinets = append(t.Cabinets, cab)
	}
	for env, list := range c.pitches {
		t.Pitches[env] = append([]float64(nil), list...)
	}
	sort.Slice(t.Processors, func(i, j int) bool { return t.Processors[i].ID < t.Processors[j].ID })
	sort.Slice(t.Cards, func(i, j int) bool { return t.Cards[i].ID < t.Cards[j].ID })
	sort.Slice(t.Cabinets, func(i, j int) bool { return t.Cabinets[i].ID < t.Cabinets[j].ID })
	return t
}

// Overlay is a partial catalog as stored in a file or the database.
type Overlay struct {
	Processors   []Processor               `json:"processors,omitempty" yaml:"processors" toml:"processors"`
	Cards        []ReceivingCard           `json:"receiving_cards,omitempty" yaml:"receiving_cards" toml:"receiving_cards"`
	Cabinets     []Cabinet                 `json:"cabinets,omitempty" yaml:"cabinets" toml:"cabinets"`
	PowerBuckets []PowerBucket             `json:"power_buckets,omitempty" yaml:"power_buckets" toml:"power_buckets"`
	Pitches      map[Environment][]float64 `json:"pitches,omitempty" yaml:"pitches" toml:"pitches"`
	RefreshRates []int                     `json:"refresh_rates,omitempty" yaml:"refresh_rates" toml:"refresh_rates"`
	Policy       PolicyOverlay             `json:"policy" yaml:"policy" toml:"policy"`
}

// Overlay replaces every non-empty table of t with the one from o and merges
// the policy field by field.
func (t Tables) Overlay(o Overlay) Tables {
	out := t
	if len(o.Processors) > 0 {
		out.Processors = o.Processors
	}
	if len(o.Cards) > 0 {
		out.Cards = o.Cards
	}
	if len(o.Cabinets) > 0 {
		out.Cabinets = o.Cabinets
	}
	if len(o.PowerBuckets) > 0 {
		out.PowerBuckets = o.PowerBuckets
	}
	if len(o.Pitches) > 0 {
		out.Pitches = make(map[Environment][]float64, len(t.Pitches))
		for env, list := range t.Pitches {
			out.Pitches[env] = list
		}
		for env, list := range o.Pitches {
			out.Pitches[env] = list
		}
	}
	if len(o.RefreshRates) > 0 {
		out.RefreshRates = o.RefreshRates
	}
	out.Policy = t.Policy.Merge(o.Policy)
	return out
}

// AsOverlay returns t as an overlay that sets every table and policy field.
func (t Tables) AsOverlay() Overlay {
	return Overlay{
		Processors:   t.Processors,
		Cards:        t.Cards,
		Cabinets:     t.Cabinets,
		PowerBuckets: t.PowerBuckets,
		Pitches:      t.Pitches,
		RefreshRates: t.RefreshRates,
		Policy:       t.Policy.AsOverlay(),
	}
}
