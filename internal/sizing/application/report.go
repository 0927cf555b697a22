package application

import (
	"fmt"
	"strings"
	"time"

	sizing "ledwall-configurator/internal/sizing/domain"
)

// Installation is where the screen is placed.
type Installation string

const (
	InstallationWall    Installation = "wall"
	InstallationHanging Installation = "hanging"
	InstallationFloor   Installation = "floor"
)

// ParseInstallation normalizes a user supplied installation type. Empty is allowed.
func ParseInstallation(value string) (Installation, bool) {
	switch Installation(strings.ToLower(strings.TrimSpace(value))) {
	case "":
		return "", true
	case InstallationWall:
		return InstallationWall, true
	case InstallationHanging:
		return InstallationHanging, true
	case InstallationFloor:
		return InstallationFloor, true
	default:
		return "", false
	}
}

// Project is the passport printed on every report. It never affects sizing.
type Project struct {
	Name         string       `json:"name,omitempty"`
	Client       string       `json:"client,omitempty"`
	Location     string       `json:"location,omitempty"`
	Engineer     string       `json:"engineer,omitempty"`
	Date         string       `json:"date,omitempty"`
	Installation Installation `json:"installation,omitempty"`
}

func (p Project) validate() error {
	if _, ok := ParseInstallation(string(p.Installation)); !ok {
		return fmt.Errorf("%w: installation %q", ErrInvalidProject, p.Installation)
	}
	if p.Date != "" {
		if _, err := time.Parse("2006-01-02", p.Date); err != nil {
			return fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalidProject, p.Date)
		}
	}
	return nil
}

// FileName is the download name of a report in format.
func (p Project) FileName(format ExportFormat) string {
	var b strings.Builder
	for _, r := range strings.ToLower(p.Name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case b.Len() > 0 && !strings.HasSuffix(b.String(), "-"):
			b.WriteByte('-')
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		slug = "report"
	}
	return "ledwall-" + slug + "." + string(format)
}

// CalculateInput is one sizing request.
type CalculateInput struct {
	Project   Project                   `json:"project"`
	Request   sizing.ScreenRequest      `json:"request"`
	Selection sizing.ComponentSelection `json:"selection"`
}

// Report is a calculated result ready for rendering.
type Report struct {
	Project        Project                   `json:"project"`
	Request        sizing.ScreenRequest      `json:"request"`
	Selection      sizing.ComponentSelection `json:"selection"`
	ProcessorLabel string                    `json:"processor_label"`
	CardLabel      string                    `json:"card_label"`
	Result         sizing.SizingResult       `json:"result"`
	BOM            []sizing.BOMLine          `json:"bom"`
	Warnings       []string                  `json:"warnings,omitempty"`
	GeneratedAt    time.Time                 `json:"generated_at"`
}

// Title is the report heading.
func (r Report) Title() string {
	if r.Project.Name != "" {
		return "LED screen: " + r.Project.Name
	}
	return "LED screen calculation"
}

// ProjectDate returns the passport date or the generation day.
func (r Report) ProjectDate() string {
	if r.Project.Date != "" {
		return r.Project.Date
	}
	return r.GeneratedAt.Format("2006-01-02")
}
