package interfaces

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	"ledwall-configurator/internal/sizing/application"
)

// BuildReportText renders the final report as aligned plain text.
func BuildReportText(r application.Report) ([]byte, error) {
	var buf bytes.Buffer
	title := r.Title()
	fmt.Fprintln(&buf, title)
	fmt.Fprintln(&buf, strings.Repeat("=", len([]rune(title))))

	for _, w := range r.Warnings {
		fmt.Fprintf(&buf, "WARNING: %s\n", w)
	}

	tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	for _, section := range reportSections(r) {
		fmt.Fprintf(tw, "\n[%s]\n", section.title)
		for _, row := range section.rows {
			fmt.Fprintf(tw, "%s\t%s\n", row.label, row.value)
		}
	}
	if err := tw.Flush(); err != nil {
		return nil, err
	}

	fmt.Fprintln(&buf, "\n[Bill of materials]")
	tw = tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tItem\tSpecification\tQty\tUnit")
	for _, line := range r.BOM {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", line.Position, line.Item, line.Spec, formatQuantity(line.Quantity), line.Unit)
	}
	if err := tw.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
