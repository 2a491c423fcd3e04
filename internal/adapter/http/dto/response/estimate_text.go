package response

import (
	"fmt"
	"strings"

	"restoredoc/internal/domain/adjuster"
	"restoredoc/internal/domain/entities"
)

// EstimateText renders a plain-text copy of the estimate for email or print.
func EstimateText(e entities.Estimate, label string) string {
	var b strings.Builder

	b.WriteString("RESTORATION ESTIMATE\n")
	if e.ID != "" {
		fmt.Fprintf(&b, "Estimate: %s (version %d, %s)\n", e.ID, e.Version, e.Status)
	}
	fmt.Fprintf(&b, "Damage type: %s\n", e.DamageType)
	if label != "" {
		fmt.Fprintf(&b, "Classification: %s\n", label)
	}
	if a := e.Assessment; a.AffectedAreaSqFt > 0 {
		fmt.Fprintf(&b, "Affected area: %g sq ft\n", a.AffectedAreaSqFt)
	}

	b.WriteString("\nLINE ITEMS\n")
	for _, li := range e.LineItems {
		fmt.Fprintf(&b, "  %-40s %8g %-8s x %10.2f = %10.2f", li.Description, li.Quantity, li.Unit, li.UnitPrice, li.Total)
		if li.Bucket != "" {
			fmt.Fprintf(&b, "  [%s]", li.Bucket)
		}
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "\nSubtotal: %.2f\n", e.Subtotal)
	if e.MarkupPercent > 0 {
		fmt.Fprintf(&b, "Markup (%g%%): %.2f\n", e.MarkupPercent, e.MarkupAmount)
	}
	fmt.Fprintf(&b, "TOTAL: %.2f\n", e.TotalEstimate)

	if adj := e.Adjustment; adj != nil {
		fmt.Fprintf(&b, "\nAdjusted from %.2f to %.2f (%s%%)\n", adj.OriginalTotal, adj.AdjustedTotal, adjuster.FormatPercent(adj.PercentChange))
	}
	writeList(&b, "HEALTH WARNINGS", e.HealthWarnings)
	writeList(&b, "COMPLIANCE NOTES", e.ComplianceNotes)
	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s\n", title)
	for _, s := range items {
		fmt.Fprintf(b, "  - %s\n", s)
	}
}
