// Package report renders analysis results for the console.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/elliotchance/pie/v2"

	"github.com/vanshika/heronet/internal/domain"
)

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Write renders rep to w in the requested format. An empty format means text.
func Write(w io.Writer, format string, rep domain.Report) error {
	switch strings.ToLower(format) {
	case "", FormatText:
		return writeText(w, rep)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func writeText(w io.Writer, rep domain.Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Graph: %d entities, %d relationships\n\n", rep.EntityCount, rep.RelationshipCount)

	fmt.Fprintf(&b, "Top %d entities by betweenness centrality:\n", len(rep.TopEntities))
	lines := pie.Map(rep.TopEntities, func(s domain.EntityScore) string {
		return fmt.Sprintf("  %s: %s", s.Name, percent(s.Score))
	})
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "\nThe most connected entity is: %s (%s)\n", rep.MostConnected.Name, percent(rep.MostConnected.Score))

	sep := rep.Separation
	if sep.Path == nil {
		fmt.Fprintf(&b, "Degrees of separation between %s and %s could not be determined: %s\n", sep.Source, sep.Target, sep.Error)
	} else {
		fmt.Fprintf(&b, "The number of degrees of separation between %s and %s is: %d\n", sep.Source, sep.Target, sep.Path.Hops)
		if len(sep.Path.Nodes) > 1 {
			fmt.Fprintf(&b, "  via %s\n", strings.Join(sep.Path.Nodes, " -> "))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func percent(score float64) string {
	return fmt.Sprintf("%.2f%%", score*100)
}
