package monitor

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
)

// Render formats the snapshot as an aligned ASCII table, suitable for
// logging or a debugging dashboard. It is a Stringer-style convenience,
// not a CLI front-end.
func (s Snapshot) Render() string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)

	fmt.Fprintf(w, "enabled\t%v\n", s.Enabled)
	fmt.Fprintf(w, "total\t%d\n", s.Total)
	fmt.Fprintf(w, "history_depth\t%d\n", s.HistoryDepth)

	types := make([]string, 0, len(s.ByType))
	for t := range s.ByType {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Fprintf(w, "type:%s\t%d\n", t, s.ByType[t])
	}

	sevs := make([]Severity, 0, len(s.BySeverity))
	for sv := range s.BySeverity {
		sevs = append(sevs, sv)
	}
	sort.Slice(sevs, func(i, j int) bool { return sevs[i] < sevs[j] })
	for _, sv := range sevs {
		fmt.Fprintf(w, "severity:%s\t%d\n", sv, s.BySeverity[sv])
	}

	w.Flush()
	return sb.String()
}
