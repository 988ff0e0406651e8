// Package roster renders the "who is where" summary members ask for.
package roster

import (
	"strings"

	"keywatch/internal/presence/models"
	id "keywatch/pkg/domain"
)

// Empty is returned when nobody is on campus.
const Empty = "Nobody seems to be around..."

var sections = []struct {
	loc   id.Location
	title string
}{
	{id.LocationLab, "Lab"},
	{id.LocationExpRoom, "Experiment room"},
	{id.LocationOnCampus, "On campus"},
}

// Format groups members by on-campus location in a fixed section order.
// Members who are away are omitted.
func Format(members []models.Member) string {
	var b strings.Builder
	for _, s := range sections {
		var names []string
		for _, m := range members {
			if m.Location == s.loc {
				names = append(names, m.DisplayName)
			}
		}
		if len(names) == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(s.title)
		for _, n := range names {
			b.WriteString("\n- ")
			b.WriteString(n)
		}
	}
	if b.Len() == 0 {
		return Empty
	}
	return b.String()
}
