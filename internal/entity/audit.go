package entity

import (
	"sort"

	"github.com/opendatamd/regcrawl/internal/logger"
)

// AuditData flags columns that were neither consumed by a parser nor
// covered by the ignore list. Diagnostic only: it never halts processing.
func AuditData(log logger.Interface, rest map[string]string, ignore []string) {
	ignored := make(map[string]bool, len(ignore))
	for _, name := range ignore {
		ignored[name] = true
	}

	var flagged []string
	for name, value := range rest {
		if value == "" || ignored[name] {
			continue
		}
		flagged = append(flagged, name)
	}
	if len(flagged) == 0 {
		return
	}
	sort.Strings(flagged)
	for _, name := range flagged {
		log.Warn("Unconsumed column in source row",
			"column", name,
			"value", rest[name],
		)
	}
}
