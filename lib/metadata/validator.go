package metadata

import (
	"fmt"
	"sort"
	"strings"

	"cpm-backend/models/api/apierrors"
	dbmodels "cpm-backend/models/db"
)

type fieldKind int

const (
	kindString fieldKind = iota
	kindNumber
	kindBool
)

type fieldRule struct {
	kind     fieldKind
	required bool
}

// isoSchema is the metadata contract for ISO 19650 style documents:
// the discipline and document type always travel with the file, the
// rest is optional but typed when present.
var isoSchema = map[string]fieldRule{
	"discipline":    {kind: kindString, required: true},
	"document_type": {kind: kindString, required: true},
	"originator":    {kind: kindString},
	"zone":          {kind: kindString},
	"level":         {kind: kindString},
	"sheet_number":  {kind: kindNumber},
	"superseded":    {kind: kindBool},
}

// ValidateISO checks document metadata against the ISO schema and
// reports every violation at once, so the client fixes the upload in
// one round trip.
func ValidateISO(md dbmodels.Metadata) error {
	problems := []string{}
	for key, rule := range isoSchema {
		value, exist := md[key]
		if !exist || value == nil {
			if rule.required {
				problems = append(problems, fmt.Sprintf("%s is required", key))
			}
			continue
		}
		if !matchesKind(value, rule.kind) {
			problems = append(problems, fmt.Sprintf("%s has wrong type", key))
		}
	}
	for key := range md {
		if _, known := isoSchema[key]; !known {
			problems = append(problems, fmt.Sprintf("%s is not a known field", key))
		}
	}
	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return apierrors.Validation("invalid metadata: %s", strings.Join(problems, "; "))
}

func matchesKind(value any, kind fieldKind) bool {
	switch kind {
	case kindString:
		s, ok := value.(string)
		return ok && s != ""
	case kindNumber:
		switch value.(type) {
		case float64, float32, int, int64:
			return true
		}
		return false
	case kindBool:
		_, ok := value.(bool)
		return ok
	}
	return false
}
