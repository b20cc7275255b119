package attendance

import (
	"strconv"
	"strings"
)

const selectionSeparator = "-attendance-"

// SelectedAttendances is the flattened result of a batch selection
type SelectedAttendances struct {
	InstanceIDs     []int64  `json:"instanceIds"`
	PrisonerNumbers []string `json:"prisonerNumbers"`
}

// Selection is one ticked row: a prisoner and the sessions ticked for them
type Selection struct {
	InstanceIDs    []int64
	PrisonerNumber string
}

// SelectionValue encodes a row the way ParseSelection reads it back
func SelectionValue(prisonerNumber string, instanceIDs ...int64) string {
	ids := make([]string, 0, len(instanceIDs))
	for _, id := range instanceIDs {
		ids = append(ids, strconv.FormatInt(id, 10))
	}
	return strings.Join(ids, ",") + selectionSeparator + prisonerNumber
}

// ParseSelection reads "<id1>[,<id2>...]-attendance-<prisonerNumber>".
// Ids that are not whole numbers are dropped. The row is rejected when the
// prisoner number is missing or no id survives.
func ParseSelection(value string) (Selection, bool) {
	rawIDs, prisonerNumber, found := strings.Cut(value, selectionSeparator)
	prisonerNumber = strings.TrimSpace(prisonerNumber)
	if !found || prisonerNumber == "" {
		return Selection{}, false
	}

	var ids []int64
	for _, raw := range strings.Split(rawIDs, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return Selection{}, false
	}
	return Selection{InstanceIDs: ids, PrisonerNumber: prisonerNumber}, true
}

// ParseSelections parses every row, skipping rejected ones
func ParseSelections(values []string) []Selection {
	out := make([]Selection, 0, len(values))
	for _, v := range values {
		if s, ok := ParseSelection(v); ok {
			out = append(out, s)
		}
	}
	return out
}

// ParseSelectedAttendances collects the distinct instance ids and prisoner
// numbers across all rows in order of first appearance
func ParseSelectedAttendances(values []string) SelectedAttendances {
	result := SelectedAttendances{InstanceIDs: []int64{}, PrisonerNumbers: []string{}}
	seenIDs := make(map[int64]bool)
	seenPrisoners := make(map[string]bool)

	for _, s := range ParseSelections(values) {
		for _, id := range s.InstanceIDs {
			if !seenIDs[id] {
				seenIDs[id] = true
				result.InstanceIDs = append(result.InstanceIDs, id)
			}
		}
		if !seenPrisoners[s.PrisonerNumber] {
			seenPrisoners[s.PrisonerNumber] = true
			result.PrisonerNumbers = append(result.PrisonerNumbers, s.PrisonerNumber)
		}
	}
	return result
}
