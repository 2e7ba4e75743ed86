package services

import (
	"encoding/json"

	"zakupBack/internal/models"
)

// statusDiff builds the field_diffs JSON for a plain status move.
func statusDiff(from, to string) string {
	return diffJSON(map[string]models.FieldDiff{
		"status": {Old: from, New: to},
	})
}

func diffJSON(diffs map[string]models.FieldDiff) string {
	if len(diffs) == 0 {
		return ""
	}
	data, err := json.Marshal(diffs)
	if err != nil {
		return ""
	}
	return string(data)
}
