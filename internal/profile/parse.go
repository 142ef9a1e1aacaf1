package profile

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

// #region validator

// profileValidate checks struct tags on CompatibilityProfile.
var profileValidate = validator.New()

// Validate reports whether the self-report fields are complete and in range.
func Validate(p CompatibilityProfile) error {
	return profileValidate.Struct(p)
}

// #endregion validator

// #region parse

// ParseJSON decodes a stored profile blob. It returns false when the blob is
// malformed or any required field is missing or out of range. Derived fields
// are always recomputed rather than trusted from storage.
func ParseJSON(data []byte) (CompatibilityProfile, bool) {
	var p CompatibilityProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return CompatibilityProfile{}, false
	}
	if err := Validate(p); err != nil {
		return CompatibilityProfile{}, false
	}
	return Derive(p), true
}

// ParseRow converts a loosely typed row (as read from a JSON column) into a
// profile. Same contract as ParseJSON.
func ParseRow(row map[string]any) (CompatibilityProfile, bool) {
	if row == nil {
		return CompatibilityProfile{}, false
	}
	data, err := json.Marshal(row)
	if err != nil {
		return CompatibilityProfile{}, false
	}
	return ParseJSON(data)
}

// #endregion parse
