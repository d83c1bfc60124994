package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/claude/rpfocus/internal/models"
)

// ErrUnsupportedVersion is returned for blobs written by a newer release.
var ErrUnsupportedVersion = errors.New("unsupported state version")

// Encode serialises s with the current version tag.
func Encode(s models.State) ([]byte, error) {
	s.Version = models.StateVersion
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding state: %w", err)
	}
	return data, nil
}

// Decode parses a state blob. Blobs without a version tag are read as the
// browser localStorage format the app used before versioning, either bare or
// wrapped under LegacyStorageKey. Missing fields take their defaults.
func Decode(data []byte) (models.State, error) {
	data = unwrapLocalStorage(data)

	var head struct {
		Version *int `json:"version"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return models.State{}, fmt.Errorf("decoding state header: %w", err)
	}

	version := 0
	if head.Version != nil {
		version = *head.Version
	}

	switch {
	case version == 0:
		return decodeLegacy(data)
	case version > models.StateVersion:
		return models.State{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	s := models.DefaultState()
	if err := json.Unmarshal(data, &s); err != nil {
		return models.State{}, fmt.Errorf("decoding state: %w", err)
	}
	s.Normalize()
	return s, nil
}

// unwrapLocalStorage returns the blob saved under LegacyStorageKey when data
// is a localStorage dump. The value may be the JSON object itself or the
// string localStorage stores it as. Anything else is returned unchanged.
func unwrapLocalStorage(data []byte) []byte {
	var dump map[string]json.RawMessage
	if err := json.Unmarshal(data, &dump); err != nil {
		return data
	}
	raw, ok := dump[LegacyStorageKey]
	if !ok {
		return data
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return []byte(str)
	}
	return raw
}
