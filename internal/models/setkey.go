package models

import (
	"fmt"
	"strconv"
	"strings"
)

// SetKey addresses a single set within the program:
// week, day-of-week slot, exercise and zero-based set index.
//
// Its text form is w{week}-d{day}-{exercise}-s{set}. Exercise ids may
// contain dashes, so parsing anchors on the first and last segments.
type SetKey struct {
	Week       int
	Day        int
	ExerciseID string
	Set        int
}

// String returns the text form of the key.
func (k SetKey) String() string {
	return fmt.Sprintf("w%d-d%d-%s-s%d", k.Week, k.Day, k.ExerciseID, k.Set)
}

// MarshalText implements encoding.TextMarshaler so SetKey can be a JSON map key.
func (k SetKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *SetKey) UnmarshalText(text []byte) error {
	parsed, err := ParseSetKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseSetKey parses the text form produced by SetKey.String.
func ParseSetKey(s string) (SetKey, error) {
	rest, ok := strings.CutPrefix(s, "w")
	if !ok {
		return SetKey{}, fmt.Errorf("set key %q: missing week prefix", s)
	}
	weekStr, rest, ok := strings.Cut(rest, "-d")
	if !ok {
		return SetKey{}, fmt.Errorf("set key %q: missing day segment", s)
	}
	dayStr, rest, ok := strings.Cut(rest, "-")
	if !ok {
		return SetKey{}, fmt.Errorf("set key %q: missing exercise segment", s)
	}
	i := strings.LastIndex(rest, "-s")
	if i <= 0 {
		return SetKey{}, fmt.Errorf("set key %q: missing set segment", s)
	}
	exID, setStr := rest[:i], rest[i+2:]

	week, err := strconv.Atoi(weekStr)
	if err != nil {
		return SetKey{}, fmt.Errorf("set key %q: week: %w", s, err)
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil {
		return SetKey{}, fmt.Errorf("set key %q: day: %w", s, err)
	}
	set, err := strconv.Atoi(setStr)
	if err != nil {
		return SetKey{}, fmt.Errorf("set key %q: set: %w", s, err)
	}
	return SetKey{Week: week, Day: day, ExerciseID: exID, Set: set}, nil
}
