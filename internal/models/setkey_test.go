package models

import (
	"encoding/json"
	"testing"
)

// TestParseSetKey verifies the text form round-trips, including exercise ids
// that contain dashes or the letter sequences used as segment markers.
func TestParseSetKey(t *testing.T) {
	cases := []struct {
		in   string
		want SetKey
	}{
		{"w1-d0-bp_flat-s0", SetKey{Week: 1, Day: 0, ExerciseID: "bp_flat", Set: 0}},
		{"w10-d3-calf_raise-s4", SetKey{Week: 10, Day: 3, ExerciseID: "calf_raise", Set: 4}},
		{"w2-d1-my-custom-s-lift-s2", SetKey{Week: 2, Day: 1, ExerciseID: "my-custom-s-lift", Set: 2}},
		{"w4-d2-d-row-s11", SetKey{Week: 4, Day: 2, ExerciseID: "d-row", Set: 11}},
	}
	for _, tc := range cases {
		got, err := ParseSetKey(tc.in)
		if err != nil {
			t.Errorf("ParseSetKey(%q) error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseSetKey(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
		if got.String() != tc.in {
			t.Errorf("ParseSetKey(%q).String() = %q", tc.in, got.String())
		}
	}
}

// TestParseSetKeyInvalid verifies malformed keys are rejected.
func TestParseSetKeyInvalid(t *testing.T) {
	for _, in := range []string{
		"",
		"x1-d0-bp_flat-s0",
		"w1-bp_flat-s0",
		"w1-d0-bp_flat",
		"w1-d0--s0",
		"wX-d0-bp_flat-s0",
		"w1-dY-bp_flat-s0",
		"w1-d0-bp_flat-sZ",
	} {
		if _, err := ParseSetKey(in); err == nil {
			t.Errorf("ParseSetKey(%q) succeeded, want error", in)
		}
	}
}

// TestSetKeyJSONMapKey verifies SetKey works as a JSON object key.
func TestSetKeyJSONMapKey(t *testing.T) {
	done := true
	in := map[SetKey]SetLog{
		{Week: 3, Day: 2, ExerciseID: "ohp", Set: 1}: {Done: done},
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"w3-d2-ohp-s1":{"done":true}}` {
		t.Errorf("marshal = %s", data)
	}

	var out map[SetKey]SetLog
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if !out[SetKey{Week: 3, Day: 2, ExerciseID: "ohp", Set: 1}].Done {
		t.Errorf("round-trip lost entry: %+v", out)
	}
}
