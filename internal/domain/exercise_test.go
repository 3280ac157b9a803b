package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseRepScheme(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want RepScheme
	}{
		{"10-12", RepScheme{Kind: RepKindReps, Range: "10-12"}},
		{"30 min", RepScheme{Kind: RepKindDuration, Seconds: 1800, Unit: UnitMinutes}},
		{"45 seg", RepScheme{Kind: RepKindDuration, Seconds: 45, Unit: UnitSeconds}},
		{"60 seg", RepScheme{Kind: RepKindDuration, Seconds: 60, Unit: UnitSeconds}},
		{"12-15 cada", RepScheme{Kind: RepKindReps, Range: "12-15", PerSide: true}},
		{"45 seg cada", RepScheme{Kind: RepKindDuration, Seconds: 45, Unit: UnitSeconds, PerSide: true}},
		{"  AMRAP ", RepScheme{Kind: RepKindReps, Range: "AMRAP"}},
		{"90s", RepScheme{Kind: RepKindDuration, Seconds: 90, Unit: UnitSeconds}},
	}
	for _, tc := range cases {
		got, err := ParseRepScheme(tc.in)
		if err != nil {
			t.Fatalf("ParseRepScheme(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseRepScheme(%q): got=%+v want=%+v", tc.in, got, tc.want)
		}
	}
}

func TestParseRepSchemeRejectsEmpty(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "   ", "0 min"} {
		if _, err := ParseRepScheme(in); !errors.Is(err, ErrInvalidRepScheme) {
			t.Fatalf("ParseRepScheme(%q): got=%v want=%v", in, err, ErrInvalidRepScheme)
		}
	}
}

func TestRepSchemeStringRoundTrip(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"8-12", "30 min", "45 seg", "12-15 cada", "45 seg cada", "12 min", "60 seg", "120 seg cada", "1 min"} {
		r, err := ParseRepScheme(s)
		if err != nil {
			t.Fatalf("ParseRepScheme(%q): %v", s, err)
		}
		if got := r.String(); got != s {
			t.Fatalf("String(): got=%q want=%q", got, s)
		}
	}
}

func TestRepSchemeStringWithoutUnit(t *testing.T) {
	t.Parallel()

	cases := map[RepScheme]string{
		{Kind: RepKindDuration, Seconds: 120}:                   "2 min",
		{Kind: RepKindDuration, Seconds: 90}:                    "90 seg",
		{Kind: RepKindDuration, Seconds: 90, Unit: UnitMinutes}: "90 seg",
		Seconds(60): "60 seg",
		Minutes(1):  "1 min",
	}
	for r, want := range cases {
		if got := r.String(); got != want {
			t.Fatalf("String(%+v): got=%q want=%q", r, got, want)
		}
	}
}

func TestRepSchemeValidate(t *testing.T) {
	t.Parallel()

	if err := Reps("8-12").Validate(); err != nil {
		t.Fatalf("reps valid: %v", err)
	}
	if err := Minutes(30).Validate(); err != nil {
		t.Fatalf("duration valid: %v", err)
	}
	bad := []RepScheme{
		{Kind: RepKindReps},
		{Kind: RepKindDuration},
		{Kind: "weight", Range: "10kg"},
		{Kind: RepKindDuration, Seconds: 30, Unit: "hours"},
	}
	for _, r := range bad {
		if err := r.Validate(); !errors.Is(err, ErrInvalidRepScheme) {
			t.Fatalf("Validate(%+v): got=%v want=%v", r, err, ErrInvalidRepScheme)
		}
	}
}

func TestRepSchemeUnmarshalJSONAcceptsStringAndObject(t *testing.T) {
	t.Parallel()

	var fromString struct {
		Reps RepScheme `json:"reps"`
	}
	if err := json.Unmarshal([]byte(`{"reps":"35 min"}`), &fromString); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if fromString.Reps != Minutes(35) {
		t.Fatalf("string form: got=%+v want=%+v", fromString.Reps, Minutes(35))
	}

	var fromObject struct {
		Reps RepScheme `json:"reps"`
	}
	if err := json.Unmarshal([]byte(`{"reps":{"kind":"reps","range":"8-12"}}`), &fromObject); err != nil {
		t.Fatalf("unmarshal object: %v", err)
	}
	if fromObject.Reps != Reps("8-12") {
		t.Fatalf("object form: got=%+v want=%+v", fromObject.Reps, Reps("8-12"))
	}

	out, err := json.Marshal(SecondsEachSide(45))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"kind":"duration","seconds":45,"unit":"seg","perSide":true}` {
		t.Fatalf("marshal: got=%s", out)
	}
}
