// internal/domain/exercise.go
package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise is one prescribed movement on one day of a Workout.
type Exercise struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkoutID    primitive.ObjectID `bson:"workoutId" json:"workoutId"`
	DayOfWeek    time.Weekday       `bson:"dayOfWeek" json:"dayOfWeek"` // 0=Sunday..6=Saturday
	ExerciseName string             `bson:"exerciseName" json:"exerciseName"`
	Sets         int                `bson:"sets" json:"sets"`
	Reps         RepScheme          `bson:"reps" json:"reps"`
	RestSeconds  int                `bson:"restSeconds" json:"restSeconds"`
	Notes        string             `bson:"notes,omitempty" json:"notes,omitempty"`
	OrderIndex   int                `bson:"orderIndex" json:"orderIndex"` // unique within (workout, day)
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// RepKind tags which RepScheme fields are meaningful.
type RepKind string

const (
	RepKindReps     RepKind = "reps"
	RepKindDuration RepKind = "duration"
)

// DurationUnit is the unit a timed scheme was written in. Seconds always
// holds the length; the unit only drives how it is displayed.
type DurationUnit string

const (
	UnitMinutes DurationUnit = "min"
	UnitSeconds DurationUnit = "seg"
)

// RepScheme is either a repetition range ("10-12") or a timed effort (30 min, 45 s).
// PerSide marks prescriptions done on each side ("12-15 cada").
type RepScheme struct {
	Kind    RepKind      `bson:"kind" json:"kind"`
	Range   string       `bson:"range,omitempty" json:"range,omitempty"`
	Seconds int          `bson:"seconds,omitempty" json:"seconds,omitempty"`
	Unit    DurationUnit `bson:"unit,omitempty" json:"unit,omitempty"`
	PerSide bool         `bson:"perSide,omitempty" json:"perSide,omitempty"`
}

var ErrInvalidRepScheme = errors.New("invalid reps prescription")

const perSideSuffix = "cada"

var durationPattern = regexp.MustCompile(`^(\d+)\s*(min|mins|minutos|minutes|seg|s|sec|secs|segundos|seconds)$`)

// Reps builds a repetition-range scheme.
func Reps(r string) RepScheme { return RepScheme{Kind: RepKindReps, Range: r} }

// RepsEachSide builds a repetition-range scheme performed per side.
func RepsEachSide(r string) RepScheme { return RepScheme{Kind: RepKindReps, Range: r, PerSide: true} }

// Minutes builds a timed scheme.
func Minutes(n int) RepScheme {
	return RepScheme{Kind: RepKindDuration, Seconds: n * 60, Unit: UnitMinutes}
}

// Seconds builds a timed scheme.
func Seconds(n int) RepScheme {
	return RepScheme{Kind: RepKindDuration, Seconds: n, Unit: UnitSeconds}
}

// SecondsEachSide builds a timed scheme performed per side.
func SecondsEachSide(n int) RepScheme {
	return RepScheme{Kind: RepKindDuration, Seconds: n, Unit: UnitSeconds, PerSide: true}
}

// ParseRepScheme reads the free-form strings trainers type ("8-12", "30 min",
// "45 seg", "12-15 cada"). Anything that is not a duration is kept as a range.
func ParseRepScheme(s string) (RepScheme, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RepScheme{}, ErrInvalidRepScheme
	}
	perSide := false
	lower := strings.ToLower(s)
	if strings.HasSuffix(lower, " "+perSideSuffix) {
		perSide = true
		s = strings.TrimSpace(s[:len(s)-len(perSideSuffix)])
		lower = strings.ToLower(s)
	}
	if m := durationPattern.FindStringSubmatch(lower); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			return RepScheme{}, ErrInvalidRepScheme
		}
		if strings.HasPrefix(m[2], "min") {
			return RepScheme{Kind: RepKindDuration, Seconds: n * 60, Unit: UnitMinutes, PerSide: perSide}, nil
		}
		return RepScheme{Kind: RepKindDuration, Seconds: n, Unit: UnitSeconds, PerSide: perSide}, nil
	}
	if s == "" {
		return RepScheme{}, ErrInvalidRepScheme
	}
	return RepScheme{Kind: RepKindReps, Range: s, PerSide: perSide}, nil
}

// Validate checks that the fields required by Kind are present.
func (r RepScheme) Validate() error {
	switch r.Kind {
	case RepKindReps:
		if strings.TrimSpace(r.Range) == "" {
			return fmt.Errorf("%w: reps range is empty", ErrInvalidRepScheme)
		}
	case RepKindDuration:
		if r.Seconds <= 0 {
			return fmt.Errorf("%w: duration must be positive", ErrInvalidRepScheme)
		}
		switch r.Unit {
		case "", UnitMinutes, UnitSeconds:
		default:
			return fmt.Errorf("%w: unknown unit %q", ErrInvalidRepScheme, r.Unit)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidRepScheme, r.Kind)
	}
	return nil
}

// String renders the scheme in the same form trainers write it. Durations keep
// their unit; rows saved without one show whole minutes as "min".
func (r RepScheme) String() string {
	var out string
	switch r.Kind {
	case RepKindDuration:
		wholeMinutes := r.Seconds >= 60 && r.Seconds%60 == 0
		if wholeMinutes && r.Unit != UnitSeconds {
			out = fmt.Sprintf("%d min", r.Seconds/60)
		} else {
			out = fmt.Sprintf("%d seg", r.Seconds)
		}
	default:
		out = r.Range
	}
	if r.PerSide {
		out += " " + perSideSuffix
	}
	return out
}

// UnmarshalJSON accepts the tagged object or a legacy string such as "10-12".
func (r *RepScheme) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := ParseRepScheme(s)
		if err != nil {
			return err
		}
		*r = parsed
		return nil
	}
	type plain RepScheme
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = RepScheme(p)
	return nil
}
