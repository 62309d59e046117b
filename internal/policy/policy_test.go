package policy

import (
	"errors"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	perrors "github.com/PolarWolf314/passman/internal/errors"
)

func TestClassify_Boundaries(t *testing.T) {
	genesis := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want Classification
	}{
		{"just written", genesis, Fresh},
		{"one day", genesis.Add(day), Fresh},
		{"exactly soft", genesis.Add(60 * day), Fresh},
		{"soft plus one second", genesis.Add(60*day + time.Second), SoftWarning},
		{"exactly hard", genesis.Add(90 * day), SoftWarning},
		{"hard plus one second", genesis.Add(90*day + time.Second), HardExpired},
		{"a year", genesis.Add(365 * day), HardExpired},
		{"genesis in the future", genesis.Add(-time.Hour), Fresh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Default().Classify(genesis, tt.now); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestClassify_CustomThresholds(t *testing.T) {
	genesis := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	if got := Classify(genesis, genesis.Add(8*day), 7, 14); got != SoftWarning {
		t.Errorf("Expected soft-warning, got %s", got)
	}
	if got := Classify(genesis, genesis.Add(time.Second), 0, 0); got != HardExpired {
		t.Errorf("Expected hard-expired with zero thresholds, got %s", got)
	}
}

func TestClassify_IsMonotonic(t *testing.T) {
	genesis := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	p := Default()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("older secrets never classify as fresher", prop.ForAll(
		func(a, b int64) bool {
			if a > b {
				a, b = b, a
			}
			younger := p.Classify(genesis, genesis.Add(time.Duration(a)*time.Second))
			older := p.Classify(genesis, genesis.Add(time.Duration(b)*time.Second))
			return younger <= older
		},
		gen.Int64Range(-int64(10*day/time.Second), int64(200*day/time.Second)),
		gen.Int64Range(-int64(10*day/time.Second), int64(200*day/time.Second)),
	))

	properties.TestingRun(t)
}

func TestPolicy_Validate(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default policy should be valid, got: %v", err)
	}
	for _, p := range []Policy{{SoftDays: -1, HardDays: 90}, {SoftDays: 60, HardDays: 30}} {
		if err := p.Validate(); !errors.Is(err, perrors.ErrInvalidPolicy) {
			t.Errorf("Expected ErrInvalidPolicy for %+v, got: %v", p, err)
		}
	}
}

func TestClassification_String(t *testing.T) {
	for c, want := range map[Classification]string{Fresh: "fresh", SoftWarning: "soft-warning", HardExpired: "hard-expired"} {
		if c.String() != want {
			t.Errorf("Expected %q, got %q", want, c.String())
		}
	}
}

func TestAge(t *testing.T) {
	genesis := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := Age(genesis, genesis.Add(-time.Minute)); got != 0 {
		t.Errorf("Expected zero age for future genesis, got %v", got)
	}
	if got := Age(genesis, genesis.Add(3*day)); got != 3*day {
		t.Errorf("Expected 72h, got %v", got)
	}
}

func TestPolicy_ValidateRejectsOversizedThresholds(t *testing.T) {
	for _, p := range []Policy{{SoftDays: 60, HardDays: 200000}, {SoftDays: MaxDays + 1, HardDays: MaxDays + 1}} {
		if err := p.Validate(); !errors.Is(err, perrors.ErrInvalidPolicy) {
			t.Errorf("Expected ErrInvalidPolicy for %+v, got: %v", p, err)
		}
	}
	if err := (Policy{SoftDays: MaxDays, HardDays: MaxDays}).Validate(); err != nil {
		t.Errorf("Expected MaxDays to be accepted, got: %v", err)
	}
}

func TestClassify_HugeThresholdsDoNotOverflow(t *testing.T) {
	genesis := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	if got := Classify(genesis, genesis.Add(time.Hour), 60, 200000); got != Fresh {
		t.Errorf("Expected fresh for a one hour old secret, got %s", got)
	}
	if got := Classify(genesis, genesis.Add(61*day), 60, 200000); got != SoftWarning {
		t.Errorf("Expected soft-warning, got %s", got)
	}
}
