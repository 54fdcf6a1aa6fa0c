package pvalue

import (
	"errors"
	"fmt"
)

// ErrUnsupportedTestType is returned for any test type other than
// Frequentist or NormalApproximation.
var ErrUnsupportedTestType = errors.New("unsupported test type")

// TestType selects the scoring model.
type TestType int

const (
	TestTypeInvalid TestType = iota

	// Frequentist scores the observed difference as the fraction of
	// relabelings whose difference is at least as large.
	Frequentist

	// NormalApproximation treats the null distribution's mean and standard
	// deviation as a normal model and reads off a tail probability.
	NormalApproximation
)

var testTypeNames = map[string]TestType{}

func init() {
	for _, v := range []string{"F", "f", "FREQUENTIST", "Frequentist", "frequentist", "FREQ", "Freq", "freq"} {
		testTypeNames[v] = Frequentist
	}

	for _, v := range []string{
		"SD", "Sd", "sd", "S", "s",
		"STANDARDDEVIATION", "StandardDeviation", "standarddeviation",
		"STANDARD_DEVIATION", "Standard_Deviation", "standard_deviation",
		"STANDARD", "Standard", "standard",
		"SDEV", "SDev", "sdev", "S_DEV", "S_Dev", "s_dev",
		"N", "n", "NORMAL", "Normal", "normal",
	} {
		testTypeNames[v] = NormalApproximation
	}
}

// ParseTestType maps a command-line selector to a TestType.
func ParseTestType(s string) (TestType, error) {
	if t, ok := testTypeNames[s]; ok {
		return t, nil
	}
	return TestTypeInvalid, fmt.Errorf("%w: %q", ErrUnsupportedTestType, s)
}

func (t TestType) String() string {
	switch t {
	case Frequentist:
		return "frequentist"
	case NormalApproximation:
		return "normal-approximation"
	}
	return fmt.Sprintf("TestType(%d)", int(t))
}

// Valid reports whether t is one of the supported scoring models.
func (t TestType) Valid() bool {
	return t == Frequentist || t == NormalApproximation
}
