package chart

import (
	"errors"
	"fmt"

	"github.com/litescript/ls-natal/internal/zodiac"
)

// ErrorKind classifies chart failures.
type ErrorKind int

const (
	KindInvalidDate ErrorKind = iota + 1
	KindEphemerisFailure
	KindDegenerateGeometry
	KindInvalidLocation
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidDate:
		return "invalid date"
	case KindEphemerisFailure:
		return "ephemeris failure"
	case KindDegenerateGeometry:
		return "degenerate geometry"
	case KindInvalidLocation:
		return "invalid location"
	default:
		return "unknown"
	}
}

// Step names the stage of a render that failed.
type Step string

const (
	StepLocation  Step = "location"
	StepJulianDay Step = "julian day"
	StepHouses    Step = "houses"
	StepBody      Step = "body"
	StepLayout    Step = "layout"
)

// Error is the error type returned by Resolve, Layout and Render.
type Error struct {
	Kind ErrorKind
	Step Step
	Body zodiac.Body // set when Step is StepBody
	Err  error
}

func (e *Error) Error() string {
	where := string(e.Step)
	if e.Step == StepBody {
		where = e.Body.String()
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, where)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, where, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether any error in err's chain is a chart error of kind.
func IsKind(err error, kind ErrorKind) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Kind == kind
}

// FailedBody returns the body whose lookup failed, if any.
func FailedBody(err error) (zodiac.Body, bool) {
	var ce *Error
	if errors.As(err, &ce) && ce.Step == StepBody {
		return ce.Body, true
	}
	return 0, false
}
