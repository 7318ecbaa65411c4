package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSolverNonConvergence signals that a constrained solve did not settle
// within its iteration budget. It is recovered inside the optimizer (which
// substitutes the uniform-weight portfolio) and is never returned to callers;
// it exists so the degradation stays observable in logs and result flags.
var ErrSolverNonConvergence = errors.New("solver did not converge")

// InvalidInputError reports an empty or malformed asset universe.
type InvalidInputError struct {
	Msg string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Msg
}

// InsufficientDataError reports a return series too short to estimate from.
type InsufficientDataError struct {
	Observations int
	Required     int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %d observations, need at least %d", e.Observations, e.Required)
}

// InvalidParameterError reports an out-of-domain optimization or simulation
// parameter. Raised before any numerical work begins.
type InvalidParameterError struct {
	Param string
	Msg   string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Param, e.Msg)
}

// MissingAssetWeightError reports target weights that do not cover the asset
// universe the estimates were built for.
type MissingAssetWeightError struct {
	Symbols []string
}

func (e *MissingAssetWeightError) Error() string {
	return "weights missing for assets: " + strings.Join(e.Symbols, ", ")
}
