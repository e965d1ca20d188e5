package forecast

import (
	"errors"
	"fmt"
)

// ErrUnavailable reports that the forecasting capability was not wired into
// the runtime. It is checked by the assembler before any data is read.
var ErrUnavailable = errors.New("forecasting not available")

// InsufficientDataError reports too little weekly history to fit a model.
type InsufficientDataError struct {
	CurrentWeeks  int
	RequiredWeeks int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: need at least %d weeks of transaction history, have %d",
		e.RequiredWeeks, e.CurrentWeeks)
}

// PoorDataQualityError reports that too many of the present weeks carry an
// exact-zero total for seasonal estimation to be reliable.
type PoorDataQualityError struct {
	// ZeroPercentage is the share of zero weeks in percent, one decimal.
	ZeroPercentage float64
}

func (e *PoorDataQualityError) Error() string {
	return fmt.Sprintf("poor data quality: %.1f%% of weeks have no transactions", e.ZeroPercentage)
}

// FittingError reports a numerical failure while fitting the model.
type FittingError struct {
	Diagnostic string
}

func (e *FittingError) Error() string {
	return "model fitting failed: " + e.Diagnostic
}
