package domain

import (
	"errors"
	"fmt"

	money "github.com/ganancias/withholding-calculator/pkg/decimal"
)

// Sentinel errors, match with errors.Is.
var (
	// ErrInvalidCategory is returned for a category other than autonomous or dependent.
	ErrInvalidCategory = errors.New("invalid employment category")

	// ErrNegativeAmount is returned when a salary, contribution or deduction input is below zero.
	ErrNegativeAmount = errors.New("negative amount")

	// ErrUnknownDeductionKind is returned when an election names a kind the tax table does not define.
	ErrUnknownDeductionKind = errors.New("unknown deduction kind")

	// ErrDeductionLimitExceeded is returned when an election would exceed the legal cardinality of its kind.
	ErrDeductionLimitExceeded = errors.New("deduction limit exceeded")

	// ErrConfiguration signals a malformed tax table. Every computation made
	// with such a table is invalid.
	ErrConfiguration = errors.New("tax table configuration error")

	// ErrAlreadyCalculated is returned when the year was already calculated and
	// the engine has not been reset.
	ErrAlreadyCalculated = errors.New("withholding already calculated")

	// ErrNotCalculated is returned when results are requested before calculation.
	ErrNotCalculated = errors.New("withholding not calculated")

	// ErrInvalidMonth is returned for a month outside 1..12.
	ErrInvalidMonth = errors.New("invalid month")
)

// NegativeAmountError names the input that was below zero.
type NegativeAmountError struct {
	Field  string
	Amount money.Money
}

func (e *NegativeAmountError) Error() string {
	return fmt.Sprintf("%s must not be negative (got %s)", e.Field, e.Amount)
}

func (e *NegativeAmountError) Is(target error) bool {
	return target == ErrNegativeAmount
}

// DeductionLimitError describes a rejected election.
type DeductionLimitError struct {
	Kind  DeductionKind
	Limit int
	// Reason is set when the kind cannot be elected at all.
	Reason string
}

func (e *DeductionLimitError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("deduction %q cannot be elected: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("deduction %q can be elected at most %d time(s)", e.Kind, e.Limit)
}

func (e *DeductionLimitError) Is(target error) bool {
	return target == ErrDeductionLimitExceeded
}

// ConfigurationError points at the part of a tax table that breaks its invariants.
type ConfigurationError struct {
	Table  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Table == "" {
		return "tax table: " + e.Reason
	}
	return fmt.Sprintf("tax table %s: %s", e.Table, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// UnknownDeductionKindError wraps ErrUnknownDeductionKind with the offending kind.
func UnknownDeductionKindError(kind DeductionKind) error {
	return fmt.Errorf("%w: %q", ErrUnknownDeductionKind, kind)
}

// CheckNonNegative returns a NegativeAmountError when amount is below zero.
func CheckNonNegative(field string, amount money.Money) error {
	if amount.IsNegative() {
		return &NegativeAmountError{Field: field, Amount: amount}
	}
	return nil
}
