package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrObjectNotFound is the sentinel error for missing objects.
	ErrObjectNotFound = errors.New("object not found")
	// ErrObjectAlreadyExists is the sentinel error for duplicate creation attempts.
	ErrObjectAlreadyExists = errors.New("object already exists")
	// ErrValueIsInvalid is the sentinel error for invalid values.
	ErrValueIsInvalid = errors.New("value is invalid")
	// ErrValueIsOutOfRange is the sentinel error for out-of-range values.
	ErrValueIsOutOfRange = errors.New("value is out of range")
	// ErrValueIsRequired is the sentinel error for missing required values.
	ErrValueIsRequired = errors.New("value is required")
	// ErrVersionIsInvalid is the sentinel error for invalid versions.
	ErrVersionIsInvalid = errors.New("version is invalid")
	// ErrInvalidState is the sentinel error for commands that are illegal in the current state.
	ErrInvalidState = errors.New("invalid state")
	// ErrApprovalRequired is the sentinel error for operations missing a required approver.
	ErrApprovalRequired = errors.New("approval is required")
	// ErrBalanceOutstanding is the sentinel error for closing an order that is not fully settled.
	ErrBalanceOutstanding = errors.New("balance is outstanding")
)

// sanitize removes newlines from values before they are embedded in error messages,
// keeping log lines single-line.
func sanitize(v any) string {
	return strings.ReplaceAll(strings.ReplaceAll(fmt.Sprintf("%v", v), "\r", " "), "\n", " ")
}

// ObjectNotFoundError indicates that an object could not be located by its identifier.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewObjectNotFoundError creates an ObjectNotFoundError without an underlying cause.
func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

// NewObjectNotFoundErrorWithCause creates an ObjectNotFoundError wrapping an underlying cause.
func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %s)",
			ErrObjectNotFound, e.ParamName, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID)
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ObjectAlreadyExistsError indicates an attempt to create an object whose identity
// has already been initialized.
type ObjectAlreadyExistsError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewObjectAlreadyExistsError creates an ObjectAlreadyExistsError without an underlying cause.
func NewObjectAlreadyExistsError(paramName string, id any) *ObjectAlreadyExistsError {
	return &ObjectAlreadyExistsError{ParamName: paramName, ID: id}
}

// NewObjectAlreadyExistsErrorWithCause creates an ObjectAlreadyExistsError wrapping an underlying cause.
func NewObjectAlreadyExistsErrorWithCause(paramName string, id any, cause error) *ObjectAlreadyExistsError {
	return &ObjectAlreadyExistsError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectAlreadyExistsError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %s)",
			ErrObjectAlreadyExists, e.ParamName, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrObjectAlreadyExists, e.ID)
}

func (e *ObjectAlreadyExistsError) Unwrap() error {
	return ErrObjectAlreadyExists
}

// ValueIsInvalidError indicates that a supplied value failed validation.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewValueIsInvalidError creates a ValueIsInvalidError without an underlying cause.
func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

// NewValueIsInvalidErrorWithCause creates a ValueIsInvalidError wrapping an underlying cause.
func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError indicates that a value is outside its permitted bounds.
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

// NewValueIsOutOfRangeError creates a ValueIsOutOfRangeError without an underlying cause.
func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

// NewValueIsOutOfRangeErrorWithCause creates a ValueIsOutOfRangeError wrapping an underlying cause.
func NewValueIsOutOfRangeErrorWithCause(paramName string, value, minValue, maxValue any, cause error) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s is %s, min value is %s, max value is %s (cause: %s)",
			ErrValueIsInvalid, sanitize(e.Value), e.ParamName, sanitize(e.Min), sanitize(e.Max), e.Cause)
	}
	return fmt.Sprintf("%s: %s is %s, min value is %s, max value is %s",
		ErrValueIsInvalid, sanitize(e.Value), e.ParamName, sanitize(e.Min), sanitize(e.Max))
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError indicates that a required value was not supplied.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

// NewValueIsRequiredError creates a ValueIsRequiredError without an underlying cause.
func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

// NewValueIsRequiredErrorWithCause creates a ValueIsRequiredError wrapping an underlying cause.
func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsRequired, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// VersionIsInvalidError indicates an aggregate version mismatch, typically from
// optimistic concurrency conflicts against stale reads.
type VersionIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewVersionIsInvalidError creates a VersionIsInvalidError wrapping an underlying cause.
func NewVersionIsInvalidError(paramName string, cause error) *VersionIsInvalidError {
	return &VersionIsInvalidError{ParamName: paramName, Cause: cause}
}

// NewVersionIsInvalidErrorWithCause creates a VersionIsInvalidError without an underlying cause.
func NewVersionIsInvalidErrorWithCause(paramName string) *VersionIsInvalidError {
	return &VersionIsInvalidError{ParamName: paramName}
}

func (e *VersionIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrVersionIsInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrVersionIsInvalid, e.ParamName)
}

func (e *VersionIsInvalidError) Unwrap() error {
	return ErrVersionIsInvalid
}

// InvalidStateError indicates that a command is not legal for the current status
// of the aggregate or one of its entities.
type InvalidStateError struct {
	ParamName string
	Cause     error
}

// NewInvalidStateError creates an InvalidStateError without an underlying cause.
func NewInvalidStateError(paramName string) *InvalidStateError {
	return &InvalidStateError{ParamName: paramName}
}

// NewInvalidStateErrorWithCause creates an InvalidStateError wrapping an underlying cause.
func NewInvalidStateErrorWithCause(paramName string, cause error) *InvalidStateError {
	return &InvalidStateError{ParamName: paramName, Cause: cause}
}

func (e *InvalidStateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrInvalidState, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidState, e.ParamName)
}

func (e *InvalidStateError) Unwrap() error {
	return ErrInvalidState
}

// ApprovalRequiredError indicates that a manager-gated operation was attempted
// without an approver identity.
type ApprovalRequiredError struct {
	ParamName string
	Cause     error
}

// NewApprovalRequiredError creates an ApprovalRequiredError without an underlying cause.
func NewApprovalRequiredError(paramName string) *ApprovalRequiredError {
	return &ApprovalRequiredError{ParamName: paramName}
}

// NewApprovalRequiredErrorWithCause creates an ApprovalRequiredError wrapping an underlying cause.
func NewApprovalRequiredErrorWithCause(paramName string, cause error) *ApprovalRequiredError {
	return &ApprovalRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ApprovalRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrApprovalRequired, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrApprovalRequired, e.ParamName)
}

func (e *ApprovalRequiredError) Unwrap() error {
	return ErrApprovalRequired
}

// BalanceOutstandingError indicates that an order cannot be closed because its
// balance due is greater than zero.
type BalanceOutstandingError struct {
	ParamName string
	Balance   any
	Cause     error
}

// NewBalanceOutstandingError creates a BalanceOutstandingError without an underlying cause.
func NewBalanceOutstandingError(paramName string, balance any) *BalanceOutstandingError {
	return &BalanceOutstandingError{ParamName: paramName, Balance: balance}
}

// NewBalanceOutstandingErrorWithCause creates a BalanceOutstandingError wrapping an underlying cause.
func NewBalanceOutstandingErrorWithCause(paramName string, balance any, cause error) *BalanceOutstandingError {
	return &BalanceOutstandingError{ParamName: paramName, Balance: balance, Cause: cause}
}

func (e *BalanceOutstandingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s is %s (cause: %s)", ErrBalanceOutstanding, sanitize(e.Balance), e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s is %s", ErrBalanceOutstanding, sanitize(e.Balance), e.ParamName)
}

func (e *BalanceOutstandingError) Unwrap() error {
	return ErrBalanceOutstanding
}
