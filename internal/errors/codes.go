package errors

// Code represents an error code
type Code string

// Error codes
const (
	CodeOK                 Code = "OK"
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeNotFound           Code = "NOT_FOUND"
	CodeAlreadyExists      Code = "ALREADY_EXISTS"
	CodePermissionDenied   Code = "PERMISSION_DENIED"
	CodeFailedPrecondition Code = "FAILED_PRECONDITION"
	CodeInternal           Code = "INTERNAL"
	CodeUnavailable        Code = "UNAVAILABLE"
)

// String returns the string representation of the code
func (c Code) String() string {
	return string(c)
}

// metaReasonKey is the metadata key carrying the rejection reason.
const metaReasonKey = "reason"

// Reason is a stable, machine-readable rejection kind. Clients branch on
// these; the human-readable message is free to change.
type Reason string

// Rejection reasons reported to clients
const (
	ReasonDuplicateCombatant   Reason = "duplicate_combatant"
	ReasonNotYourTurn          Reason = "not_your_turn"
	ReasonInsufficientMovement Reason = "insufficient_movement"
	ReasonMissingTarget        Reason = "missing_target"
	ReasonAlreadyRolled        Reason = "already_rolled"
	ReasonAlreadyResolved      Reason = "already_resolved"
	ReasonInvalidTransition    Reason = "invalid_transition"
	ReasonRoundNotComplete     Reason = "round_not_complete"
)
