package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/campaign-api/internal/errors"
)

func TestError_Error(t *testing.T) {
	err := errors.NotFound("battle not found")
	assert.Equal(t, "NOT_FOUND: battle not found", err.Error())

	wrapped := errors.Wrap(stderrors.New("redis: connection refused"), "failed to load battle")
	assert.Equal(t, "INTERNAL: failed to load battle: redis: connection refused", wrapped.Error())
}

func TestWrap_PreservesCodeAndMeta(t *testing.T) {
	inner := errors.PermissionDenied("only the DM may resolve goals").
		WithReason(errors.ReasonNotYourTurn)

	outer := errors.Wrap(inner, "resolve goal")

	assert.Equal(t, errors.CodePermissionDenied, errors.GetCode(outer))
	assert.Equal(t, errors.ReasonNotYourTurn, errors.GetReason(outer))
	assert.True(t, errors.IsPermissionDenied(outer))
}

func TestWrap_Nil(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, "ignored"))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeInternal, errors.GetCode(stderrors.New("plain")))
	assert.Equal(t, errors.CodeAlreadyExists, errors.GetCode(errors.AlreadyExists("dup")))
}

func TestGetReason(t *testing.T) {
	err := errors.FailedPrecondition("goal already resolved").
		WithReason(errors.ReasonAlreadyResolved)

	assert.Equal(t, errors.ReasonAlreadyResolved, errors.GetReason(err))
	assert.True(t, errors.HasReason(err, errors.ReasonAlreadyResolved))
	assert.False(t, errors.HasReason(err, errors.ReasonAlreadyRolled))

	// Errors without a reason report the zero value.
	assert.Equal(t, errors.Reason(""), errors.GetReason(errors.NotFound("nope")))
	assert.Equal(t, errors.Reason(""), errors.GetReason(nil))
}

func TestGetMessage(t *testing.T) {
	assert.Equal(t, "", errors.GetMessage(nil))
	assert.Equal(t, "combatant not found", errors.GetMessage(errors.NotFound("combatant not found")))
	assert.Equal(t, "plain", errors.GetMessage(stderrors.New("plain")))
}

func TestIs_MatchesByCode(t *testing.T) {
	err := errors.NotFoundf("combatant %s not in session", "char_1")
	assert.True(t, errors.Is(err, errors.NotFound("anything")))
	assert.False(t, errors.Is(err, errors.InvalidArgument("anything")))
}

func TestValidationBuilder(t *testing.T) {
	err := errors.NewValidationBuilder().
		RequiredField("Name").
		Range("Stats.Numbers", 12, 1, 10).
		Build()

	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
	assert.Contains(t, err.Error(), "Name: is required")
	assert.Contains(t, err.Error(), "Stats.Numbers: must be between 1 and 10")

	meta := errors.GetMeta(err)
	require.NotNil(t, meta)
	assert.Contains(t, meta, "validation_errors")
}

func TestValidationBuilder_NoErrors(t *testing.T) {
	err := errors.NewValidationBuilder().
		Range("Stats.Morale", 5, 1, 10).
		Build()

	assert.NoError(t, err)
}
