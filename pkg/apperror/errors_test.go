package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	err := New("VAL_001", "An actor id is required for every privileged action", http.StatusBadRequest)
	assert.Equal(t, "[VAL_001] An actor id is required for every privileged action", err.Error())

	wrapped := Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, fmt.Errorf("pg down"))
	assert.Equal(t, "[SYS_001] Internal server error: pg down", wrapped.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := InternalError(inner)
	assert.ErrorIs(t, err, inner)
}

func TestAppError_ErrorsAs(t *testing.T) {
	var err error = ErrInsufficientBalance("99.99", "100.00")

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "WAL_001", appErr.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.HTTPStatus)
	assert.Contains(t, appErr.Message, "99.99")
	assert.Contains(t, appErr.Message, "100.00")
}

func TestTaxonomy_DistinctCodesAndStatuses(t *testing.T) {
	cases := map[string]*AppError{
		"missing actor":        ErrMissingActor(),
		"reason too short":     ErrReasonTooShort(5),
		"amount ceiling":       ErrAmountCeilingExceeded("10000"),
		"zero amount":          ErrZeroAmount(),
		"override range":       ErrOverridePriceOutOfRange("150"),
		"markup range":         ErrMarkupOutOfRange("250"),
		"insufficient balance": ErrInsufficientBalance("10", "30"),
		"stale cost":           ErrStaleCost(),
		"not found":            ErrNotFound("account"),
		"conflict":             ErrConflict("account"),
	}

	seen := map[string]string{}
	for name, e := range cases {
		require.NotEmpty(t, e.Code, name)
		require.NotEmpty(t, e.Message, name)
		if prev, dup := seen[e.Code]; dup {
			t.Fatalf("error code %s reused by %q and %q", e.Code, prev, name)
		}
		seen[e.Code] = name
	}

	assert.Equal(t, http.StatusServiceUnavailable, ErrStaleCost().HTTPStatus)
	assert.Equal(t, http.StatusConflict, ErrConflict("account").HTTPStatus)
	assert.Equal(t, http.StatusNotFound, ErrNotFound("account").HTTPStatus)
}
