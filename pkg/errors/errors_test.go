package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		errorType ErrorType
		want      bool
	}{
		{ErrorTypeNetwork, true},
		{ErrorTypeThrottling, true},
		{ErrorTypeServerError, true},
		{ErrorTypeAuth, false},
		{ErrorTypeInvalidInput, false},
		{ErrorTypeParsing, false},
		{ErrorTypeNotFound, false},
		{ErrorTypeUnknown, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.errorType), func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.errorType))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Type: ErrorTypeThrottling, Code: "ThrottlingException", Message: "slow down"}
	assert.Equal(t, "throttling error (ThrottlingException): slow down", err.Error())

	wrapped := New(ErrorTypeNetwork, "analyze document", context.DeadlineExceeded)
	assert.Equal(t, "network error: analyze document: context deadline exceeded", wrapped.Error())
	assert.ErrorIs(t, wrapped, context.DeadlineExceeded)
}

func TestTypeOf(t *testing.T) {
	err := fmt.Errorf("page 2: %w", New(ErrorTypeAuth, "bad key", nil))
	assert.Equal(t, ErrorTypeAuth, TypeOf(err))
	assert.Equal(t, ErrorTypeUnknown, TypeOf(errors.New("plain")))
}

func TestFetchError(t *testing.T) {
	cause := New(ErrorTypeServerError, "internal", nil)
	err := fmt.Errorf("invoice: %w", &FetchError{Page: 2, Attempts: 4, Err: cause})

	assert.True(t, IsFetchError(err))
	assert.False(t, IsFetchError(cause))
	assert.Contains(t, err.Error(), "fetch page 2 failed after 4 attempt(s)")

	var fe *FetchError
	if assert.True(t, errors.As(err, &fe)) {
		assert.Equal(t, 2, fe.Page)
		assert.Equal(t, ErrorTypeServerError, TypeOf(fe))
	}
}

func TestWarningFields(t *testing.T) {
	w := Warning{Type: WarningFieldExtraction, Page: 3, Subject: "blk-9", Message: "referenced block not found"}
	fields := w.Fields()
	assert.Equal(t, "field_extraction", fields["warning"])
	assert.Equal(t, 3, fields["page_number"])
	assert.Equal(t, "field_extraction warning on page 3 (blk-9): referenced block not found", w.String())

	dateWarn := Warning{Type: WarningDateParse, Subject: "yesterday", Message: "unrecognized"}
	_, hasPage := dateWarn.Fields()["page_number"]
	assert.False(t, hasPage)
}
