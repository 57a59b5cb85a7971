package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sadhna-backend/internal/services"
	"sadhna-backend/pkg/utils"
)

func TestWriteServiceError(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{&services.Error{Kind: services.ErrValidation, Message: "Invalid status value"}, http.StatusBadRequest, "Invalid status value"},
		{services.ErrInvalidTOTPCode, http.StatusUnauthorized, "Invalid verification code"},
		{&services.Error{Kind: services.ErrForbidden, Message: "Not authorized to update this report"}, http.StatusForbidden, "Not authorized to update this report"},
		{fmt.Errorf("loading: %w", &services.Error{Kind: services.ErrNotFound, Message: "Employee not found"}), http.StatusNotFound, "Employee not found"},
		{&services.Error{Kind: services.ErrConflict, Message: "Leave request already decided"}, http.StatusConflict, "Leave request already decided"},
		{&services.Error{Kind: services.ErrDataIntegrity, Message: "no salary"}, http.StatusUnprocessableEntity, "no salary"},
		{errors.New("pq: connection refused"), http.StatusInternalServerError, utils.GenericErrorMessage},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/x", nil)
		writeServiceError(rec, req, tc.err)

		assert.Equal(t, tc.status, rec.Code, tc.err.Error())
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, tc.message, body["message"])
	}
}

func TestMonthYearDefaults(t *testing.T) {
	rec := httptest.NewRecorder()
	month, year, ok := monthYear(rec, httptest.NewRequest(http.MethodGet, "/?month=2", nil))
	require.True(t, ok)
	assert.Equal(t, 2, month)
	assert.Positive(t, year)

	_, _, ok = monthYear(rec, httptest.NewRequest(http.MethodGet, "/?year=abc", nil))
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
