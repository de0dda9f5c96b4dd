package helpers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ideaswipe_server/apperrors"
)

func TestWriteError_MapsCodes(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		code    apperrors.Code
		message string
	}{
		{apperrors.ErrMatchNotFound, http.StatusNotFound, apperrors.CodeNotFound, "match not found"},
		{apperrors.ErrAlreadyProcessed, http.StatusConflict, apperrors.CodeInvalidState, "request already processed"},
		{apperrors.ErrSelfRequest, http.StatusBadRequest, apperrors.CodeInvalidRequest, "cannot request to collaborate on your own idea"},
		{errors.New("dynamo exploded"), http.StatusInternalServerError, apperrors.CodeInternal, "internal error"},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/matches", nil)
			WriteError(rec, zap.NewNop().Sugar(), req, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			var body map[string]ErrorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body["error"].Code)
			assert.Equal(t, tt.message, body["error"].Message)
		})
	}
}

func TestDecodeAndValidate(t *testing.T) {
	type payload struct {
		IdeaID    string `json:"ideaId" validate:"required"`
		Direction string `json:"direction" validate:"required,oneof=left right"`
	}

	var ok payload
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"ideaId":"i1","direction":"left"}`))
	require.NoError(t, DecodeAndValidate(r, &ok))
	assert.Equal(t, "i1", ok.IdeaID)

	var bad payload
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"direction":"up"}`))
	err := DecodeAndValidate(r, &bad)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidRequest, apperrors.CodeOf(err))
	assert.Contains(t, err.Error(), "IdeaID is required")
	assert.Contains(t, err.Error(), "Direction must be one of [left right]")

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	assert.Equal(t, apperrors.CodeInvalidRequest, apperrors.CodeOf(DecodeAndValidate(r, &bad)))
}
