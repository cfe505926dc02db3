package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDetail_DoesNotMutateBase(t *testing.T) {
	e := ErrFormNotSubmittable.WithDetail("length-range")
	assert.Equal(t, "length-range", e.Detail)
	assert.Empty(t, ErrFormNotSubmittable.Detail)
}

func TestFromError(t *testing.T) {
	assert.Same(t, ErrFormNotFound, FromError(ErrFormNotFound))

	cause := stderrors.New("boom")
	got := FromError(cause)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", got.Code)
	assert.ErrorIs(t, got, cause)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ErrFormNotSubmittable.WithDetail("rules failing: has-digit"))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "FORM_NOT_SUBMITTABLE", body["code"])
	assert.Equal(t, "rules failing: has-digit", body["detail"])
}
