package api_functions

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HannahMarsh/onion-relay/internal/api/structs"
	"github.com/HannahMarsh/onion-relay/internal/domain/models"
	"github.com/HannahMarsh/onion-relay/pkg/utils"
)

func TestPostJSONIsGzipped(t *testing.T) {
	var received structs.MessageApi
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "gzip", r.Header.Get("Content-Encoding"))
		HandleReceiveMessage(w, r, func(_ context.Context, message string) error {
			received.Message = message
			return nil
		})
	}))
	defer server.Close()

	err := PostJSON(context.Background(), server.Client(), server.URL, structs.MessageApi{Message: "onion"}, nil)
	require.NoError(t, err)
	require.Equal(t, "onion", received.Message)
}

func TestReadJSONPlainBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/message", strings.NewReader(`{"message":"plain"}`))
	var m structs.MessageApi
	require.NoError(t, ReadJSON(httptest.NewRecorder(), req, &m))
	require.Equal(t, "plain", m.Message)

	req = httptest.NewRequest(http.MethodPost, "/message", strings.NewReader(`{"message":`))
	require.ErrorIs(t, ReadJSON(httptest.NewRecorder(), req, &m), models.ErrValidation)
}

func TestReadJSONLimitsBodySize(t *testing.T) {
	called := false
	receive := func(context.Context, string) error {
		called = true
		return nil
	}

	// A few kilobytes of gzip that inflate far past MaxBodyBytes.
	bomb, err := utils.Compress(bytes.Repeat([]byte("A"), 4*MaxBodyBytes))
	require.NoError(t, err)
	require.Less(t, bomb.Len(), MaxBodyBytes)

	req := httptest.NewRequest(http.MethodPost, "/message", &bomb)
	req.Header.Set("Content-Encoding", "gzip")
	rec := httptest.NewRecorder()
	HandleReceiveMessage(rec, req, receive)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	plain := `{"message":"` + strings.Repeat("A", MaxBodyBytes) + `"}`
	req = httptest.NewRequest(http.MethodPost, "/message", strings.NewReader(plain))
	rec = httptest.NewRecorder()
	HandleReceiveMessage(rec, req, receive)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.False(t, called)
}

func TestHandleReceiveMessageMapsErrors(t *testing.T) {
	cases := map[error]int{
		nil:                         http.StatusOK,
		models.ErrValidation:        http.StatusBadRequest,
		models.ErrDecryption:        http.StatusInternalServerError,
		models.ErrNotFound:          http.StatusNotFound,
		models.ErrInsufficientNodes: http.StatusServiceUnavailable,
		models.ErrUnreachable:       http.StatusBadGateway,
	}
	for returned, code := range cases {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/message", strings.NewReader(`{"message":"x"}`))
		HandleReceiveMessage(rec, req, func(context.Context, string) error { return returned })
		require.Equal(t, code, rec.Code, "error %v", returned)
	}
}

func TestStatusErrorUnwrapsToErrorClass(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, models.ErrInsufficientNodes)
	}))
	defer server.Close()

	err := GetJSON(context.Background(), server.Client(), server.URL, nil)
	require.ErrorIs(t, err, models.ErrInsufficientNodes)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusServiceUnavailable, statusErr.Code)
}

func TestGetResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/null" {
			WriteResult(w, nil)
			return
		}
		WriteResult(w, "value")
	}))
	defer server.Close()

	v, err := GetResult[string](context.Background(), server.Client(), server.URL+"/value")
	require.NoError(t, err)
	require.NotNil(t, v)
	require.Equal(t, "value", *v)

	v, err = GetResult[string](context.Background(), server.Client(), server.URL+"/null")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestHandleStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleStatus(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "live", rec.Body.String())
}
