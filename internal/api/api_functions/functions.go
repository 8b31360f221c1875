package api_functions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/pkg/errors"

	"github.com/HannahMarsh/onion-relay/internal/api/structs"
	"github.com/HannahMarsh/onion-relay/internal/domain/interfaces"
	"github.com/HannahMarsh/onion-relay/internal/domain/models"
	"github.com/HannahMarsh/onion-relay/pkg/utils"
)

// StatusError is a non-200 answer from another component.
type StatusError struct {
	URL    string
	Code   int
	Status string
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s answered %s: %s", e.URL, e.Status, e.Body)
}

// Unwrap exposes the error class the remote status code stands for, so errors.Is works across the wire.
func (e *StatusError) Unwrap() error {
	return models.ErrorForStatus(e.Code)
}

// PostJSON sends in as a gzip-compressed JSON body and decodes the answer into out when out is non-nil.
func PostJSON(ctx context.Context, client *http.Client, url string, in any, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal request for %s", url)
	}

	compressedBuffer, err := utils.Compress(payload)
	if err != nil {
		return errors.Wrap(err, "failed to compress request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &compressedBuffer)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Content-Encoding", "gzip")

	return do(client, req, out)
}

// GetJSON issues a GET and decodes the JSON answer into out.
func GetJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	return do(client, req, out)
}

// GetResult fetches an introspection endpoint. A null result comes back as a nil pointer.
func GetResult[T any](ctx context.Context, client *http.Client, url string) (*T, error) {
	var answer struct {
		Result *T `json:"result"`
	}
	if err := GetJSON(ctx, client, url, &answer); err != nil {
		return nil, err
	}
	return answer.Result, nil
}

func do(client *http.Client, req *http.Request, out any) error {
	url := req.URL.String()
	resp, err := client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "failed to send %s request to %s", req.Method, url)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			slog.Error("Error closing response body", "err", err)
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{URL: url, Code: resp.StatusCode, Status: resp.Status, Body: string(bytes.TrimSpace(body))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "failed to decode answer from %s", url)
	}
	return nil
}

// MaxBodyBytes bounds a request body both as sent and, for gzip bodies, after decompression.
const MaxBodyBytes = 4 << 20

// ReadJSON decodes a request body, transparently handling Content-Encoding: gzip.
func ReadJSON(w http.ResponseWriter, r *http.Request, v any) error {
	var body []byte
	var err error

	limited := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if r.Header.Get("Content-Encoding") == "gzip" {
		body, err = utils.Decompress(limited, MaxBodyBytes)
	} else {
		body, err = io.ReadAll(limited)
	}
	if err != nil {
		return errors.Wrapf(models.ErrValidation, "unable to read body: %v", err)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return errors.Wrapf(models.ErrValidation, "malformed JSON body: %v", err)
	}
	return nil
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error writing response", "err", err)
	}
}

// WriteResult answers {"result": v}.
func WriteResult(w http.ResponseWriter, v any) {
	WriteJSON(w, http.StatusOK, structs.ResultApi{Result: v})
}

// WriteError answers with the status code err maps to.
func WriteError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), models.HTTPStatus(err))
}

// HandleStatus is the liveness check every component exposes.
func HandleStatus(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("live")); err != nil {
		slog.Error("Error writing response", "err", err)
	}
}

// HandleReceiveMessage decodes a MessageApi body and hands the message to receive.
func HandleReceiveMessage(w http.ResponseWriter, r *http.Request, receive interfaces.MessageHandler) {
	var m structs.MessageApi
	if err := ReadJSON(w, r, &m); err != nil {
		slog.Error("Error decoding message", "err", err)
		WriteError(w, err)
		return
	}

	if err := receive(r.Context(), m.Message); err != nil {
		slog.Error("Error receiving message", "err", err)
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("success")); err != nil {
		slog.Error("Error writing response", "err", err)
	}
}
