package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/survivor-fantasy/internal/usecase"
)

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response")
	}
	if got, _ := errorObj["status"].(string); got != "INVALID_ARGUMENT" {
		t.Fatalf("expected error status INVALID_ARGUMENT, got %v", errorObj["status"])
	}
}

func TestMapError_DistinguishesWindows(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "not yet open", err: fmt.Errorf("%w: picks open later", usecase.ErrNotYetOpen), wantStatus: http.StatusTooEarly, wantCode: "NOT_YET_OPEN"},
		{name: "closed", err: fmt.Errorf("%w: picks locked", usecase.ErrClosed), wantStatus: http.StatusConflict, wantCode: "CLOSED"},
		{name: "closed wins over invalid", err: fmt.Errorf("%w: %w", usecase.ErrClosed, usecase.ErrInvalidInput), wantStatus: http.StatusConflict, wantCode: "CLOSED"},
		{name: "conflict", err: fmt.Errorf("%w: castaway taken", usecase.ErrConflict), wantStatus: http.StatusConflict, wantCode: "ABORTED"},
		{name: "precondition", err: fmt.Errorf("%w: window still open", usecase.ErrPrecondition), wantStatus: http.StatusPreconditionFailed, wantCode: "FAILED_PRECONDITION"},
		{name: "not found", err: usecase.ErrNotFound, wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "unknown", err: fmt.Errorf("boom"), wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(context.Background(), tt.err)
			if got.HTTPStatus != tt.wantStatus || got.Status != tt.wantCode {
				t.Fatalf("mapError(%v)=%+v want status=%d code=%s", tt.err, got, tt.wantStatus, tt.wantCode)
			}
		})
	}
}
