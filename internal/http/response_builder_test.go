package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

func TestResponseBuilder_Basic(t *testing.T) {
	w := httptest.NewRecorder()

	NewResponse().
		Status(http.StatusCreated).
		Header("X-Custom", "value").
		Body([]byte("test")).
		Write(w)

	if w.Code != http.StatusCreated {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusCreated)
	}
	if w.Body.String() != "test" {
		t.Errorf("Body = %q, want %q", w.Body.String(), "test")
	}
	if w.Header().Get("X-Custom") != "value" {
		t.Errorf("X-Custom header = %q", w.Header().Get("X-Custom"))
	}
}

func TestResponseBuilder_JSON(t *testing.T) {
	w := httptest.NewRecorder()
	NewResponse().JSON(map[string]core.Money{"amount": {Cents: 1250}}).Write(w)

	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"amount":12.5}` {
		t.Errorf("Body = %s", got)
	}
}

func TestHTMLErrorResponse_Escapes(t *testing.T) {
	w := httptest.NewRecorder()
	HTMLErrorResponse(http.StatusBadRequest, "<script>").Write(w)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Status code = %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "<script>") {
		t.Errorf("message not escaped: %s", w.Body.String())
	}
}

func TestServiceError(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		code  int
		field string
		msg   string
	}{
		{"validation", fmt.Errorf("add: %w", &core.ValidationError{Field: "amount", Err: core.ErrInvalidAmount}), http.StatusUnprocessableEntity, "amount", "invalid amount"},
		{"not found", ledger.ErrNotFound, http.StatusNotFound, "", "transaction not found"},
		{"bank set", ledger.ErrBankAmountSet, http.StatusConflict, "", "bank amount already set"},
		{"internal", errors.New("disk full"), http.StatusInternalServerError, "", "internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ServiceError(tt.err).Write(w)
			if w.Code != tt.code {
				t.Fatalf("Status code = %d, want %d", w.Code, tt.code)
			}
			var body errorBody
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error != tt.msg || body.Field != tt.field {
				t.Fatalf("body = %+v", body)
			}
		})
	}
}
