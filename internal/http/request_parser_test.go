package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fintrack/internal/core"
)

func TestRequestBodyParser_JSON(t *testing.T) {
	body := `{"desc":" lunch ","amount":12.5,"paid":true,"note":null}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	p := NewRequestBodyParser(req)
	if err := p.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if got := p.Get("desc"); got != "lunch" {
		t.Errorf("Get(desc) = %q, want %q", got, "lunch")
	}
	if got := p.Get("amount"); got != "12.5" {
		t.Errorf("Get(amount) = %q, want %q", got, "12.5")
	}
	if got := p.Get("paid"); got != "true" {
		t.Errorf("Get(paid) = %q", got)
	}
	if got := p.Get("note"); got != "" {
		t.Errorf("Get(note) = %q, want empty", got)
	}
	if !p.Has("note") || p.Has("missing") {
		t.Error("Has() mismatch")
	}
}

func TestRequestBodyParser_Form(t *testing.T) {
	body := "desc=Test+Item&amount=10%2C50"
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	p := NewRequestBodyParser(req)
	if err := p.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := p.Get("desc"); got != "Test Item" {
		t.Errorf("Get(desc) = %q", got)
	}
	if got := p.Get("amount"); got != "10,50" {
		t.Errorf("Get(amount) = %q", got)
	}
}

func TestRequestBodyParser_Errors(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"desc":`))
	if err := NewRequestBodyParser(req).Parse(); err == nil {
		t.Error("expected error for truncated JSON")
	}

	big := strings.Repeat("a", maxBodyBytes+10)
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("desc="+big))
	if err := NewRequestBodyParser(req).Parse(); !errors.Is(err, errBodyTooLarge) {
		t.Errorf("expected errBodyTooLarge, got %v", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	p := NewRequestBodyParser(req)
	if err := p.Parse(); err != nil || p.Get("desc") != "" {
		t.Errorf("empty body: err=%v", err)
	}
}

func TestDraftFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/",
		strings.NewReader(`{"date":"2024-03-01","desc":"bus","amount":"2,40","category":"Transport"}`))
	d, err := draftFromRequest(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Date != "2024-03-01" || d.Desc != "bus" || d.Amount.Cents != 240 || d.Category != "Transport" {
		t.Fatalf("unexpected draft %+v", d)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("date=2024-03-01&desc=bus&amount=abc&category=Transport"))
	if _, err := draftFromRequest(req); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestValueFromRequest(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{"present", `{"theme":"dark"}`, "dark", false},
		{"empty value", `{"theme":""}`, "", false},
		{"absent", `{"color":"dark"}`, "", true},
		{"empty object", `{}`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			got, err := valueFromRequest(req, "theme")
			if (err != nil) != tt.wantErr {
				t.Fatalf("valueFromRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("valueFromRequest() = %q, want %q", got, tt.want)
			}
		})
	}
}
