package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestPromptBankAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		prompts int
		err     error
	}{
		{"first answer", "500\n", "500", 1, nil},
		{"retries until numeric", "\nlots\n  1234,50 \n", "1234,50", 3, nil},
		{"negative allowed", "-20\n", "-20", 1, nil},
		{"no trailing newline", "42", "42", 1, nil},
		{"input ends", "abc\n", "", 2, ErrNoInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := PromptBankAmount(strings.NewReader(tt.input), &out)
			if !errors.Is(err, tt.err) {
				t.Fatalf("err = %v, want %v", err, tt.err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
			if n := strings.Count(out.String(), "Enter your current bank amount"); n != tt.prompts {
				t.Fatalf("prompted %d times, want %d", n, tt.prompts)
			}
		})
	}
}
