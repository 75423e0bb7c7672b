package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"fintrack/internal/core"
)

// ErrNoInput is returned when the input ends before a valid amount is read.
var ErrNoInput = errors.New("no bank amount entered")

// PromptBankAmount asks for the starting bank balance until the answer
// parses as a number. It returns the trimmed text as typed.
func PromptBankAmount(in io.Reader, out io.Writer) (string, error) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "Enter your current bank amount: ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", fmt.Errorf("read bank amount: %w", err)
			}
			return "", ErrNoInput
		}
		answer := strings.TrimSpace(scanner.Text())
		if _, err := core.ParseBalance(answer); err == nil {
			return answer, nil
		}
		fmt.Fprintln(out, "Please enter a valid number.")
	}
}

// IsInteractive reports whether f is attached to a terminal.
func IsInteractive(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
