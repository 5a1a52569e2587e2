package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidParameter, "test message: %s", "value")

	if err.Code != ErrCodeInvalidParameter {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidParameter)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_PARAMETER: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeRenderFailure, cause, "failed to write")

	if err.Code != ErrCodeRenderFailure {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeRenderFailure)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidParameter, "test"),
			code:     ErrCodeInvalidParameter,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidParameter, "test"),
			code:     ErrCodeRenderFailure,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeRenderFailure, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeRenderFailure,
			expected: true,
		},
		{
			name:     "fmt wrapped",
			err:      fmtWrap(New(ErrCodeImageDecode, "bad png")),
			code:     ErrCodeImageDecode,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func fmtWrap(err error) error {
	return &wrapped{err}
}

type wrapped struct{ err error }

func (w *wrapped) Error() string { return "outer: " + w.err.Error() }
func (w *wrapped) Unwrap() error { return w.err }

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeInvalidColor, "test"), ErrCodeInvalidColor},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeInvalidInput, "friendly message"), "friendly message"},
		{"with cause", Wrap(ErrCodeRenderFailure, errors.New("disk full"), "write pdf"), "write pdf: disk full"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"decode failure", New(ErrCodeImageDecode, "bad"), false},
		{"too large", New(ErrCodeImageTooLarge, "huge"), false},
		{"render failure", New(ErrCodeRenderFailure, "boom"), true},
		{"invalid parameter", New(ErrCodeInvalidParameter, "spacing"), true},
		{"plain", errors.New("plain"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fatal(tt.err); got != tt.want {
				t.Errorf("Fatal() = %v, want %v", got, tt.want)
			}
		})
	}
}
