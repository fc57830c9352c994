package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected string
	}{
		{
			name:     "string detail",
			status:   400,
			body:     `{"detail": "Email already registered"}`,
			expected: "Email already registered",
		},
		{
			name:     "array of msg objects",
			status:   422,
			body:     `{"detail": [{"msg": "field required"}, {"msg": "value is not a valid email address"}]}`,
			expected: "field required. value is not a valid email address",
		},
		{
			name:     "array of plain strings",
			status:   422,
			body:     `{"detail": ["first problem", "second problem"]}`,
			expected: "first problem. second problem",
		},
		{
			name:     "array with message key",
			status:   422,
			body:     `{"detail": [{"message": "bad input"}]}`,
			expected: "bad input",
		},
		{
			name:     "nested object with msg",
			status:   400,
			body:     `{"detail": {"msg": "Invalid or expired OTP"}}`,
			expected: "Invalid or expired OTP",
		},
		{
			name:     "nested object with message",
			status:   400,
			body:     `{"detail": {"message": "something went wrong"}}`,
			expected: "something went wrong",
		},
		{
			name:     "missing detail falls back to status text",
			status:   500,
			body:     `{}`,
			expected: "Internal Server Error",
		},
		{
			name:     "unparseable body falls back to status text",
			status:   502,
			body:     `<html>bad gateway</html>`,
			expected: "Bad Gateway",
		},
		{
			name:     "empty body",
			status:   401,
			body:     ``,
			expected: "Unauthorized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractErrorMessage(tt.status, []byte(tt.body))
			assert.Equal(t, tt.expected, got)
			assert.NotEmpty(t, got)
		})
	}
}
