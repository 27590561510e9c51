package password_test

import (
	"testing"

	"resort/shared/password"
)

func TestCheckPolicy(t *testing.T) {
	tests := []struct {
		name        string
		password    string
		expectError bool
		expectedMsg string
	}{
		{
			name:        "valid password",
			password:    "Secure1!x",
			expectError: false,
		},
		{
			name:        "too short",
			password:    "Ab1!",
			expectError: true,
			expectedMsg: "password must be at least 8 characters long",
		},
		{
			name:        "missing uppercase",
			password:    "short1!aaaa",
			expectError: true,
			expectedMsg: "password must contain an uppercase letter",
		},
		{
			name:        "missing lowercase",
			password:    "SHORT1!AAAA",
			expectError: true,
			expectedMsg: "password must contain a lowercase letter",
		},
		{
			name:        "missing digit",
			password:    "Shortone!aaa",
			expectError: true,
			expectedMsg: "password must contain a digit",
		},
		{
			name:        "missing symbol",
			password:    "Shortone1aaa",
			expectError: true,
			expectedMsg: "password must contain a symbol",
		},
		{
			name:        "length failure reported before missing uppercase",
			password:    "ab1!",
			expectError: true,
			expectedMsg: "password must be at least 8 characters long",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := password.CheckPolicy(tt.password)

			if !tt.expectError {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}

				return
			}

			if err == nil {
				t.Fatal("expected error, got nil")
			}

			if err.Error() != tt.expectedMsg {
				t.Errorf("expected message %q, got %q", tt.expectedMsg, err.Error())
			}
		})
	}
}
