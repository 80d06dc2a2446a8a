package handlers

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type reviewBody struct {
	Reason   string `json:"reason"`
	Priority int    `json:"priority"`
}

func TestBindNestedOrFlat(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		key         string
		body        string
		expected    reviewBody
		expectError bool
	}{
		{
			name:        "Nested Structure",
			key:         "application",
			body:        `{"application": {"reason": "GST mismatch", "priority": 1}}`,
			expected:    reviewBody{Reason: "GST mismatch", Priority: 1},
			expectError: false,
		},
		{
			name:        "Flat Structure",
			key:         "application",
			body:        `{"reason": "PAN illegible", "priority": 2}`,
			expected:    reviewBody{Reason: "PAN illegible", Priority: 2},
			expectError: false,
		},
		{
			name:        "Nested Structure with Missing Key Fallback",
			key:         "application",
			body:        `{"other": "value", "reason": "address incomplete", "priority": 3}`,
			expected:    reviewBody{Reason: "address incomplete", Priority: 3},
			expectError: false,
		},
		{
			name:        "Nested Structure with Different Key",
			key:         "review",
			body:        `{"review": {"reason": "duplicate filing", "priority": 1}}`,
			expected:    reviewBody{Reason: "duplicate filing", Priority: 1},
			expectError: false,
		},
		{
			name:        "Invalid JSON",
			key:         "application",
			body:        `{"reason": "x", "priority": "invalid"}`,
			expected:    reviewBody{},
			expectError: true,
		},
		{
			name:        "Nested but Invalid Content",
			key:         "application",
			body:        `{"application": {"reason": "x", "priority": "invalid"}}`,
			expected:    reviewBody{},
			expectError: true,
		},
		{
			name:        "Nested Key Present but Invalid Type",
			key:         "application",
			body:        `{"application": "some string"}`,
			expected:    reviewBody{},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("POST", "/", bytes.NewBufferString(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var result reviewBody
			err := BindNestedOrFlat(c, tt.key, &result)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}
