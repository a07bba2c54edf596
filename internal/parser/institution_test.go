package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectInstitution(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"chase", "JPMorgan Chase Bank, N.A.\nAccount Statement", "Chase"},
		{"wells fargo", "Wells Fargo Everyday Checking", "Wells Fargo"},
		{"metro bank", "Metro Bank\nAccount Statement\n15/01/2024", "Metro Bank"},
		{"hsbc", "HSBC UK Bank plc\nYour Statement", "HSBC"},
		{"barclays", "Barclays Bank UK PLC\nStatement", "Barclays"},
		{"unknown", "Some Credit Union\nStatement", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectInstitution(tt.text))
		})
	}
}
