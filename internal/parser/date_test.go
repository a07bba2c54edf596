package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractDate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"03/15/2024 Deposit 04/01/2024", "03/15/2024"},
		{"  03/15/2024 leading spaces", "03/15/2024"},
		{"Posted 1/5/24 ATM", "1/5/24"},
		{"Deposit on 2024-03-15 ref 1/2/2023", "1/2/2023"},
		{"Settled 2024-03-15", "2024-03-15"},
		{"13/45/2099 not validated", "13/45/2099"},
		{"no date here 100.00", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractDate(tt.input))
		})
	}
}
