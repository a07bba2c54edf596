package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	e := NewEvaluator(DefaultConfig())

	tests := []struct {
		name     string
		line     string
		amounts  []float64
		expected []string
	}{
		{
			name:     "threshold is inclusive",
			line:     "Wire in $10,000.00",
			amounts:  []float64{10000.00},
			expected: []string{"Amount over $10,000"},
		},
		{
			name:     "negative amount uses absolute value",
			line:     "Transfer out (15,000.00)",
			amounts:  []float64{-15000},
			expected: []string{"Amount over $10,000"},
		},
		{
			name:     "below threshold",
			line:     "Coffee shop $4.50",
			amounts:  []float64{4.50},
			expected: nil,
		},
		{
			name:     "keyword any case",
			line:     "PENSION PAYMENT 350.00",
			amounts:  []float64{350},
			expected: []string{`Keyword: "pension"`},
		},
		{
			name:     "first keyword in list order wins",
			line:     "dividend reinvest into annuity 20.00",
			amounts:  []float64{20},
			expected: []string{`Keyword: "annuity"`},
		},
		{
			name:     "amount reason precedes keyword reason",
			line:     "Transfer to unknown account $12,345.67",
			amounts:  []float64{12345.67},
			expected: []string{"Amount over $10,000", `Keyword: "unknown account"`},
		},
		{
			name:     "only one amount reason",
			line:     "20,000.00 and 30,000.00",
			amounts:  []float64{20000, 30000},
			expected: []string{"Amount over $10,000"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, e.Evaluate(tt.line, tt.amounts))
		})
	}
}

func TestEvaluate_CustomConfig(t *testing.T) {
	e := NewEvaluator(Config{AmountThreshold: 2500.5, Keywords: []string{"Royalty", "  "}})

	assert.Equal(t, []string{"Amount over $2,500.5"}, e.Evaluate("x", []float64{2500.5}))
	assert.Equal(t, []string{`Keyword: "Royalty"`}, e.Evaluate("royalty cheque", []float64{1}))
	assert.Empty(t, e.Evaluate("plain line", []float64{1}))
}

func TestNewEvaluator_CopiesKeywords(t *testing.T) {
	cfg := DefaultConfig()
	e := NewEvaluator(cfg)
	cfg.Keywords[1] = "groceries"

	assert.Equal(t, []string{`Keyword: "pension"`}, e.Evaluate("pension", nil))
	assert.Empty(t, e.Evaluate("groceries", nil))
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	require.NoError(t, Config{}.Validate())

	err := Config{AmountThreshold: -1}.Validate()
	require.Error(t, err)

	err = Config{Keywords: []string{"pension", ""}}.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, errEmptyKeyword)
}

func TestConfigRules(t *testing.T) {
	got := DefaultConfig().Rules()
	require.Len(t, got, 6)
	assert.Equal(t, KindAmount, got[0].Kind)
	assert.Equal(t, "Amount over $10,000", got[0].Reason())
	assert.Equal(t, Rule{Kind: KindKeyword, Keyword: "life insurance"}, got[1])
}

func TestFold(t *testing.T) {
	assert.Equal(t, Fold("unknown account"), Fold("Unknown ACCOUNT"))
}
