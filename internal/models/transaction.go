package models

import "strings"

// TransactionRecord is a statement line that tripped at least one flag rule.
type TransactionRecord struct {
	Date        string   `json:"date"`
	Description string   `json:"description"`
	Amount      float64  `json:"amount"` // largest absolute amount on the line, sign kept
	FlagReasons []string `json:"flagReasons"`
}

// FlagReason joins the reasons for display and export.
func (r TransactionRecord) FlagReason() string {
	return strings.Join(r.FlagReasons, "; ")
}

// Line outcomes recorded in DebugLine.Result.
const (
	ResultSummary    = "summary"
	ResultNoAmount   = "no-amount"
	ResultNotFlagged = "not-flagged"
	ResultFlagged    = "flagged"
)

// DebugLine captures what the scanner did with each non-empty input line.
type DebugLine struct {
	LineNum int    `json:"lineNum"`
	Text    string `json:"text"`
	Result  string `json:"result"`
	Amounts int    `json:"amounts,omitempty"`
}

// ScanResult holds the flagged records of one document plus scan statistics.
type ScanResult struct {
	ID           string
	Source       string
	Institution  string
	Records      []TransactionRecord
	LinesTotal   int
	LinesSkipped int
	DebugLines   []DebugLine
}
