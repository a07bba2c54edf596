package parser

import "strings"

// institutions maps a display name to identifiers seen in statement text.
// Order matters: the first institution with a match wins.
var institutions = []struct {
	name    string
	needles []string
}{
	{"Chase", []string{"jpmorgan chase", "chase.com", "chase bank"}},
	{"Bank of America", []string{"bank of america", "bankofamerica.com"}},
	{"Wells Fargo", []string{"wells fargo", "wellsfargo.com"}},
	{"Citibank", []string{"citibank", "citi.com"}},
	{"Capital One", []string{"capital one", "capitalone.com"}},
	{"U.S. Bank", []string{"u.s. bank", "usbank.com"}},
	{"TD Bank", []string{"td bank", "tdbank.com"}},
	{"PNC", []string{"pnc bank", "pnc.com"}},
	{"Metro Bank", []string{"metro bank", "metrobankonline"}},
	{"HSBC", []string{"hsbc"}},
	{"Barclays", []string{"barclays"}},
}

// DetectInstitution names the issuing bank from identifiers in the text, or
// returns "" when none is recognised. It is a label for reports only and
// does not change how lines are scanned.
func DetectInstitution(text string) string {
	lower := strings.ToLower(text)
	for _, inst := range institutions {
		for _, needle := range inst.needles {
			if strings.Contains(lower, needle) {
				return inst.name
			}
		}
	}
	return ""
}
