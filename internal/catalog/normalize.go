package catalog

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// newFolder returns a case folder. A Caser carries state, so each call site
// that may run concurrently takes its own.
func newFolder() cases.Caser {
	return cases.Fold()
}

// foldString NFC-normalizes s and applies full Unicode case folding.
func foldString(c cases.Caser, s string) string {
	if s == "" {
		return ""
	}
	return c.String(norm.NFC.String(s))
}
