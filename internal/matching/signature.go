package matching

import (
	"strings"

	"assessly-backend/internal/model"
)

const (
	// Separator joins primary codes in a canonical signature.
	Separator        = ", "
	compactSeparator = ","
)

// BuildSignature joins the primary answer codes of one category group in
// submission order. Unanswered entries are skipped; a group with no answered
// entries yields "".
func BuildSignature(answers []model.Answer) string {
	codes := make([]string, 0, len(answers))
	for _, a := range answers {
		if !a.Primary.IsAnswered() {
			continue
		}
		codes = append(codes, string(a.Primary.Normalize()))
	}
	return strings.Join(codes, Separator)
}

// CompactSignature returns the variant without a space after each comma.
func CompactSignature(signature string) string {
	return strings.ReplaceAll(signature, Separator, compactSeparator)
}
