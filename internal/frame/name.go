package frame

import (
	"strings"
	"unicode"
)

// NormalizeName converts a column header to lower snake_case.
// Word boundaries are any run of non-alphanumeric characters and
// lower-to-upper case transitions, so "Number of offences",
// "Number.of.offences" and "NumberOfOffences" all become
// "number_of_offences". A leading byte order mark is ignored.
func NormalizeName(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")

	var sb strings.Builder
	var prev rune
	pendingSep := false

	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			pendingSep = sb.Len() > 0
			prev = r
			continue
		}
		if unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
			pendingSep = true
		}
		if pendingSep {
			sb.WriteByte('_')
			pendingSep = false
		}
		sb.WriteRune(unicode.ToLower(r))
		prev = r
	}

	return sb.String()
}
