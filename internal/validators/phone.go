package validators

import (
	"regexp"
	"strings"
)

// French numbers: 0X XX XX XX XX, +33 X XX XX XX XX or 0033..., with
// optional spaces, dots or dashes between pairs.
var frPhone = regexp.MustCompile(`^(?:(?:\+|00)33|0)\s*[1-9](?:[\s.-]*\d{2}){4}$`)

var phoneSeparators = strings.NewReplacer(" ", "", ".", "", "-", "", "\t", "")

func IsPhone(phone string) bool {
	return frPhone.MatchString(strings.TrimSpace(phone))
}

// NormalizePhone strips separators so the same number always matches the
// same client.
func NormalizePhone(phone string) string {
	return phoneSeparators.Replace(strings.TrimSpace(phone))
}
