package booking

import (
	"strings"
	"unicode/utf8"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/validators"
)

// normalize trims and validates client-supplied booking fields.
func normalize(in CreateBookingInput) (CreateBookingInput, error) {
	in.ClientName = strings.TrimSpace(in.ClientName)
	in.ClientEmail = strings.ToLower(strings.TrimSpace(in.ClientEmail))
	in.Notes = strings.TrimSpace(in.Notes)

	if n := utf8.RuneCountInString(in.ClientName); n < 2 || n > 100 {
		return in, &domain.ValidationError{Field: "clientName", Reason: "must be 2 to 100 characters"}
	}

	if !validators.IsPhone(in.ClientPhone) {
		return in, &domain.ValidationError{Field: "clientPhone", Reason: "invalid phone number"}
	}
	in.ClientPhone = validators.NormalizePhone(in.ClientPhone)

	if in.ClientEmail != "" && !validators.IsEmail(in.ClientEmail) {
		return in, &domain.ValidationError{Field: "clientEmail", Reason: "invalid email"}
	}

	if in.ServiceID == 0 {
		return in, &domain.ValidationError{Field: "serviceId", Reason: "required"}
	}

	if in.Start.IsZero() {
		return in, &domain.ValidationError{Field: "date", Reason: "required"}
	}

	if utf8.RuneCountInString(in.Notes) > 255 {
		return in, &domain.ValidationError{Field: "notes", Reason: "must be at most 255 characters"}
	}

	return in, nil
}
