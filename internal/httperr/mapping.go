package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type rule struct {
	status  int
	message string
}

var rules = map[string]rule{
	"invalid_input":          {http.StatusBadRequest, "Données invalides."},
	"past_date":              {http.StatusBadRequest, "La date doit être dans le futur."},
	"too_soon":               {http.StatusBadRequest, "Ce créneau est trop proche pour être réservé."},
	"closed_day":             {http.StatusBadRequest, "Le salon est fermé ce jour-là."},
	"outside_business_hours": {http.StatusBadRequest, "Horaire en dehors des heures d'ouverture."},
	"service_not_found":      {http.StatusNotFound, "Service introuvable ou indisponible."},
	"booking_not_found":      {http.StatusNotFound, "Réservation introuvable."},
	"slot_taken":             {http.StatusConflict, "Ce créneau vient d'être réservé. Choisissez un autre horaire."},
	"invalid_state":          {http.StatusUnprocessableEntity, "Changement de statut impossible."},
	"invalid_business_hours": {http.StatusBadRequest, "Horaires d'ouverture invalides."},
	"uploads_disabled":       {http.StatusServiceUnavailable, "Le stockage d'images n'est pas configuré."},
	"invalid_image":          {http.StatusBadRequest, "Image invalide."},
}

// FromError writes the JSON error matching err. Business errors get their
// mapped status; anything else is recorded on the context and answered
// with an opaque 500.
func FromError(c *gin.Context, err error) {
	code, ok := CodeOf(err)
	if !ok {
		_ = c.Error(err)
		Internal(c, "internal_error", "Erreur interne. Réessayez plus tard.")
		return
	}

	r, known := rules[code]
	if !known {
		r = rule{http.StatusBadRequest, code}
	}

	msg := r.message
	if code == "invalid_input" || code == "invalid_business_hours" {
		msg = err.Error()
	}

	Write(c, r.status, code, msg)
}

// StatusFor reports the HTTP status FromError would use for err.
func StatusFor(err error) int {
	code, ok := CodeOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	if r, known := rules[code]; known {
		return r.status
	}
	return http.StatusBadRequest
}
