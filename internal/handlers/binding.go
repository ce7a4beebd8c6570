package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
)

// badRequest answers a failed ShouldBind* call with the offending fields.
func badRequest(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field()+" ("+fe.Tag()+")")
		}
		httperr.BadRequest(c, "invalid_input", "Données invalides : "+strings.Join(fields, ", "))
		return
	}
	httperr.BadRequest(c, "invalid_input", "Données invalides.")
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_input", "Identifiant invalide.")
		return 0, false
	}
	return uint(id), true
}
