package endpoints

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minbar/internal/db"
	"github.com/Nixie-Tech-LLC/minbar/internal/http/api"
	"github.com/Nixie-Tech-LLC/minbar/internal/model"
)

// storeError maps repository errors onto HTTP statuses; what names the
// resource in a 404.
func storeError(err error, what string) *api.APIError {
	var dup *db.DuplicateScheduleError
	switch {
	case errors.As(err, &dup):
		return &api.APIError{Code: http.StatusConflict, Message: dup.Error()}
	case errors.Is(err, db.ErrNotFound):
		return &api.APIError{Code: http.StatusNotFound, Message: what + " not found"}
	case errors.Is(err, db.ErrInvalidReference), errors.Is(err, db.ErrBlankName):
		return &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	return &api.APIError{Code: http.StatusInternalServerError, Message: "internal error"}
}

func paramID(ctx *gin.Context) (int, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id <= 0 {
		log.Error().Err(err).Str("id_raw", ctx.Param("id")).Msg("invalid id in request")
		return 0, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	return id, nil
}

func countryCode(code string) (string, *api.APIError) {
	if code == "" {
		return model.DefaultCountryCode, nil
	}
	if !model.IsSupportedCountryCode(code) {
		return "", &api.APIError{Code: http.StatusBadRequest, Message: "unsupported country code " + code}
	}
	return code, nil
}

// requiredName trims name; a name of only spaces passes binding but is still empty.
func requiredName(name string) (string, *api.APIError) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &api.APIError{Code: http.StatusBadRequest, Message: "name must not be blank"}
	}
	return name, nil
}
