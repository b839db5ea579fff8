package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/eventplanner/internal/domain/entity"
	"github.com/oksasatya/eventplanner/pkg/helpers"
	"github.com/oksasatya/eventplanner/pkg/response"
	"github.com/oksasatya/eventplanner/pkg/validation"
)

// writeServiceError maps service errors onto the response envelope.
// Unexpected errors are logged and answered with a generic 500.
func writeServiceError(c *gin.Context, logger *logrus.Logger, err error) {
	var ve *entity.ValidationError
	switch {
	case errors.As(err, &ve):
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(ve))
	case errors.Is(err, entity.ErrDuplicateEmail):
		response.Error[any](c, http.StatusBadRequest, "email already registered", nil)
	case errors.Is(err, entity.ErrInvalidCredentials):
		response.Error[any](c, http.StatusBadRequest, "invalid credentials", nil)
	case errors.Is(err, entity.ErrInvalidOwner):
		response.Error[any](c, http.StatusUnauthorized, "invalid token", nil)
	case errors.Is(err, entity.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
	case errors.Is(err, entity.ErrEventNotFound):
		response.Error[any](c, http.StatusNotFound, "event not found", nil)
	default:
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		})
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
	}
}

func bindError(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}
