package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Muhammed-IrfanAC/signup-bot/internal/directory"
	"github.com/Muhammed-IrfanAC/signup-bot/internal/repository"
	"github.com/Muhammed-IrfanAC/signup-bot/internal/service"
	"github.com/Muhammed-IrfanAC/signup-bot/pkg/response"
)

// writeError translates service and repository sentinels into the response
// envelope with a stable error code.
func writeError(c *gin.Context, err error) {
	var code, message string

	switch {
	case errors.Is(err, service.ErrValidation):
		code, message = response.ErrCodeBadRequest, err.Error()
	case errors.Is(err, service.ErrForbidden):
		code, message = response.ErrCodeForbidden, "Requester is not allowed to perform this action"
	case errors.Is(err, repository.ErrEventNotFound):
		code, message = response.ErrCodeNotFound, "Event not found"
	case errors.Is(err, repository.ErrSignupNotFound):
		code, message = response.ErrCodeNotFound, "Signup not found"
	case errors.Is(err, repository.ErrLeaderRoleNotFound):
		code, message = response.ErrCodeNotFound, "Leader role not found"
	case errors.Is(err, directory.ErrPlayerNotFound):
		code, message = response.ErrCodeNotFound, "Player not found"
	case errors.Is(err, repository.ErrEventExists):
		code, message = response.ErrCodeAlreadyExists, "An event with this name already exists"
	case errors.Is(err, repository.ErrAlreadyClosed):
		code, message = response.ErrCodeAlreadyClosed, "Registration is already closed"
	case errors.Is(err, repository.ErrEventClosed):
		code, message = response.ErrCodeRegistrationClosed, "Registration is closed"
	case errors.Is(err, repository.ErrDuplicateSignup):
		code, message = response.ErrCodeDuplicateSignup, "This player is already signed up"
	case errors.Is(err, directory.ErrLookupFailed):
		code, message = response.ErrCodeLookupFailed, "Player lookup failed"
	case errors.Is(err, repository.ErrInconsistent), errors.Is(err, repository.ErrEventFrozen):
		code, message = response.ErrCodeInconsistent, "Roster is inconsistent and frozen; manual repair required"
	default:
		code, message = response.ErrCodeInternalError, "An internal error occurred"
	}

	c.JSON(response.GetHTTPStatus(code), response.Error(code, message))
}
