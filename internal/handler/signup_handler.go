package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Muhammed-IrfanAC/signup-bot/internal/dto"
	"github.com/Muhammed-IrfanAC/signup-bot/internal/service"
	"github.com/Muhammed-IrfanAC/signup-bot/pkg/response"
	"github.com/Muhammed-IrfanAC/signup-bot/pkg/telemetry"
)

// SignupHandler handles roster membership requests
type SignupHandler struct {
	signupService service.SignupService
}

// NewSignupHandler creates a new SignupHandler
func NewSignupHandler(signupService service.SignupService) *SignupHandler {
	return &SignupHandler{signupService: signupService}
}

// Signup handles POST /guilds/:guild_id/events/:name/signups
func (h *SignupHandler) Signup(c *gin.Context) {
	guildID := c.Param("guild_id")
	name := c.Param("name")

	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request body"))
		return
	}

	ctx, span := telemetry.StartSpan(c.Request.Context(), "roster.signup",
		attribute.String("guild_id", guildID),
		attribute.String("event", name),
	)
	defer span.End()

	result, err := h.signupService.Signup(ctx, guildID, name, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(&dto.SignupResultResponse{
		Signup: dto.NewSignupResponse(result.Signup),
		RoleID: result.RoleID,
	}))
}

// Remove handles POST /guilds/:guild_id/events/:name/removals
func (h *SignupHandler) Remove(c *gin.Context) {
	guildID := c.Param("guild_id")
	name := c.Param("name")

	var req dto.RemovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request body"))
		return
	}

	ctx, span := telemetry.StartSpan(c.Request.Context(), "roster.remove",
		attribute.String("guild_id", guildID),
		attribute.String("event", name),
	)
	defer span.End()

	result, err := h.signupService.Remove(ctx, guildID, name, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(&dto.RemovalResultResponse{
		Removed:       dto.NewSignupResponse(result.Removed),
		RoleID:        result.RoleID,
		IsSelfRemoval: result.IsSelfRemoval,
	}))
}

// Check handles POST /guilds/:guild_id/events/:name/check
func (h *SignupHandler) Check(c *gin.Context) {
	guildID := c.Param("guild_id")
	name := c.Param("name")

	var req dto.CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request body"))
		return
	}
	if valid, msg := req.Validate(); !valid {
		c.JSON(http.StatusBadRequest, response.BadRequest(msg))
		return
	}

	result, err := h.signupService.Check(c.Request.Context(), guildID, name, req.PlayerTag)
	if err != nil {
		writeError(c, err)
		return
	}

	out := &dto.CheckResponse{SignedUp: result.SignedUp}
	if result.Signup != nil {
		out.Signup = dto.NewSignupResponse(result.Signup)
	}
	c.JSON(http.StatusOK, response.Success(out))
}

// List handles GET /guilds/:guild_id/events/:name/signups
func (h *SignupHandler) List(c *gin.Context) {
	guildID := c.Param("guild_id")
	name := c.Param("name")

	signups, err := h.signupService.ListSignups(c.Request.Context(), guildID, name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(dto.NewSignupListResponse(signups)))
}
