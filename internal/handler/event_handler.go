package handler

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Muhammed-IrfanAC/signup-bot/internal/domain"
	"github.com/Muhammed-IrfanAC/signup-bot/internal/dto"
	"github.com/Muhammed-IrfanAC/signup-bot/internal/export"
	"github.com/Muhammed-IrfanAC/signup-bot/internal/service"
	"github.com/Muhammed-IrfanAC/signup-bot/pkg/response"
	"github.com/Muhammed-IrfanAC/signup-bot/pkg/telemetry"
)

// EventHandler handles event lifecycle and leader registry requests
type EventHandler struct {
	eventService service.EventService
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// Create handles POST /guilds/:guild_id/events
func (h *EventHandler) Create(c *gin.Context) {
	guildID := c.Param("guild_id")

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request body"))
		return
	}

	ctx, span := telemetry.StartSpan(c.Request.Context(), "event.create",
		attribute.String("guild_id", guildID),
		attribute.String("event", req.Name),
	)
	defer span.End()

	event, err := h.eventService.Create(ctx, guildID, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(dto.NewEventResponse(event)))
}

// List handles GET /guilds/:guild_id/events
func (h *EventHandler) List(c *gin.Context) {
	guildID := c.Param("guild_id")

	events, err := h.eventService.List(c.Request.Context(), guildID)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]*dto.EventResponse, len(events))
	for i, event := range events {
		out[i] = dto.NewEventResponse(event)
	}
	c.JSON(http.StatusOK, response.Success(&dto.EventListResponse{Events: out, Total: len(out)}))
}

// Get handles GET /guilds/:guild_id/events/:name
func (h *EventHandler) Get(c *gin.Context) {
	guildID := c.Param("guild_id")
	name := c.Param("name")

	event, signups, err := h.eventService.Get(c.Request.Context(), guildID, name)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(&dto.EventDetailResponse{
		Event:     dto.NewEventResponse(event),
		Signups:   dto.NewSignupListResponse(signups),
		Histogram: buildHistogram(signups),
	}))
}

// Delete handles DELETE /guilds/:guild_id/events/:name
func (h *EventHandler) Delete(c *gin.Context) {
	guildID := c.Param("guild_id")
	name := c.Param("name")

	var req dto.DeleteEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request body"))
		return
	}

	ctx, span := telemetry.StartSpan(c.Request.Context(), "event.delete",
		attribute.String("guild_id", guildID),
		attribute.String("event", name),
	)
	defer span.End()

	if err := h.eventService.Delete(ctx, guildID, name, req.Actor); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(gin.H{"deleted": name}))
}

// Close handles POST /guilds/:guild_id/events/:name/close
func (h *EventHandler) Close(c *gin.Context) {
	guildID := c.Param("guild_id")
	name := c.Param("name")

	var req dto.CloseEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request body"))
		return
	}

	ctx, span := telemetry.StartSpan(c.Request.Context(), "event.close",
		attribute.String("guild_id", guildID),
		attribute.String("event", name),
	)
	defer span.End()

	if err := h.eventService.Close(ctx, guildID, name, req.Actor); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(gin.H{"closed": name}))
}

// BindMessage handles PUT /guilds/:guild_id/events/:name/message
func (h *EventHandler) BindMessage(c *gin.Context) {
	guildID := c.Param("guild_id")
	name := c.Param("name")

	var req dto.BindMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request body"))
		return
	}
	if valid, msg := req.Validate(); !valid {
		c.JSON(http.StatusBadRequest, response.BadRequest(msg))
		return
	}

	ref := domain.MessageRef{ChannelID: req.ChannelID, MessageID: req.MessageID}
	if err := h.eventService.BindMessage(c.Request.Context(), guildID, name, ref); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(gin.H{"bound": name}))
}

// Export handles GET /guilds/:guild_id/events/:name/export
func (h *EventHandler) Export(c *gin.Context) {
	guildID := c.Param("guild_id")
	name := c.Param("name")

	var actor dto.Actor
	if err := c.ShouldBindQuery(&actor); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid actor parameters"))
		return
	}

	ctx, span := telemetry.StartSpan(c.Request.Context(), "event.export",
		attribute.String("guild_id", guildID),
		attribute.String("event", name),
	)
	defer span.End()

	event, signups, err := h.eventService.Export(ctx, guildID, name, actor)
	if err != nil {
		writeError(c, err)
		return
	}

	workbook, err := export.RosterWorkbook(event, signups)
	if err != nil {
		writeError(c, err)
		return
	}
	defer workbook.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xlsx"`, name))
	if err := workbook.Write(c.Writer); err != nil {
		// Headers are already out; nothing sensible left to send
		c.Abort()
	}
}

// GrantLeaderRole handles POST /guilds/:guild_id/leader-roles
func (h *EventHandler) GrantLeaderRole(c *gin.Context) {
	guildID := c.Param("guild_id")

	var req dto.GrantLeaderRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request body"))
		return
	}
	if valid, msg := req.Validate(); !valid {
		c.JSON(http.StatusBadRequest, response.BadRequest(msg))
		return
	}

	if err := h.eventService.GrantLeaderRole(c.Request.Context(), guildID, req.RoleID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(gin.H{"role_id": req.RoleID}))
}

// RevokeLeaderRole handles DELETE /guilds/:guild_id/leader-roles/:role_id
func (h *EventHandler) RevokeLeaderRole(c *gin.Context) {
	guildID := c.Param("guild_id")
	roleID := c.Param("role_id")

	if err := h.eventService.RevokeLeaderRole(c.Request.Context(), guildID, roleID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(gin.H{"revoked": roleID}))
}

// ListLeaderRoles handles GET /guilds/:guild_id/leader-roles
func (h *EventHandler) ListLeaderRoles(c *gin.Context) {
	guildID := c.Param("guild_id")

	roles, err := h.eventService.ListLeaderRoles(c.Request.Context(), guildID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(&dto.LeaderRoleListResponse{RoleIDs: roles}))
}

func buildHistogram(signups []*domain.Signup) []dto.TownHallCount {
	hist := domain.BuildHistogram(signups)
	out := make([]dto.TownHallCount, 0, len(hist))
	for th, count := range hist {
		out = append(out, dto.TownHallCount{TownHall: th, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TownHall > out[j].TownHall })
	return out
}
