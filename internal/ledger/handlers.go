package ledger

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mbd888/jerisk/internal/validation"
)

// Handler provides HTTP endpoints for entry and calendar intake.
type Handler struct {
	store Store
}

// NewHandler creates a new ledger handler.
func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes sets up intake routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/entries", h.InsertEntries)
	r.GET("/entries/count", h.CountEntries)
	r.PUT("/calendars", h.UpsertCalendar)
	r.GET("/calendars", h.ListCalendars)
}

// InsertEntries handles POST /v1/entries
func (h *Handler) InsertEntries(c *gin.Context) {
	var entries []Entry
	if err := c.ShouldBindJSON(&entries); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
		return
	}
	if len(entries) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "at least one entry is required",
		})
		return
	}

	for i := range entries {
		e := &entries[i]
		if verrs := validation.Validate(
			validation.Required("entry_id", e.EntryID),
			validation.Required("account", e.Account),
			validation.MaxLength("description", e.Description, validation.MaxStringLength),
		); len(verrs) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_request",
				"message": fmt.Sprintf("entry %d: %s", i+1, verrs.Error()),
			})
			return
		}
		e.Description = validation.SanitizeString(e.Description, validation.MaxStringLength)
	}

	if err := h.store.InsertEntries(c.Request.Context(), entries); err != nil {
		status := http.StatusInternalServerError
		code := "internal_error"
		if errors.Is(err, ErrInvalidEntry) {
			status = http.StatusConflict
			code = "duplicate_entry"
		}
		c.JSON(status, gin.H{"error": code, "message": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"inserted": len(entries)})
}

// CountEntries handles GET /v1/entries/count
func (h *Handler) CountEntries(c *gin.Context) {
	n, err := h.store.CountEntries(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// UpsertCalendar handles PUT /v1/calendars
func (h *Handler) UpsertCalendar(c *gin.Context) {
	var cal EntityCalendar
	if err := c.ShouldBindJSON(&cal); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
		return
	}
	if verrs := validation.Validate(
		validation.Required("entity", cal.Entity),
		validation.Required("tz", cal.TZ),
	); len(verrs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": verrs.Error(),
		})
		return
	}

	if err := h.store.UpsertCalendar(c.Request.Context(), cal); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"calendar": cal})
}

// ListCalendars handles GET /v1/calendars
func (h *Handler) ListCalendars(c *gin.Context) {
	cals, err := h.store.ListCalendars(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"calendars": cals,
		"count":     len(cals),
	})
}
