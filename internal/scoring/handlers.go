package scoring

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mbd888/jerisk/internal/ledger"
	"github.com/mbd888/jerisk/internal/money"
	"github.com/mbd888/jerisk/internal/pagination"
)

// Handler provides HTTP endpoints for scoring operations.
type Handler struct {
	engine *Engine
	runs   RunStore     // nil disables run lookup endpoints
	store  ledger.Store // nil disables scoring the stored population
}

// NewHandler creates a new scoring handler.
func NewHandler(engine *Engine, runs RunStore, store ledger.Store) *Handler {
	return &Handler{engine: engine, runs: runs, store: store}
}

// RegisterRoutes sets up scoring routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/runs", h.CreateRun)
	r.GET("/runs", h.ListRuns)
	r.GET("/runs/:id", h.GetRun)
	r.GET("/policy", h.GetPolicy)
}

// EntryPayload is one journal line as submitted over the API. Amount and the
// two timestamps arrive as strings so malformed values reject per-entry
// instead of failing the whole request at bind time.
type EntryPayload struct {
	EntryID          string `json:"entry_id"`
	Entity           string `json:"entity"`
	JENumber         string `json:"je_number"`
	LineNum          int    `json:"line_num"`
	Account          string `json:"account"`
	OffsetAccount    string `json:"offset_account"`
	Description      string `json:"description"`
	Amount           string `json:"amount"`
	Currency         string `json:"currency"`
	DebitCredit      string `json:"debit_credit"`
	PostingDate      string `json:"posting_date"`
	PostingTimestamp string `json:"posting_timestamp"`
	TimeZone         string `json:"time_zone"`
	CreatedBy        string `json:"created_by"`
	Source           string `json:"source"`
	ApprovalStatus   string `json:"approval_status"`
}

// RunRequest is the POST /v1/runs body. With no entries and a configured
// entry store, the stored population is scored instead.
type RunRequest struct {
	Entries   []EntryPayload          `json:"entries"`
	Calendars []ledger.EntityCalendar `json:"calendars"`
}

// CreateRun handles POST /v1/runs
func (h *Handler) CreateRun(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
		return
	}

	ctx := c.Request.Context()

	entries, intakeErrors := convertPayloads(req.Entries)
	cals := req.Calendars

	if len(req.Entries) == 0 {
		if h.store == nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_request",
				"message": "entries are required",
			})
			return
		}
		var err error
		entries, err = h.store.ListEntries(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "internal_error",
				"message": err.Error(),
			})
			return
		}
		if len(cals) == 0 {
			cals, err = h.store.ListCalendars(ctx)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{
					"error":   "internal_error",
					"message": err.Error(),
				})
				return
			}
		}
	}

	result, err := h.engine.Run(ctx, entries, cals, intakeErrors)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, result)
}

// ListRuns handles GET /v1/runs
func (h *Handler) ListRuns(c *gin.Context) {
	if h.runs == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "Run persistence is not configured",
		})
		return
	}

	limit := 50
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	var opts []ListOption
	if cursor := c.Query("cursor"); cursor != "" {
		opts = append(opts, WithCursor(cursor))
	}

	// Fetch one extra row to decide whether another page exists.
	runs, err := h.runs.ListRuns(c.Request.Context(), limit+1, opts...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}

	runs, next, hasMore := pagination.ComputePage(runs, limit, func(r *Run) (time.Time, string) {
		return r.StartedAt, r.ID
	})

	c.JSON(http.StatusOK, gin.H{
		"runs":        runs,
		"count":       len(runs),
		"next_cursor": next,
		"has_more":    hasMore,
	})
}

// GetRun handles GET /v1/runs/:id
func (h *Handler) GetRun(c *gin.Context) {
	if h.runs == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "Run persistence is not configured",
		})
		return
	}

	run, err := h.runs.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		if err == ErrRunNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "No run found with this ID",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"run": run})
}

// GetPolicy handles GET /v1/policy
func (h *Handler) GetPolicy(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"policy": h.engine.Policy()})
}

// convertPayloads parses API payloads into typed entries, rejecting malformed
// rows per-entry so one bad line never poisons the run.
func convertPayloads(payloads []EntryPayload) ([]ledger.Entry, []ledger.EntryError) {
	entries := make([]ledger.Entry, 0, len(payloads))
	var errs []ledger.EntryError
	for i, p := range payloads {
		id := p.EntryID
		if id == "" {
			// Same rule as CSV intake: an entry without an ID cannot be
			// reported against, so it is excluded, not defaulted.
			errs = append(errs, ledger.EntryError{
				EntryID: fmt.Sprintf("entry %d", i+1),
				Reason:  "empty entry_id",
			})
			continue
		}
		amount, err := money.Parse(p.Amount)
		if err != nil {
			errs = append(errs, ledger.EntryError{EntryID: id, Reason: fmt.Sprintf("amount %q: %v", p.Amount, err)})
			continue
		}
		date, err := ledger.ParseDate(p.PostingDate)
		if err != nil {
			errs = append(errs, ledger.EntryError{EntryID: id, Reason: fmt.Sprintf("posting_date %q: %v", p.PostingDate, err)})
			continue
		}
		ts, err := ledger.ParseTimestamp(p.PostingTimestamp)
		if err != nil {
			errs = append(errs, ledger.EntryError{EntryID: id, Reason: fmt.Sprintf("posting_timestamp %q: %v", p.PostingTimestamp, err)})
			continue
		}
		entries = append(entries, ledger.Entry{
			EntryID:        p.EntryID,
			Entity:         p.Entity,
			JENumber:       p.JENumber,
			LineNum:        p.LineNum,
			Account:        p.Account,
			OffsetAccount:  p.OffsetAccount,
			Description:    p.Description,
			Amount:         amount,
			Currency:       p.Currency,
			DebitCredit:    p.DebitCredit,
			PostingDate:    date,
			PostingTS:      ts,
			TimeZone:       p.TimeZone,
			CreatedBy:      p.CreatedBy,
			Source:         p.Source,
			ApprovalStatus: p.ApprovalStatus,
		})
	}
	return entries, errs
}
