package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/SscSPs/general_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{journalService: js}
}

func registerJournalRoutes(rg *gin.RouterGroup, h *journalHandler) {
	entries := rg.Group("/journal-entries")
	{
		entries.POST("", middleware.RequireActor(), h.postJournalEntry)
		entries.GET("", h.listJournalEntries)
		entries.GET("/:journalEntryID", h.getJournalEntry)
		entries.POST("/:journalEntryID/reverse", middleware.RequireActor(), h.reverseJournalEntry)
	}
}

// postJournalEntry godoc
// @Summary Post a journal entry
// @Description Validates and atomically posts a balanced entry with its lines
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   X-Actor-ID header string true "Acting user"
// @Param   entry body dto.PostJournalEntryRequest true "Entry and lines"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Unbalanced, malformed, closed period or non-postable account"
// @Failure 409 {object} map[string]string "Concurrent change, retry"
// @Failure 500 {object} map[string]string "Failed to post journal entry"
// @Router /companies/{companyID}/journal-entries [post]
func (h *journalHandler) postJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var req dto.PostJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, "request format", err)
		return
	}

	logger = logger.With(slog.String("company_id", companyID(c)), slog.String("actor_id", actorID(c)))
	logger.Info("Received request to post journal entry", slog.Int("lines", len(req.Lines)), slog.String("posting_date", req.PostingDate))

	entry, err := h.journalService.PostJournalEntry(c.Request.Context(), companyID(c), req, actorID(c))
	if err != nil {
		writeError(c, logger, err, "Failed to post journal entry")
		return
	}

	logger.Info("Journal entry posted", slog.String("journal_entry_id", entry.JournalEntryID), slog.Int64("entry_number", entry.EntryNumber))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// getJournalEntry godoc
// @Summary Get a journal entry
// @Tags journal-entries
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   journalEntryID path string true "Journal entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Router /companies/{companyID}/journal-entries/{journalEntryID} [get]
func (h *journalHandler) getJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c).With(slog.String("journal_entry_id", c.Param("journalEntryID")))

	entry, err := h.journalService.GetJournalEntry(c.Request.Context(), companyID(c), c.Param("journalEntryID"))
	if err != nil {
		writeError(c, logger, err, "Failed to retrieve journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// listJournalEntries godoc
// @Summary List journal entries
// @Description Entries newest first with token pagination
// @Tags journal-entries
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListJournalEntriesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Router /companies/{companyID}/journal-entries [get]
func (h *journalHandler) listJournalEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var params dto.ListJournalEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, "query parameters", err)
		return
	}

	page, err := h.journalService.ListJournalEntries(c.Request.Context(), companyID(c), params)
	if err != nil {
		writeError(c, logger, err, "Failed to list journal entries")
		return
	}
	c.JSON(http.StatusOK, dto.ToListJournalEntriesResponse(page))
}

// reverseJournalEntry godoc
// @Summary Reverse a journal entry
// @Description Posts a new entry with debits and credits swapped. An entry can be reversed once.
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   journalEntryID path string true "Journal entry ID"
// @Param   X-Actor-ID header string true "Acting user"
// @Param   reversal body dto.ReverseJournalEntryRequest true "Reversal details"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Closed period or invalid input"
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 409 {object} map[string]string "Already reversed"
// @Router /companies/{companyID}/journal-entries/{journalEntryID}/reverse [post]
func (h *journalHandler) reverseJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var req dto.ReverseJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, "request format", err)
		return
	}

	originalID := c.Param("journalEntryID")
	logger = logger.With(slog.String("journal_entry_id", originalID), slog.String("actor_id", actorID(c)))

	entry, err := h.journalService.ReverseJournalEntry(c.Request.Context(), companyID(c), originalID, req, actorID(c))
	if err != nil {
		writeError(c, logger, err, "Failed to reverse journal entry")
		return
	}

	logger.Info("Journal entry reversed", slog.String("reversal_id", entry.JournalEntryID))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}
