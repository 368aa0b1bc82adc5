package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/SscSPs/general_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// maintenanceHandler serves merges and chart templates.
type maintenanceHandler struct {
	maintenanceService portssvc.MaintenanceSvc
}

func newMaintenanceHandler(ms portssvc.MaintenanceSvc) *maintenanceHandler {
	return &maintenanceHandler{maintenanceService: ms}
}

func registerTemplateRoutes(rg *gin.RouterGroup, h *maintenanceHandler) {
	tmpl := rg.Group("/templates")
	{
		tmpl.GET("", h.listTemplates)
		tmpl.POST("/:templateName/apply", middleware.RequireActor(), h.applyTemplate)
	}
}

// mergeAccounts godoc
// @Summary Merge two accounts
// @Description Moves the source's ledger lines and children to the target, then retires the source
// @Tags accounts
// @Accept  json
// @Param   companyID path string true "Company ID"
// @Param   X-Actor-ID header string true "Acting user"
// @Param   merge body dto.MergeAccountsRequest true "Source and target"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Accounts cannot be merged"
// @Router /companies/{companyID}/accounts/merge [post]
func (h *maintenanceHandler) mergeAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var req dto.MergeAccountsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, "request format", err)
		return
	}

	logger = logger.With(
		slog.String("source_account_id", req.SourceAccountID),
		slog.String("target_account_id", req.TargetAccountID),
		slog.String("actor_id", actorID(c)),
	)
	logger.Info("Received request to merge accounts")

	if err := h.maintenanceService.MergeAccounts(c.Request.Context(), companyID(c), req, actorID(c)); err != nil {
		writeError(c, logger, err, "Failed to merge accounts")
		return
	}
	c.Status(http.StatusNoContent)
}

// listTemplates godoc
// @Summary List chart templates
// @Tags templates
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Success 200 {array} dto.TemplateResponse
// @Router /companies/{companyID}/templates [get]
func (h *maintenanceHandler) listTemplates(c *gin.Context) {
	list := h.maintenanceService.ListTemplates()
	res := make([]dto.TemplateResponse, len(list))
	for i, t := range list {
		res[i] = dto.TemplateResponse{Name: t.Name, Description: t.Description, Currency: t.Currency}
	}
	c.JSON(http.StatusOK, res)
}

// applyTemplate godoc
// @Summary Apply a chart template
// @Description Creates the template accounts the company lacks. Existing codes are reused.
// @Tags templates
// @Accept  json
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   templateName path string true "Template name"
// @Param   X-Actor-ID header string true "Acting user"
// @Param   overrides body dto.ApplyTemplateRequest false "Overrides"
// @Success 200 {object} dto.ApplyTemplateResponse
// @Failure 404 {object} map[string]string "Unknown template"
// @Failure 409 {object} map[string]string "Template conflicts with the existing chart"
// @Router /companies/{companyID}/templates/{templateName}/apply [post]
func (h *maintenanceHandler) applyTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var req dto.ApplyTemplateRequest
	// An empty body means no overrides
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, logger, "request format", err)
			return
		}
	}

	name := c.Param("templateName")
	logger = logger.With(slog.String("template", name), slog.String("actor_id", actorID(c)))

	created, err := h.maintenanceService.ApplyAccountTemplate(c.Request.Context(), companyID(c), name, req, actorID(c))
	if err != nil {
		writeError(c, logger, err, "Failed to apply template")
		return
	}

	logger.Info("Template applied", slog.Int("created", len(created)))
	c.JSON(http.StatusOK, dto.ApplyTemplateResponse{Created: dto.ToListAccountResponse(created)})
}
