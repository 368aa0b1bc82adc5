package handlers

import (
	"net/http"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/SscSPs/general_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type fiscalHandler struct {
	fiscalService portssvc.FiscalCalendarSvc
}

func newFiscalHandler(fs portssvc.FiscalCalendarSvc) *fiscalHandler {
	return &fiscalHandler{fiscalService: fs}
}

func registerFiscalRoutes(rg *gin.RouterGroup, h *fiscalHandler) {
	rg.GET("/fiscal-periods/lookup", h.lookupPeriod)
}

// lookupPeriod godoc
// @Summary Resolve a date to its fiscal period
// @Tags fiscal
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} dto.PeriodLookupResponse
// @Failure 400 {object} map[string]string "Invalid date or overlapping periods"
// @Failure 404 {object} map[string]string "No period covers the date"
// @Router /companies/{companyID}/fiscal-periods/lookup [get]
func (h *fiscalHandler) lookupPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var params dto.PeriodLookupParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, "query parameters", err)
		return
	}
	date, err := domain.ParseDate(params.Date)
	if err != nil {
		bindError(c, logger, "date", err)
		return
	}

	period, err := h.fiscalService.PeriodFor(c.Request.Context(), companyID(c), date)
	if err != nil {
		writeError(c, logger, err, "Failed to resolve fiscal period")
		return
	}
	c.JSON(http.StatusOK, dto.PeriodLookupResponse{
		Date:       params.Date,
		IsPostable: !period.IsClosed,
		Period:     dto.ToFiscalPeriodResponse(period),
	})
}
