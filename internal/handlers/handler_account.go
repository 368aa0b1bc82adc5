package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/SscSPs/general_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to the chart of accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
	balanceService portssvc.BalanceSvc
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade, bs portssvc.BalanceSvc) *accountHandler {
	return &accountHandler{
		accountService: as,
		balanceService: bs,
	}
}

// registerAccountRoutes registers routes related to accounts. Static segments
// are registered before :accountID so they take precedence.
func registerAccountRoutes(rg *gin.RouterGroup, h *accountHandler, mh *maintenanceHandler) {
	accounts := rg.Group("/accounts")
	{
		accounts.POST("", middleware.RequireActor(), h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/hierarchy", h.getHierarchy)
		accounts.GET("/by-code/:code", h.getAccountByCode)
		accounts.POST("/merge", middleware.RequireActor(), mh.mergeAccounts)
		accounts.GET("/:accountID", h.getAccount)
		accounts.PATCH("/:accountID", middleware.RequireActor(), h.updateAccount)
		accounts.POST("/:accountID/deactivate", middleware.RequireActor(), h.deactivateAccount)
		accounts.GET("/:accountID/children", h.listChildren)
		accounts.GET("/:accountID/balance", h.getBalance)
	}
}

func companyID(c *gin.Context) string {
	return c.Param("companyID")
}

// actorID is only called behind RequireActor.
func actorID(c *gin.Context) string {
	id, _ := middleware.GetActorIDFromContext(c)
	return id
}

func parseAsOf(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := domain.ParseDate(s)
	if err != nil {
		return nil, fmt.Errorf("%w: asOf must be YYYY-MM-DD", apperrors.ErrValidation)
	}
	return &t, nil
}

// createAccount godoc
// @Summary Create a new account
// @Description Creates a group or leaf account, optionally under a parent group
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   X-Actor-ID header string true "Acting user"
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 404 {object} map[string]string "Parent account not found"
// @Failure 409 {object} map[string]string "Duplicate code"
// @Failure 500 {object} map[string]string "Failed to create account"
// @Router /companies/{companyID}/accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, "request format", err)
		return
	}

	logger = logger.With(slog.String("actor_id", actorID(c)), slog.String("company_id", companyID(c)))
	logger.Info("Received request to create account", slog.String("code", req.Code), slog.String("account_type", string(req.AccountType)))

	account, err := h.accountService.CreateAccount(c.Request.Context(), companyID(c), req, actorID(c))
	if err != nil {
		writeError(c, logger, err, "Failed to create account")
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve account"
// @Router /companies/{companyID}/accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c).With(slog.String("account_id", c.Param("accountID")))

	account, err := h.accountService.GetAccount(c.Request.Context(), companyID(c), c.Param("accountID"))
	if err != nil {
		writeError(c, logger, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// getAccountByCode godoc
// @Summary Get an account by code
// @Tags accounts
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   code path string true "Account code"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Router /companies/{companyID}/accounts/by-code/{code} [get]
func (h *accountHandler) getAccountByCode(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c).With(slog.String("code", c.Param("code")))

	account, err := h.accountService.GetAccountByCode(c.Request.Context(), companyID(c), c.Param("code"))
	if err != nil {
		writeError(c, logger, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List accounts
// @Description Lists the company's accounts ordered by code
// @Tags accounts
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   accountType query string false "Account type filter"
// @Param   includeInactive query bool false "Include inactive accounts"
// @Success 200 {array} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Router /companies/{companyID}/accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, "query parameters", err)
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), companyID(c), params.Filter())
	if err != nil {
		writeError(c, logger, err, "Failed to list accounts")
		return
	}
	logger.Debug("Accounts listed", slog.Int("count", len(accounts)))
	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// getHierarchy godoc
// @Summary Account hierarchy with balances
// @Description Returns the account forest with normal-signed balances rolled up from the leaves
// @Tags accounts
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   accountType query string false "Account type filter"
// @Param   includeInactive query bool false "Include inactive accounts"
// @Param   asOf query string false "Inclusive cut-off date (YYYY-MM-DD)"
// @Success 200 {array} dto.AccountNodeResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Router /companies/{companyID}/accounts/hierarchy [get]
func (h *accountHandler) getHierarchy(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, "query parameters", err)
		return
	}
	asOf, err := parseAsOf(params.AsOf)
	if err != nil {
		writeError(c, logger, err, "Invalid asOf")
		return
	}

	forest, err := h.balanceService.HierarchyWithBalances(c.Request.Context(), companyID(c), params.Filter(), asOf)
	if err != nil {
		writeError(c, logger, err, "Failed to build account hierarchy")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountNodeResponses(forest))
}

// updateAccount godoc
// @Summary Update an account
// @Description Renames, re-codes, reparents or toggles the group flag of an account
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   accountID path string true "Account ID"
// @Param   X-Actor-ID header string true "Acting user"
// @Param   account body dto.UpdateAccountRequest true "Fields to change"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Cycle, duplicate code or concurrent change"
// @Router /companies/{companyID}/accounts/{accountID} [patch]
func (h *accountHandler) updateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, "request format", err)
		return
	}

	accountID := c.Param("accountID")
	logger = logger.With(slog.String("account_id", accountID), slog.String("actor_id", actorID(c)))
	logger.Info("Received request to update account")

	account, err := h.accountService.UpdateAccount(c.Request.Context(), companyID(c), accountID, req, actorID(c))
	if err != nil {
		writeError(c, logger, err, "Failed to update account")
		return
	}

	logger.Info("Account updated successfully")
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// deactivateAccount godoc
// @Summary Deactivate an account
// @Description Retires an account. Accounts with active children or a nonzero balance are refused.
// @Tags accounts
// @Param   companyID path string true "Company ID"
// @Param   accountID path string true "Account ID"
// @Param   X-Actor-ID header string true "Acting user"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Account still in use"
// @Router /companies/{companyID}/accounts/{accountID}/deactivate [post]
func (h *accountHandler) deactivateAccount(c *gin.Context) {
	accountID := c.Param("accountID")
	logger := middleware.GetLoggerFromContext(c).With(slog.String("account_id", accountID), slog.String("actor_id", actorID(c)))
	logger.Info("Received request to deactivate account")

	if err := h.accountService.DeactivateAccount(c.Request.Context(), companyID(c), accountID, actorID(c)); err != nil {
		writeError(c, logger, err, "Failed to deactivate account")
		return
	}

	logger.Info("Account deactivated successfully")
	c.Status(http.StatusNoContent)
}

// listChildren godoc
// @Summary List direct children of an account
// @Tags accounts
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   accountID path string true "Account ID"
// @Success 200 {array} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Router /companies/{companyID}/accounts/{accountID}/children [get]
func (h *accountHandler) listChildren(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c).With(slog.String("account_id", c.Param("accountID")))

	children, err := h.accountService.Children(c.Request.Context(), companyID(c), c.Param("accountID"))
	if err != nil {
		writeError(c, logger, err, "Failed to list children")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAccountResponse(children))
}

// getBalance godoc
// @Summary Account balance
// @Description Normal-signed balance of a leaf, or the sum of a group's leaves
// @Tags accounts
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   accountID path string true "Account ID"
// @Param   asOf query string false "Inclusive cut-off date (YYYY-MM-DD)"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 400 {object} map[string]string "Invalid asOf"
// @Failure 404 {object} map[string]string "Account not found"
// @Router /companies/{companyID}/accounts/{accountID}/balance [get]
func (h *accountHandler) getBalance(c *gin.Context) {
	accountID := c.Param("accountID")
	logger := middleware.GetLoggerFromContext(c).With(slog.String("account_id", accountID))

	var params dto.BalanceQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, "query parameters", err)
		return
	}
	asOf, err := parseAsOf(params.AsOf)
	if err != nil {
		writeError(c, logger, err, "Invalid asOf")
		return
	}

	balance, err := h.balanceService.BalanceOf(c.Request.Context(), companyID(c), accountID, asOf)
	if err != nil {
		writeError(c, logger, err, "Failed to calculate balance")
		return
	}
	c.JSON(http.StatusOK, dto.AccountBalanceResponse{AccountID: accountID, AsOf: params.AsOf, Balance: balance})
}
