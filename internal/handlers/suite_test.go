package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/handlers"
	"github.com/SscSPs/general_ledger/internal/middleware"
	"github.com/SscSPs/general_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
)

const (
	companyID = "c1"
	actorID   = "actor-1"
	basePath  = "/api/v1/companies/" + companyID
)

type HandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockAccounts    *MockAccountService
	mockBalances    *MockBalanceService
	mockJournals    *MockJournalService
	mockMaintenance *MockMaintenanceService
	mockFiscal      *MockFiscalService
}

func (s *HandlerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	s.Require().NoError(handlers.RegisterValidators())
}

func (s *HandlerTestSuite) SetupTest() {
	s.mockAccounts = new(MockAccountService)
	s.mockBalances = new(MockBalanceService)
	s.mockJournals = new(MockJournalService)
	s.mockMaintenance = new(MockMaintenanceService)
	s.mockFiscal = new(MockFiscalService)

	s.router = gin.New()
	s.router.Use(middleware.StructuredLoggingMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))))
	handlers.RegisterRoutes(s.router, &config.Config{IsProduction: true}, &portssvc.ServiceContainer{
		Account:     s.mockAccounts,
		Balance:     s.mockBalances,
		Journal:     s.mockJournals,
		Maintenance: s.mockMaintenance,
		Fiscal:      s.mockFiscal,
	})
}

func (s *HandlerTestSuite) TearDownTest() {
	s.mockAccounts.AssertExpectations(s.T())
	s.mockBalances.AssertExpectations(s.T())
	s.mockJournals.AssertExpectations(s.T())
	s.mockMaintenance.AssertExpectations(s.T())
	s.mockFiscal.AssertExpectations(s.T())
}

// do serves a request. body is JSON-encoded unless nil; actor sets X-Actor-ID when not empty.
func (s *HandlerTestSuite) do(method, path string, body any, actor string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, basePath+path, reader)
	req.Header.Set("Content-Type", "application/json")
	if actor != "" {
		req.Header.Set(middleware.ActorHeader, actor)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerTestSuite) decode(w *httptest.ResponseRecorder, out any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func (s *HandlerTestSuite) errorBody(w *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	s.decode(w, &body)
	return body
}

func (s *HandlerTestSuite) TestHealth() {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("OK", w.Body.String())
}
