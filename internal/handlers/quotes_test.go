package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/doccheck/marketplace/internal/customerror"
	"github.com/doccheck/marketplace/internal/models"
	"github.com/doccheck/marketplace/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestQuotesHandler_Calculate(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantCurrency models.Currency
	}{
		{name: "explicit currency", body: `{"serviceType":"editing","wordCount":500,"turnaround":"24h","currency":"USD"}`, wantCurrency: models.CurrencyUSD},
		{name: "defaults to base currency", body: `{"serviceType":"editing","wordCount":500,"turnaround":"24h"}`, wantCurrency: models.CurrencyZAR},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			service := new(MockQuoteService)
			handler := NewQuotesHandler(service)
			service.On("Calculate", models.ServiceEditing, 500, models.Turnaround24h, tt.wantCurrency).
				Return(pricing.Breakdown{WordCount: 500, Total: decimal.RequireFromString("9.49"), Currency: tt.wantCurrency})
			rr := httptest.NewRecorder()

			// Act
			handler.Calculate(rr, httptest.NewRequest(http.MethodPost, "/api/quotes/calculate", strings.NewReader(tt.body)))

			// Assert
			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Contains(t, rr.Body.String(), `"total":"9.49"`)
			service.AssertExpectations(t)
		})
	}
}

func TestQuotesHandler_Create(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		service := new(MockQuoteService)
		handler := NewQuotesHandler(service)
		service.On("CreateQuote", mock.Anything, customerCaller, "job-1", models.CurrencyEUR).
			Return(&models.Quote{ID: "quote-1", JobID: "job-1", Currency: models.CurrencyEUR}, nil)
		req := withUser(httptest.NewRequest(http.MethodPost, "/api/quotes", strings.NewReader(`{"jobId":"job-1","currency":"EUR"}`)), customerUser)
		rr := httptest.NewRecorder()

		handler.Create(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Contains(t, rr.Body.String(), `"quote-1"`)
	})

	t.Run("invalid job", func(t *testing.T) {
		service := new(MockQuoteService)
		handler := NewQuotesHandler(service)
		service.On("CreateQuote", mock.Anything, customerCaller, "job-1", models.Currency("")).
			Return(nil, customerror.NewFieldError("wordCount", "must not be negative"))
		req := withUser(httptest.NewRequest(http.MethodPost, "/api/quotes", strings.NewReader(`{"jobId":"job-1"}`)), customerUser)
		rr := httptest.NewRecorder()

		handler.Create(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), `"wordCount"`)
	})
}

func TestQuotesHandler_GetLatest(t *testing.T) {
	// Arrange
	service := new(MockQuoteService)
	handler := NewQuotesHandler(service)
	service.On("GetLatestQuote", mock.Anything, customerCaller, "job-1").Return(nil, customerror.NewNotFoundError("quote of job", "job-1"))
	req := httptest.NewRequest(http.MethodGet, "/api/quotes/job-1", nil)
	req = withUser(withURLParam(req, "jobId", "job-1"), customerUser)
	rr := httptest.NewRecorder()

	// Act
	handler.GetLatest(rr, req)

	// Assert
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestQuotesHandler_Pricing(t *testing.T) {
	// Arrange
	service := new(MockQuoteService)
	handler := NewQuotesHandler(service)
	service.On("PricingTable").Return(pricing.DefaultTable())
	rr := httptest.NewRecorder()

	// Act
	handler.Pricing(rr, httptest.NewRequest(http.MethodGet, "/api/pricing", nil))

	// Assert
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"proofreading":"0.08"`)
	assert.Contains(t, rr.Body.String(), `"minPrice":"50"`)
}
