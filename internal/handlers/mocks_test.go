package handlers

import (
	"context"
	"net/http"

	"github.com/doccheck/marketplace/internal/access"
	"github.com/doccheck/marketplace/internal/clients/oidc"
	"github.com/doccheck/marketplace/internal/models"
	"github.com/doccheck/marketplace/internal/pricing"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
)

var (
	customerUser = &models.User{ID: "cust-1", Email: "cust@example.com", Role: models.RoleCustomer}
	adminUser    = &models.User{ID: "admin-1", Email: "admin@example.com", Role: models.RoleAdmin}
)

func withUser(r *http.Request, user *models.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), UserContextKey, user))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Upsert(ctx context.Context, user *models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) AuthCodeURL(state, verifier string) string {
	args := m.Called(state, verifier)
	return args.String(0)
}

func (m *MockIdentityProvider) Exchange(ctx context.Context, code, verifier string) (*oidc.Identity, error) {
	args := m.Called(ctx, code, verifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oidc.Identity), args.Error(1)
}

type MockJobService struct {
	mock.Mock
}

func (m *MockJobService) CreateJob(ctx context.Context, caller access.Caller, draft *models.Job) (*models.Job, error) {
	args := m.Called(ctx, caller, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobService) UpdateJob(ctx context.Context, caller access.Caller, id string, patch models.JobPatch) (*models.Job, error) {
	args := m.Called(ctx, caller, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobService) GetJob(ctx context.Context, caller access.Caller, id string) (*models.Job, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobService) ListJobs(ctx context.Context, caller access.Caller) ([]models.Job, error) {
	args := m.Called(ctx, caller)
	return args.Get(0).([]models.Job), args.Error(1)
}

func (m *MockJobService) TransitionJob(ctx context.Context, caller access.Caller, id string, to models.JobStatus) (*models.Job, error) {
	args := m.Called(ctx, caller, id, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobService) AssignReviewer(ctx context.Context, caller access.Caller, id, reviewerID string) (*models.Job, error) {
	args := m.Called(ctx, caller, id, reviewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobService) UploadFile(ctx context.Context, caller access.Caller, jobID string, file *models.JobFile, body []byte) (*models.JobFile, error) {
	args := m.Called(ctx, caller, jobID, file, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JobFile), args.Error(1)
}

func (m *MockJobService) ListFiles(ctx context.Context, caller access.Caller, jobID string) ([]models.JobFile, error) {
	args := m.Called(ctx, caller, jobID)
	return args.Get(0).([]models.JobFile), args.Error(1)
}

type MockQuoteService struct {
	mock.Mock
}

func (m *MockQuoteService) Calculate(serviceType models.ServiceType, wordCount int, turnaround models.Turnaround, currency models.Currency) pricing.Breakdown {
	args := m.Called(serviceType, wordCount, turnaround, currency)
	return args.Get(0).(pricing.Breakdown)
}

func (m *MockQuoteService) PricingTable() pricing.Table {
	args := m.Called()
	return args.Get(0).(pricing.Table)
}

func (m *MockQuoteService) CreateQuote(ctx context.Context, caller access.Caller, jobID string, currency models.Currency) (*models.Quote, error) {
	args := m.Called(ctx, caller, jobID, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quote), args.Error(1)
}

func (m *MockQuoteService) GetLatestQuote(ctx context.Context, caller access.Caller, jobID string) (*models.Quote, error) {
	args := m.Called(ctx, caller, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quote), args.Error(1)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, caller access.Caller, jobID, quoteID string) (*models.Order, error) {
	args := m.Called(ctx, caller, jobID, quoteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context, caller access.Caller) ([]models.Order, error) {
	args := m.Called(ctx, caller)
	return args.Get(0).([]models.Order), args.Error(1)
}

type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) ProcessPayment(ctx context.Context, caller access.Caller, req models.PaymentRequest) (*models.Checkout, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Checkout), args.Error(1)
}

type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) GetInvoice(ctx context.Context, caller access.Caller, orderID string) (*models.Invoice, error) {
	args := m.Called(ctx, caller, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceService) GetInvoicePDF(ctx context.Context, caller access.Caller, orderID string) ([]byte, *models.Invoice, error) {
	args := m.Called(ctx, caller, orderID)
	if args.Get(1) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]byte), args.Get(1).(*models.Invoice), args.Error(2)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) List(ctx context.Context, caller access.Caller) ([]models.Notification, error) {
	args := m.Called(ctx, caller)
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, caller access.Caller, id string) error {
	args := m.Called(ctx, caller, id)
	return args.Error(0)
}

type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) Stats(ctx context.Context, caller access.Caller) (models.JobStats, error) {
	args := m.Called(ctx, caller)
	return args.Get(0).(models.JobStats), args.Error(1)
}

func (m *MockAdminService) UnassignedJobs(ctx context.Context, caller access.Caller) ([]models.Job, error) {
	args := m.Called(ctx, caller)
	return args.Get(0).([]models.Job), args.Error(1)
}

func (m *MockAdminService) Reviewers(ctx context.Context, caller access.Caller) ([]models.ReviewerWorkload, error) {
	args := m.Called(ctx, caller)
	return args.Get(0).([]models.ReviewerWorkload), args.Error(1)
}
