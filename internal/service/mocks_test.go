package service

import (
	"context"
	"time"

	"github.com/doccheck/marketplace/internal/access"
	"github.com/doccheck/marketplace/internal/models"
	"github.com/doccheck/marketplace/internal/repository"
	"github.com/stretchr/testify/mock"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

var (
	customer      = access.Caller{ID: "cust-1", Role: models.RoleCustomer}
	otherCustomer = access.Caller{ID: "cust-2", Role: models.RoleCustomer}
	reviewer      = access.Caller{ID: "rev-1", Role: models.RoleReviewer}
	admin         = access.Caller{ID: "admin-1", Role: models.RoleAdmin}
)

type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) Create(ctx context.Context, job *models.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepository) GetByID(ctx context.Context, id string) (*models.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobRepository) List(ctx context.Context, filter repository.JobFilter) ([]models.Job, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.Job), args.Error(1)
}

func (m *MockJobRepository) UpdateStatus(ctx context.Context, id string, from, to models.JobStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

func (m *MockJobRepository) Assign(ctx context.Context, id, reviewerID string, from models.JobStatus) error {
	args := m.Called(ctx, id, reviewerID, from)
	return args.Error(0)
}

func (m *MockJobRepository) Update(ctx context.Context, job *models.Job, from models.JobStatus) error {
	args := m.Called(ctx, job, from)
	return args.Error(0)
}

func (m *MockJobRepository) SetWordCount(ctx context.Context, id string, wordCount int) error {
	args := m.Called(ctx, id, wordCount)
	return args.Error(0)
}

func (m *MockJobRepository) Stats(ctx context.Context) (models.JobStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.JobStats), args.Error(1)
}

type MockJobFileRepository struct {
	mock.Mock
}

func (m *MockJobFileRepository) Create(ctx context.Context, file *models.JobFile) error {
	args := m.Called(ctx, file)
	return args.Error(0)
}

func (m *MockJobFileRepository) ListByJobID(ctx context.Context, jobID string) ([]models.JobFile, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).([]models.JobFile), args.Error(1)
}

type MockQuoteRepository struct {
	mock.Mock
}

func (m *MockQuoteRepository) Create(ctx context.Context, quote *models.Quote, jobFrom models.JobStatus) error {
	args := m.Called(ctx, quote, jobFrom)
	return args.Error(0)
}

func (m *MockQuoteRepository) GetByID(ctx context.Context, id string) (*models.Quote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quote), args.Error(1)
}

func (m *MockQuoteRepository) GetLatestByJobID(ctx context.Context, jobID string) (*models.Quote, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quote), args.Error(1)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *models.Order, jobFrom models.JobStatus) error {
	args := m.Called(ctx, order, jobFrom)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetListByCustomerID(ctx context.Context, customerID string) ([]models.Order, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) SetExpiredForProcessing(ctx context.Context, now time.Time, ch chan<- models.Order) error {
	args := m.Called(ctx, now, ch)
	return args.Error(0)
}

func (m *MockOrderRepository) Expire(ctx context.Context, order models.Order) (bool, error) {
	args := m.Called(ctx, order)
	return args.Bool(0), args.Error(1)
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

type MockCheckoutRepository struct {
	mock.Mock
}

func (m *MockCheckoutRepository) Complete(ctx context.Context, jobID string, checkout *models.Checkout) error {
	args := m.Called(ctx, jobID, checkout)
	return args.Error(0)
}

func (m *MockCheckoutRepository) GetByOrderID(ctx context.Context, orderID string) (*models.Checkout, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Checkout), args.Error(1)
}

func (m *MockCheckoutRepository) GetInvoiceByOrderID(ctx context.Context, orderID string) (*models.Invoice, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockCheckoutRepository) SetInvoicePdfPath(ctx context.Context, invoiceID, path string) error {
	args := m.Called(ctx, invoiceID, path)
	return args.Error(0)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetListByUserID(ctx context.Context, userID string) ([]models.Notification, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

type MockReviewerRepository struct {
	mock.Mock
}

func (m *MockReviewerRepository) GetListWithWorkload(ctx context.Context) ([]models.ReviewerWorkload, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.ReviewerWorkload), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, userID string, kind models.NotificationType, title, message string) {
	m.Called(ctx, userID, kind, title, message)
}

type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Put(ctx context.Context, key, contentType string, body []byte) error {
	args := m.Called(ctx, key, contentType, body)
	return args.Error(0)
}

func (m *MockObjectStorage) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func strPtr(s string) *string { return &s }
