package service

import (
	"context"
	"errors"

	"github.com/doccheck/marketplace/internal/access"
	"github.com/doccheck/marketplace/internal/customerror"
	"github.com/doccheck/marketplace/internal/invoicepdf"
	"github.com/doccheck/marketplace/internal/middlewares/logger"
	"github.com/doccheck/marketplace/internal/models"
	"github.com/doccheck/marketplace/internal/repository"
	"github.com/doccheck/marketplace/internal/storage"
	"go.uber.org/zap"
)

const pdfContentType = "application/pdf"

type InvoiceService struct {
	jobs      repository.JobStorageRepositoryI
	quotes    repository.QuoteStorageRepositoryI
	orders    repository.OrderStorageRepositoryI
	checkouts repository.CheckoutStorageRepositoryI
	storage   storage.ObjectStorageI
	render    func(invoicepdf.Document) ([]byte, error)
}

func NewInvoiceService(
	jobs repository.JobStorageRepositoryI,
	quotes repository.QuoteStorageRepositoryI,
	orders repository.OrderStorageRepositoryI,
	checkouts repository.CheckoutStorageRepositoryI,
	objectStorage storage.ObjectStorageI,
) *InvoiceService {
	return &InvoiceService{
		jobs:      jobs,
		quotes:    quotes,
		orders:    orders,
		checkouts: checkouts,
		storage:   objectStorage,
		render:    invoicepdf.Render,
	}
}

func (service *InvoiceService) authorize(ctx context.Context, caller access.Caller, orderID string) (*models.Order, *models.Job, error) {
	order, err := service.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	job, err := service.jobs.GetByID(ctx, order.JobID)
	if err != nil {
		return nil, nil, err
	}
	if err = access.Authorize(caller, access.ViewInvoice, access.ResourceOf(job)); err != nil {
		return nil, nil, err
	}
	return order, job, nil
}

func (service *InvoiceService) GetInvoice(ctx context.Context, caller access.Caller, orderID string) (*models.Invoice, error) {
	order, _, err := service.authorize(ctx, caller, orderID)
	if err != nil {
		return nil, err
	}
	return service.checkouts.GetInvoiceByOrderID(ctx, order.ID)
}

// GetInvoicePDF returns the rendered invoice. The document is rendered once
// and kept in object storage.
func (service *InvoiceService) GetInvoicePDF(ctx context.Context, caller access.Caller, orderID string) ([]byte, *models.Invoice, error) {
	order, job, err := service.authorize(ctx, caller, orderID)
	if err != nil {
		return nil, nil, err
	}
	invoice, err := service.checkouts.GetInvoiceByOrderID(ctx, order.ID)
	if err != nil {
		return nil, nil, err
	}

	if invoice.PdfPath != nil {
		body, err := service.storage.Get(ctx, *invoice.PdfPath)
		if err == nil {
			return body, invoice, nil
		}
		var notFound *customerror.NotFoundError
		if !errors.As(err, &notFound) {
			return nil, nil, err
		}
		logger.Log.Warn("stored invoice pdf is missing, rendering again", zap.String("path", *invoice.PdfPath))
	}

	quote, err := service.quotes.GetByID(ctx, order.QuoteID)
	if err != nil {
		return nil, nil, err
	}

	body, err := service.render(invoicepdf.Document{
		Invoice:     *invoice,
		OrderNumber: order.OrderNumber,
		Job:         *job,
		Quote:       *quote,
	})
	if err != nil {
		return nil, nil, err
	}

	pdfPath := "invoices/" + invoice.InvoiceNumber + ".pdf"
	if err = service.storage.Put(ctx, pdfPath, pdfContentType, body); err != nil {
		logger.Log.Warn("invoice pdf was not stored", zap.String("invoice", invoice.InvoiceNumber), zap.Error(err))
		return body, invoice, nil
	}
	if err = service.checkouts.SetInvoicePdfPath(ctx, invoice.ID, pdfPath); err != nil {
		logger.Log.Warn("invoice pdf path was not saved", zap.String("invoice", invoice.InvoiceNumber), zap.Error(err))
		return body, invoice, nil
	}
	invoice.PdfPath = &pdfPath

	return body, invoice, nil
}
