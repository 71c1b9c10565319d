package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/invoicehub/backend/internal/domain/billing"
	"github.com/invoicehub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InvoiceService orchestrates invoice creation and the plain CRUD paths.
// Creation runs an explicit pipeline: resolve the customer, copy the billing
// snapshot, assign the invoice number, validate, then persist with a bounded
// retry against storage-level number races.
type InvoiceService struct {
	invoices  billing.InvoiceRepository
	customers billing.CustomerRepository
	numbers   *billing.NumberGenerator
	logger    *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoices billing.InvoiceRepository,
	customers billing.CustomerRepository,
	numbers *billing.NumberGenerator,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoices:  invoices,
		customers: customers,
		numbers:   numbers,
		logger:    logger,
	}
}

// CreateInvoice creates an invoice for the referenced customer. Unset billing
// fields are copied from the customer, an unset invoice number is generated,
// and validation runs on the result. Nothing is persisted on failure.
func (s *InvoiceService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	customer, err := s.customers.FindByID(ctx, req.CustomerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.CodeNotFound, "Customer not found")
		}
		return nil, err
	}

	invoice := billing.NewInvoice(customer.ID)
	invoice.InvoiceNumber = req.InvoiceNumber
	invoice.Title = req.Title
	invoice.InvoiceDate = parseDate(req.InvoiceDate)
	invoice.DueDate = parseDate(req.DueDate)
	if req.Status != "" {
		invoice.Status = billing.InvoiceStatus(req.Status)
	}
	invoice.BillingName = req.BillingName
	invoice.BillingPostalCode = req.BillingPostalCode
	invoice.BillingAddress = req.BillingAddress
	invoice.BillingTel = req.BillingTel
	invoice.BillingPersonInCharge = req.BillingPersonInCharge

	invoice.AssignBillingSnapshot(customer)

	verr := shared.NewValidationError()
	generated := invoice.InvoiceNumber == ""
	if generated {
		if err := s.numbers.Assign(ctx, invoice); err != nil {
			return nil, err
		}
	} else {
		exists, err := s.invoices.ExistsByNumber(ctx, invoice.InvoiceNumber)
		if err != nil {
			return nil, err
		}
		if exists {
			verr.Add("invoice_number", "has already been taken")
		}
	}

	verr.Merge(invoice.Validate())
	if err := verr.AsError(); err != nil {
		return nil, err
	}

	if err := s.persistWithNumberRetry(ctx, invoice, generated); err != nil {
		return nil, err
	}

	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

// persistWithNumberRetry inserts the invoice, regenerating the number when a
// concurrent creation won the unique constraint first. The advisory existence
// check in the generator cannot see uncommitted inserts, so the constraint is
// the final arbiter. Retries share the generator's bounded budget; exhaustion
// escalates to the fatal generation error.
func (s *InvoiceService) persistWithNumberRetry(ctx context.Context, invoice *billing.Invoice, generated bool) error {
	for attempt := 1; ; attempt++ {
		err := s.invoices.Create(ctx, invoice)
		if err == nil {
			return nil
		}
		if !errors.Is(err, billing.ErrDuplicateInvoiceNumber) {
			return err
		}
		if !generated {
			// A caller-supplied duplicate is bad input, not a race to retry.
			verr := shared.NewValidationError()
			verr.Add("invoice_number", "has already been taken")
			return verr
		}
		if attempt >= s.numbers.MaxAttempts() {
			s.logger.Error("Invoice number retry budget exhausted",
				zap.Int("attempts", attempt),
			)
			return billing.ErrNumberExhausted
		}
		s.logger.Warn("Invoice number collided at commit, regenerating",
			zap.String("invoice_number", invoice.InvoiceNumber),
			zap.Int("attempt", attempt),
		)
		if err := s.numbers.Reassign(ctx, invoice); err != nil {
			return err
		}
	}
}

// GetInvoice returns an invoice by ID
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

// ListInvoices returns all invoices, oldest first
func (s *InvoiceService) ListInvoices(ctx context.Context) ([]InvoiceResponse, error) {
	invoices, err := s.invoices.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i])
	}
	return responses, nil
}

// ListInvoicesByCustomer returns a customer's invoices, oldest first
func (s *InvoiceService) ListInvoicesByCustomer(ctx context.Context, customerID uuid.UUID) ([]InvoiceResponse, error) {
	if _, err := s.customers.FindByID(ctx, customerID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.CodeNotFound, "Customer not found")
		}
		return nil, err
	}

	invoices, err := s.invoices.FindByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i])
	}
	return responses, nil
}

// UpdateInvoice applies direct field writes and re-runs validation. The
// billing snapshot is not re-copied and the number is never regenerated on
// update.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, id uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyIfSet(&invoice.Title, req.Title)
	if req.InvoiceDate != nil {
		invoice.InvoiceDate = parseDate(*req.InvoiceDate)
	}
	if req.DueDate != nil {
		invoice.DueDate = parseDate(*req.DueDate)
	}
	if req.Status != nil {
		invoice.Status = billing.InvoiceStatus(*req.Status)
	}
	applyIfSet(&invoice.BillingName, req.BillingName)
	applyIfSet(&invoice.BillingPostalCode, req.BillingPostalCode)
	applyIfSet(&invoice.BillingAddress, req.BillingAddress)
	applyIfSet(&invoice.BillingTel, req.BillingTel)
	applyIfSet(&invoice.BillingPersonInCharge, req.BillingPersonInCharge)
	invoice.UpdatedAt = time.Now()

	if err := invoice.Validate().AsError(); err != nil {
		return nil, err
	}

	if err := s.invoices.Save(ctx, invoice); err != nil {
		return nil, err
	}

	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

// DeleteInvoice removes an invoice
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	if _, err := s.invoices.FindByID(ctx, id); err != nil {
		return err
	}
	return s.invoices.Delete(ctx, id)
}
