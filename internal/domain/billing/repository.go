package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicehub/backend/internal/domain/shared"
)

// ErrDuplicateInvoiceNumber is returned by InvoiceRepository.Create when the
// storage-level unique constraint on invoice_number rejects the insert. The
// creation orchestrator treats it as retriable for auto-generated numbers.
var ErrDuplicateInvoiceNumber = shared.NewDomainError(shared.CodeConflict, "Invoice number already exists")

// CustomerRepository is the persistence boundary for customers
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	// FindAll returns all customers ordered by creation, oldest first.
	FindAll(ctx context.Context) ([]Customer, error)
	Save(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// InvoiceRepository is the persistence boundary for invoices
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindAll(ctx context.Context) ([]Invoice, error)
	FindByCustomerID(ctx context.Context, customerID uuid.UUID) ([]Invoice, error)
	ExistsByNumber(ctx context.Context, number string) (bool, error)
	CountByCustomerID(ctx context.Context, customerID uuid.UUID) (int64, error)
	// Create inserts a new invoice and surfaces unique-constraint violations
	// on invoice_number as ErrDuplicateInvoiceNumber.
	Create(ctx context.Context, invoice *Invoice) error
	Save(ctx context.Context, invoice *Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
}
