package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/invoicehub/backend/internal/domain/billing"
	"github.com/invoicehub/backend/internal/domain/shared"
)

// CustomerService handles customer CRUD use cases
type CustomerService struct {
	customers billing.CustomerRepository
	invoices  billing.InvoiceRepository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customers billing.CustomerRepository, invoices billing.InvoiceRepository) *CustomerService {
	return &CustomerService{
		customers: customers,
		invoices:  invoices,
	}
}

// CreateCustomer validates and persists a new customer
func (s *CustomerService) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	customer, err := billing.NewCustomer(req.Name, req.Email, req.Tel, req.PostalCode, req.Address, req.PersonInCharge)
	if err != nil {
		return nil, err
	}

	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, err
	}

	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// GetCustomer returns a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// ListCustomers returns all customers, oldest first
func (s *CustomerService) ListCustomers(ctx context.Context) ([]CustomerResponse, error) {
	customers, err := s.customers.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}
	return responses, nil
}

// UpdateCustomer applies a partial update and re-validates the record
func (s *CustomerService) UpdateCustomer(ctx context.Context, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyIfSet(&customer.Name, req.Name)
	applyIfSet(&customer.Email, req.Email)
	applyIfSet(&customer.Tel, req.Tel)
	applyIfSet(&customer.PostalCode, req.PostalCode)
	applyIfSet(&customer.Address, req.Address)
	applyIfSet(&customer.PersonInCharge, req.PersonInCharge)
	customer.UpdatedAt = time.Now()

	if err := customer.Validate().AsError(); err != nil {
		return nil, err
	}

	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, err
	}

	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// DeleteCustomer removes a customer. Deletion is restricted while invoices
// still reference the customer, so their snapshots keep pointing at a live
// record.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if _, err := s.customers.FindByID(ctx, id); err != nil {
		return err
	}

	count, err := s.invoices.CountByCustomerID(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError(shared.CodeConflict, "Customer has invoices and cannot be deleted")
	}

	if err := s.customers.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrNotFound
		}
		return err
	}
	return nil
}
