package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/invoicehub/backend/internal/domain/billing"
)

// dateLayout is the wire format for invoice dates
const dateLayout = "2006-01-02"

// =============================================================================
// Customer DTOs
// =============================================================================

// CreateCustomerRequest represents a request to create a new customer.
// Business constraints are checked in the domain layer so that failures come
// back as a per-field message map rather than a binding error.
type CreateCustomerRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Tel            string `json:"tel"`
	PostalCode     string `json:"postal_code"`
	Address        string `json:"address"`
	PersonInCharge string `json:"person_in_charge"`
}

// UpdateCustomerRequest represents a partial customer update
type UpdateCustomerRequest struct {
	Name           *string `json:"name"`
	Email          *string `json:"email"`
	Tel            *string `json:"tel"`
	PostalCode     *string `json:"postal_code"`
	Address        *string `json:"address"`
	PersonInCharge *string `json:"person_in_charge"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Tel            string    `json:"tel"`
	PostalCode     string    `json:"postal_code"`
	Address        string    `json:"address"`
	PersonInCharge string    `json:"person_in_charge"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ToCustomerResponse converts a domain customer to its response form
func ToCustomerResponse(c *billing.Customer) CustomerResponse {
	return CustomerResponse{
		ID:             c.ID,
		Name:           c.Name,
		Email:          c.Email,
		Tel:            c.Tel,
		PostalCode:     c.PostalCode,
		Address:        c.Address,
		PersonInCharge: c.PersonInCharge,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// =============================================================================
// Invoice DTOs
// =============================================================================

// CreateInvoiceRequest represents a request to create a new invoice. The
// billing fields are optional: any left blank are snapshotted from the
// customer. invoice_number is normally left blank and auto-generated; an
// explicit value passes through untouched. status defaults to draft.
type CreateInvoiceRequest struct {
	CustomerID            uuid.UUID `json:"customer_id"`
	InvoiceNumber         string    `json:"invoice_number"`
	Title                 string    `json:"title"`
	InvoiceDate           string    `json:"invoice_date"`
	DueDate               string    `json:"due_date"`
	Status                string    `json:"status"`
	BillingName           string    `json:"billing_name"`
	BillingPostalCode     string    `json:"billing_postal_code"`
	BillingAddress        string    `json:"billing_address"`
	BillingTel            string    `json:"billing_tel"`
	BillingPersonInCharge string    `json:"billing_person_in_charge"`
}

// UpdateInvoiceRequest represents a partial invoice update. customer_id and
// invoice_number are absent: the customer reference and the assigned number
// are fixed at creation.
type UpdateInvoiceRequest struct {
	Title                 *string `json:"title"`
	InvoiceDate           *string `json:"invoice_date"`
	DueDate               *string `json:"due_date"`
	Status                *string `json:"status"`
	BillingName           *string `json:"billing_name"`
	BillingPostalCode     *string `json:"billing_postal_code"`
	BillingAddress        *string `json:"billing_address"`
	BillingTel            *string `json:"billing_tel"`
	BillingPersonInCharge *string `json:"billing_person_in_charge"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID                    uuid.UUID `json:"id"`
	CustomerID            uuid.UUID `json:"customer_id"`
	InvoiceNumber         string    `json:"invoice_number"`
	Title                 string    `json:"title"`
	InvoiceDate           string    `json:"invoice_date"`
	DueDate               string    `json:"due_date"`
	Status                string    `json:"status"`
	BillingName           string    `json:"billing_name"`
	BillingPostalCode     string    `json:"billing_postal_code"`
	BillingAddress        string    `json:"billing_address"`
	BillingTel            string    `json:"billing_tel"`
	BillingPersonInCharge string    `json:"billing_person_in_charge"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// ToInvoiceResponse converts a domain invoice to its response form
func ToInvoiceResponse(i *billing.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:                    i.ID,
		CustomerID:            i.CustomerID,
		InvoiceNumber:         i.InvoiceNumber,
		Title:                 i.Title,
		InvoiceDate:           formatDate(i.InvoiceDate),
		DueDate:               formatDate(i.DueDate),
		Status:                string(i.Status),
		BillingName:           i.BillingName,
		BillingPostalCode:     i.BillingPostalCode,
		BillingAddress:        i.BillingAddress,
		BillingTel:            i.BillingTel,
		BillingPersonInCharge: i.BillingPersonInCharge,
		CreatedAt:             i.CreatedAt,
		UpdatedAt:             i.UpdatedAt,
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// parseDate converts a wire date into a time.Time. An unparseable value is
// left as the zero time, so required-field validation reports it the same
// way as an absent one.
func parseDate(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

// applyIfSet overwrites dst when the update carries a value for it
func applyIfSet(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
