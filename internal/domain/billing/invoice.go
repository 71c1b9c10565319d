package billing

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/invoicehub/backend/internal/domain/shared"
)

// InvoiceStatus represents the lifecycle state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft    InvoiceStatus = "draft"
	InvoiceStatusIssued   InvoiceStatus = "issued"
	InvoiceStatusSent     InvoiceStatus = "sent"
	InvoiceStatusPaid     InvoiceStatus = "paid"
	InvoiceStatusCanceled InvoiceStatus = "canceled"
)

// InvoiceStatuses is the closed set of valid lifecycle states
var InvoiceStatuses = []InvoiceStatus{
	InvoiceStatusDraft,
	InvoiceStatusIssued,
	InvoiceStatusSent,
	InvoiceStatusPaid,
	InvoiceStatusCanceled,
}

// IsValid reports whether the status is a member of the enumerated set
func (s InvoiceStatus) IsValid() bool {
	for _, valid := range InvoiceStatuses {
		if s == valid {
			return true
		}
	}
	return false
}

// Invoice references exactly one customer and carries a frozen copy of the
// customer's billing fields. The billing_* fields and the invoice number are
// fixed at creation: later customer updates never propagate onto an invoice.
type Invoice struct {
	shared.BaseEntity
	CustomerID    uuid.UUID
	InvoiceNumber string
	Title         string
	InvoiceDate   time.Time
	DueDate       time.Time
	Status        InvoiceStatus

	BillingName           string
	BillingPostalCode     string
	BillingAddress        string
	BillingTel            string
	BillingPersonInCharge string
}

// NewInvoice creates a draft invoice for the given customer. Field values
// are set by the caller before the creation pipeline runs.
func NewInvoice(customerID uuid.UUID) *Invoice {
	return &Invoice{
		BaseEntity: shared.NewBaseEntity(),
		CustomerID: customerID,
		Status:     InvoiceStatusDraft,
	}
}

// AssignBillingSnapshot copies the customer's contact fields onto the
// invoice's billing fields, field by field, only where the invoice field is
// still empty. Explicit values supplied by the caller always win. A nil
// customer leaves the invoice untouched; required-field validation will then
// reject the blank billing fields downstream.
func (i *Invoice) AssignBillingSnapshot(customer *Customer) {
	if customer == nil {
		return
	}
	if i.BillingName == "" {
		i.BillingName = customer.Name
	}
	if i.BillingPostalCode == "" {
		i.BillingPostalCode = customer.PostalCode
	}
	if i.BillingAddress == "" {
		i.BillingAddress = customer.Address
	}
	if i.BillingTel == "" {
		i.BillingTel = customer.Tel
	}
	if i.BillingPersonInCharge == "" {
		i.BillingPersonInCharge = customer.PersonInCharge
	}
}

// Validate checks required fields, lengths and the status enumeration,
// collecting per-field messages. It runs after the snapshot assigner and the
// number generator so their outputs participate in the pass.
func (i *Invoice) Validate() *shared.ValidationError {
	verr := shared.NewValidationError()

	if i.CustomerID == uuid.Nil {
		verr.Add("customer_id", "must exist")
	}
	if i.InvoiceNumber == "" {
		verr.Add("invoice_number", "can't be blank")
	}
	if i.Title == "" {
		verr.Add("title", "can't be blank")
	} else if utf8.RuneCountInString(i.Title) > 255 {
		verr.Add("title", "is too long (maximum is 255 characters)")
	}
	if i.InvoiceDate.IsZero() {
		verr.Add("invoice_date", "can't be blank")
	}
	if i.DueDate.IsZero() {
		verr.Add("due_date", "can't be blank")
	}
	if !i.Status.IsValid() {
		verr.Add("status", "is not included in the list")
	}

	if i.BillingName == "" {
		verr.Add("billing_name", "can't be blank")
	}
	if i.BillingPostalCode == "" {
		verr.Add("billing_postal_code", "can't be blank")
	}
	if i.BillingAddress == "" {
		verr.Add("billing_address", "can't be blank")
	}
	if i.BillingTel == "" {
		verr.Add("billing_tel", "can't be blank")
	}
	if i.BillingPersonInCharge == "" {
		verr.Add("billing_person_in_charge", "can't be blank")
	}

	return verr
}
