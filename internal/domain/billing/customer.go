package billing

import (
	"regexp"
	"unicode/utf8"

	"github.com/invoicehub/backend/internal/domain/shared"
)

var (
	emailPattern      = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	telPattern        = regexp.MustCompile(`^[0-9+\-() ]+$`)
	postalCodePattern = regexp.MustCompile(`^\d{3}-?\d{4}$`)
)

// Customer is the party invoices are issued against. Its contact fields are
// the source of the billing snapshot copied onto an invoice at creation time;
// the invoice keeps that copy even when the customer changes later.
type Customer struct {
	shared.BaseEntity
	Name           string
	Email          string
	Tel            string
	PostalCode     string
	Address        string
	PersonInCharge string
}

// NewCustomer creates a customer, rejecting invalid field values with a
// per-field validation error.
func NewCustomer(name, email, tel, postalCode, address, personInCharge string) (*Customer, error) {
	c := &Customer{
		BaseEntity:     shared.NewBaseEntity(),
		Name:           name,
		Email:          email,
		Tel:            tel,
		PostalCode:     postalCode,
		Address:        address,
		PersonInCharge: personInCharge,
	}
	if err := c.Validate().AsError(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks field constraints and collects per-field messages.
// Only name is mandatory; the other fields are validated when present.
func (c *Customer) Validate() *shared.ValidationError {
	verr := shared.NewValidationError()

	if c.Name == "" {
		verr.Add("name", "can't be blank")
	} else if utf8.RuneCountInString(c.Name) > 255 {
		verr.Add("name", "is too long (maximum is 255 characters)")
	}

	if c.Email != "" {
		if !emailPattern.MatchString(c.Email) {
			verr.Add("email", "is invalid")
		}
		if utf8.RuneCountInString(c.Email) > 255 {
			verr.Add("email", "is too long (maximum is 255 characters)")
		}
	}

	if c.Tel != "" {
		if !telPattern.MatchString(c.Tel) {
			verr.Add("tel", "is invalid")
		}
		if utf8.RuneCountInString(c.Tel) > 30 {
			verr.Add("tel", "is too long (maximum is 30 characters)")
		}
	}

	if c.PostalCode != "" {
		if !postalCodePattern.MatchString(c.PostalCode) {
			verr.Add("postal_code", "is invalid")
		}
		if utf8.RuneCountInString(c.PostalCode) > 8 {
			verr.Add("postal_code", "is too long (maximum is 8 characters)")
		}
	}

	if utf8.RuneCountInString(c.Address) > 500 {
		verr.Add("address", "is too long (maximum is 500 characters)")
	}
	if utf8.RuneCountInString(c.PersonInCharge) > 255 {
		verr.Add("person_in_charge", "is too long (maximum is 255 characters)")
	}

	return verr
}
