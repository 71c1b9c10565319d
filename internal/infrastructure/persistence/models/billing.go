package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/invoicehub/backend/internal/domain/billing"
)

// CustomerModel is the persistence model for customers
type CustomerModel struct {
	BaseModel
	Name           string `gorm:"type:varchar(255);not null;index"`
	Email          string `gorm:"type:varchar(255)"`
	Tel            string `gorm:"type:varchar(30)"`
	PostalCode     string `gorm:"type:varchar(8)"`
	Address        string `gorm:"type:varchar(500)"`
	PersonInCharge string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain customer
func (m *CustomerModel) ToDomain() *billing.Customer {
	return &billing.Customer{
		BaseEntity:     m.BaseModel.ToDomain(),
		Name:           m.Name,
		Email:          m.Email,
		Tel:            m.Tel,
		PostalCode:     m.PostalCode,
		Address:        m.Address,
		PersonInCharge: m.PersonInCharge,
	}
}

// FromDomain populates the persistence model from a domain customer
func (m *CustomerModel) FromDomain(c *billing.Customer) {
	m.BaseModel.FromDomain(c.BaseEntity)
	m.Name = c.Name
	m.Email = c.Email
	m.Tel = c.Tel
	m.PostalCode = c.PostalCode
	m.Address = c.Address
	m.PersonInCharge = c.PersonInCharge
}

// InvoiceModel is the persistence model for invoices. The unique index on
// invoice_number is the authoritative guard against concurrent creations
// racing on a generated number.
type InvoiceModel struct {
	BaseModel
	CustomerID            uuid.UUID `gorm:"type:uuid;not null;index"`
	InvoiceNumber         string    `gorm:"type:varchar(32);not null;uniqueIndex"`
	Title                 string    `gorm:"type:varchar(255);not null"`
	InvoiceDate           time.Time `gorm:"type:date;not null"`
	DueDate               time.Time `gorm:"type:date;not null"`
	Status                string    `gorm:"type:varchar(16);not null"`
	BillingName           string    `gorm:"type:varchar(255);not null"`
	BillingPostalCode     string    `gorm:"type:varchar(8);not null"`
	BillingAddress        string    `gorm:"type:varchar(500);not null"`
	BillingTel            string    `gorm:"type:varchar(30);not null"`
	BillingPersonInCharge string    `gorm:"type:varchar(255);not null"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain invoice
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	return &billing.Invoice{
		BaseEntity:            m.BaseModel.ToDomain(),
		CustomerID:            m.CustomerID,
		InvoiceNumber:         m.InvoiceNumber,
		Title:                 m.Title,
		InvoiceDate:           m.InvoiceDate,
		DueDate:               m.DueDate,
		Status:                billing.InvoiceStatus(m.Status),
		BillingName:           m.BillingName,
		BillingPostalCode:     m.BillingPostalCode,
		BillingAddress:        m.BillingAddress,
		BillingTel:            m.BillingTel,
		BillingPersonInCharge: m.BillingPersonInCharge,
	}
}

// FromDomain populates the persistence model from a domain invoice
func (m *InvoiceModel) FromDomain(i *billing.Invoice) {
	m.BaseModel.FromDomain(i.BaseEntity)
	m.CustomerID = i.CustomerID
	m.InvoiceNumber = i.InvoiceNumber
	m.Title = i.Title
	m.InvoiceDate = i.InvoiceDate
	m.DueDate = i.DueDate
	m.Status = string(i.Status)
	m.BillingName = i.BillingName
	m.BillingPostalCode = i.BillingPostalCode
	m.BillingAddress = i.BillingAddress
	m.BillingTel = i.BillingTel
	m.BillingPersonInCharge = i.BillingPersonInCharge
}
