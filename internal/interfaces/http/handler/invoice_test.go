package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	billingapp "github.com/invoicehub/backend/internal/application/billing"
	"github.com/invoicehub/backend/internal/domain/billing"
	"github.com/invoicehub/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// newTestInvoiceService builds an InvoiceService whose generated numbers are
// always INV-20250310-AB12CD
func newTestInvoiceService(customerRepo *MockCustomerRepository, invoiceRepo *MockInvoiceRepository) *billingapp.InvoiceService {
	generator := billing.NewNumberGenerator(
		fixedClock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)},
		fixedSuffixSource{suffix: "AB12CD"},
		invoiceRepo,
	)
	return billingapp.NewInvoiceService(invoiceRepo, customerRepo, generator, zap.NewNop())
}

func setupInvoiceHandler(customerRepo *MockCustomerRepository, invoiceRepo *MockInvoiceRepository) *InvoiceHandler {
	return NewInvoiceHandler(newTestInvoiceService(customerRepo, invoiceRepo))
}

func createTestInvoice(customerID uuid.UUID) *billing.Invoice {
	invoice := billing.NewInvoice(customerID)
	invoice.InvoiceNumber = "INV-20250310-AB12CD"
	invoice.Title = "March consulting"
	invoice.InvoiceDate = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	invoice.DueDate = time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)
	invoice.BillingName = "Acme Corp"
	invoice.BillingPostalCode = "123-4567"
	invoice.BillingAddress = "1-2-3 Chiyoda, Tokyo"
	invoice.BillingTel = "03-1234-5678"
	invoice.BillingPersonInCharge = "Jane Doe"
	return invoice
}

func TestInvoiceHandler_Create_Success(t *testing.T) {
	customerRepo := new(MockCustomerRepository)
	invoiceRepo := new(MockInvoiceRepository)
	handler := setupInvoiceHandler(customerRepo, invoiceRepo)

	customer := createTestCustomer()
	customerRepo.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)
	invoiceRepo.On("ExistsByNumber", mock.Anything, "INV-20250310-AB12CD").Return(false, nil)
	invoiceRepo.On("Create", mock.Anything, mock.AnythingOfType("*billing.Invoice")).Return(nil)

	router := setupTestRouter()
	router.POST("/invoices", handler.Create)

	body, _ := json.Marshal(billingapp.CreateInvoiceRequest{
		CustomerID:  customer.ID,
		Title:       "March consulting",
		InvoiceDate: "2025-03-10",
		DueDate:     "2025-04-10",
	})

	req := httptest.NewRequest(http.MethodPost, "/invoices", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decodeBody(t, w)
	data := resp["data"].(map[string]any)
	assert.Equal(t, "INV-20250310-AB12CD", data["invoice_number"])
	assert.Equal(t, "draft", data["status"])
	// Billing snapshot copied from the customer
	assert.Equal(t, "Acme Corp", data["billing_name"])
	assert.Equal(t, "123-4567", data["billing_postal_code"])
	assert.Equal(t, "1-2-3 Chiyoda, Tokyo", data["billing_address"])
	invoiceRepo.AssertExpectations(t)
}

func TestInvoiceHandler_Create_UnknownCustomer(t *testing.T) {
	customerRepo := new(MockCustomerRepository)
	invoiceRepo := new(MockInvoiceRepository)
	handler := setupInvoiceHandler(customerRepo, invoiceRepo)

	customerID := uuid.New()
	customerRepo.On("FindByID", mock.Anything, customerID).Return(nil, shared.ErrNotFound)

	router := setupTestRouter()
	router.POST("/invoices", handler.Create)

	body, _ := json.Marshal(billingapp.CreateInvoiceRequest{
		CustomerID:  customerID,
		Title:       "March consulting",
		InvoiceDate: "2025-03-10",
		DueDate:     "2025-04-10",
	})

	req := httptest.NewRequest(http.MethodPost, "/invoices", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeBody(t, w)
	errInfo := resp["error"].(map[string]any)
	assert.Equal(t, "not_found", errInfo["code"])
	assert.Equal(t, "Customer not found", errInfo["message"])
	invoiceRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInvoiceHandler_Create_ValidationFailure(t *testing.T) {
	customerRepo := new(MockCustomerRepository)
	invoiceRepo := new(MockInvoiceRepository)
	handler := setupInvoiceHandler(customerRepo, invoiceRepo)

	customer := createTestCustomer()
	customerRepo.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)
	invoiceRepo.On("ExistsByNumber", mock.Anything, "INV-20250310-AB12CD").Return(false, nil)

	router := setupTestRouter()
	router.POST("/invoices", handler.Create)

	// Missing title and dates
	body, _ := json.Marshal(billingapp.CreateInvoiceRequest{
		CustomerID: customer.ID,
	})

	req := httptest.NewRequest(http.MethodPost, "/invoices", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeBody(t, w)
	errInfo := resp["error"].(map[string]any)
	assert.Equal(t, "validation_error", errInfo["code"])
	fields := errInfo["fields"].(map[string]any)
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "invoice_date")
	assert.Contains(t, fields, "due_date")
	invoiceRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInvoiceHandler_Create_DuplicateExplicitNumber(t *testing.T) {
	customerRepo := new(MockCustomerRepository)
	invoiceRepo := new(MockInvoiceRepository)
	handler := setupInvoiceHandler(customerRepo, invoiceRepo)

	customer := createTestCustomer()
	customerRepo.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)
	invoiceRepo.On("ExistsByNumber", mock.Anything, "INV-20250301-TAKEN1").Return(true, nil)

	router := setupTestRouter()
	router.POST("/invoices", handler.Create)

	body, _ := json.Marshal(billingapp.CreateInvoiceRequest{
		CustomerID:    customer.ID,
		InvoiceNumber: "INV-20250301-TAKEN1",
		Title:         "March consulting",
		InvoiceDate:   "2025-03-10",
		DueDate:       "2025-04-10",
	})

	req := httptest.NewRequest(http.MethodPost, "/invoices", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeBody(t, w)
	errInfo := resp["error"].(map[string]any)
	fields := errInfo["fields"].(map[string]any)
	assert.Contains(t, fields, "invoice_number")
	invoiceRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInvoiceHandler_GetByID(t *testing.T) {
	t.Run("returns existing invoice", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		invoiceRepo := new(MockInvoiceRepository)
		handler := setupInvoiceHandler(customerRepo, invoiceRepo)

		invoice := createTestInvoice(uuid.New())
		invoiceRepo.On("FindByID", mock.Anything, invoice.ID).Return(invoice, nil)

		router := setupTestRouter()
		router.GET("/invoices/:id", handler.GetByID)

		req := httptest.NewRequest(http.MethodGet, "/invoices/"+invoice.ID.String(), nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeBody(t, w)
		data := resp["data"].(map[string]any)
		assert.Equal(t, "2025-03-10", data["invoice_date"])
		assert.Equal(t, "2025-04-10", data["due_date"])
	})

	t.Run("returns 404 for missing invoice", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		invoiceRepo := new(MockInvoiceRepository)
		handler := setupInvoiceHandler(customerRepo, invoiceRepo)

		invoiceID := uuid.New()
		invoiceRepo.On("FindByID", mock.Anything, invoiceID).Return(nil, shared.ErrNotFound)

		router := setupTestRouter()
		router.GET("/invoices/:id", handler.GetByID)

		req := httptest.NewRequest(http.MethodGet, "/invoices/"+invoiceID.String(), nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestInvoiceHandler_List(t *testing.T) {
	customerRepo := new(MockCustomerRepository)
	invoiceRepo := new(MockInvoiceRepository)
	handler := setupInvoiceHandler(customerRepo, invoiceRepo)

	invoiceRepo.On("FindAll", mock.Anything).Return([]billing.Invoice{*createTestInvoice(uuid.New())}, nil)

	router := setupTestRouter()
	router.GET("/invoices", handler.List)

	req := httptest.NewRequest(http.MethodGet, "/invoices", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	data := resp["data"].([]any)
	assert.Len(t, data, 1)
}

func TestInvoiceHandler_Update(t *testing.T) {
	t.Run("updates status", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		invoiceRepo := new(MockInvoiceRepository)
		handler := setupInvoiceHandler(customerRepo, invoiceRepo)

		invoice := createTestInvoice(uuid.New())
		invoiceRepo.On("FindByID", mock.Anything, invoice.ID).Return(invoice, nil)
		invoiceRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.Invoice")).Return(nil)

		router := setupTestRouter()
		router.PUT("/invoices/:id", handler.Update)

		status := "issued"
		body, _ := json.Marshal(billingapp.UpdateInvoiceRequest{Status: &status})

		req := httptest.NewRequest(http.MethodPut, "/invoices/"+invoice.ID.String(), bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeBody(t, w)
		data := resp["data"].(map[string]any)
		assert.Equal(t, "issued", data["status"])
		assert.Equal(t, "INV-20250310-AB12CD", data["invoice_number"])
		invoiceRepo.AssertExpectations(t)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		invoiceRepo := new(MockInvoiceRepository)
		handler := setupInvoiceHandler(customerRepo, invoiceRepo)

		invoice := createTestInvoice(uuid.New())
		invoiceRepo.On("FindByID", mock.Anything, invoice.ID).Return(invoice, nil)

		router := setupTestRouter()
		router.PUT("/invoices/:id", handler.Update)

		status := "archived"
		body, _ := json.Marshal(billingapp.UpdateInvoiceRequest{Status: &status})

		req := httptest.NewRequest(http.MethodPut, "/invoices/"+invoice.ID.String(), bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decodeBody(t, w)
		errInfo := resp["error"].(map[string]any)
		fields := errInfo["fields"].(map[string]any)
		assert.Contains(t, fields, "status")
		invoiceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestInvoiceHandler_Delete(t *testing.T) {
	customerRepo := new(MockCustomerRepository)
	invoiceRepo := new(MockInvoiceRepository)
	handler := setupInvoiceHandler(customerRepo, invoiceRepo)

	invoice := createTestInvoice(uuid.New())
	invoiceRepo.On("FindByID", mock.Anything, invoice.ID).Return(invoice, nil)
	invoiceRepo.On("Delete", mock.Anything, invoice.ID).Return(nil)

	router := setupTestRouter()
	router.DELETE("/invoices/:id", handler.Delete)

	req := httptest.NewRequest(http.MethodDelete, "/invoices/"+invoice.ID.String(), nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	invoiceRepo.AssertExpectations(t)
}
