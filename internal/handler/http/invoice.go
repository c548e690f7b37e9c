package http

import (
	"net/http"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/invoice"
	"github.com/haulpoint/haulpoint-backend-go/internal/handler/http/response"
)

// InvoiceHandler serves the signed-in customer's invoices.
type InvoiceHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
}

type invoiceHandlerImpl struct {
	invoiceService invoice.InvoiceService
}

func NewInvoiceHandler(invoiceService invoice.InvoiceService) InvoiceHandler {
	return &invoiceHandlerImpl{invoiceService: invoiceService}
}

func (h *invoiceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	req, err := invoice.ParseListRequest(r.URL.Query())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	page, err := h.invoiceService.List(r.Context(), p, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Paginated(w, page)
}

// Get loads line items only for ?include=items.
func (h *invoiceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	includeItems := r.URL.Query().Get("include") == "items"
	resp, err := h.invoiceService.Get(r.Context(), p, id, includeItems)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}
