package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/tair/grocery-pos/internal/sale/usecase/command"
	"github.com/tair/grocery-pos/internal/sale/usecase/query"
	"github.com/tair/grocery-pos/pkg/auth"
	"github.com/tair/grocery-pos/pkg/middleware"
	"github.com/tair/grocery-pos/pkg/response"
)

// SaleHandler handles HTTP requests for checkouts
type SaleHandler struct {
	createHandler *command.CreateSaleHandler
	cancelHandler *command.CancelSaleHandler
	getHandler    *query.GetSaleHandler
	listHandler   *query.ListSalesHandler
}

// NewSaleHandler is the Wire provider for SaleHandler
func NewSaleHandler(
	createHandler *command.CreateSaleHandler,
	cancelHandler *command.CancelSaleHandler,
	getHandler *query.GetSaleHandler,
	listHandler *query.ListSalesHandler,
) *SaleHandler {
	return &SaleHandler{
		createHandler: createHandler,
		cancelHandler: cancelHandler,
		getHandler:    getHandler,
		listHandler:   listHandler,
	}
}

func (h *SaleHandler) RegisterRoutes(router *mux.Router, authn *middleware.Authenticator) {
	anyUser := authn.RequireRoles()
	managers := authn.RequireRoles(auth.RoleAdmin, auth.RoleManager)

	router.HandleFunc("/api/sales", anyUser(h.CreateSale)).Methods("POST")
	router.HandleFunc("/api/sales", anyUser(h.ListSales)).Methods("GET")
	router.HandleFunc("/api/sales/{id:[0-9]+}", anyUser(h.GetSale)).Methods("GET")
	router.HandleFunc("/api/sales/{id:[0-9]+}", managers(h.CancelSale)).Methods("DELETE")
}

type saleItemRequest struct {
	ProductID uint             `json:"product_id"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal  `json:"discount"`
}

type createSaleRequest struct {
	CustomerID     *uint             `json:"customer_id"`
	Items          []saleItemRequest `json:"items"`
	TaxAmount      decimal.Decimal   `json:"tax_amount"`
	DiscountAmount decimal.Decimal   `json:"discount_amount"`
	PaymentMethod  string            `json:"payment_method"`
	PaymentStatus  string            `json:"payment_status"`
	Notes          string            `json:"notes"`
}

// CreateSale godoc
// @Summary Record a sale
// @Description Validates every line, then stores the sale and takes the items out of stock atomically. Omitted unit prices use the catalog price.
// @Tags Sales
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{customer_id=int,items=[]object{product_id=int,quantity=int,unit_price=number,discount=number},tax_amount=number,discount_amount=number,payment_method=string,payment_status=string,notes=string} true "Sale"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response "invalid_input or insufficient_stock"
// @Failure 404 {object} response.Response
// @Router /api/sales [post]
func (h *SaleHandler) CreateSale(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFrom(r)
	var req createSaleRequest
	if err := response.Decode(r, &req); err != nil {
		response.Err(w, r, err)
		return
	}

	items := make([]command.SaleItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, command.SaleItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Discount:  it.Discount,
		})
	}

	sale, err := h.createHandler.Handle(r.Context(), command.CreateSaleCommand{
		CustomerID:     req.CustomerID,
		Items:          items,
		TaxAmount:      req.TaxAmount,
		DiscountAmount: req.DiscountAmount,
		PaymentMethod:  req.PaymentMethod,
		PaymentStatus:  req.PaymentStatus,
		Notes:          req.Notes,
		ActorID:        actor.ID,
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusCreated, "Sale completed successfully", sale)
}

// ListSales godoc
// @Summary List sales
// @Description Cashiers only see their own sales.
// @Tags Sales
// @Security BearerAuth
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD or RFC3339)"
// @Param to query string false "End date, inclusive for YYYY-MM-DD"
// @Param status query string false "pending, completed or cancelled"
// @Param customer_id query int false "Customer filter"
// @Param user_id query int false "Cashier filter"
// @Param limit query int false "Limit (default 20, max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Response
// @Router /api/sales [get]
func (h *SaleHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFrom(r)
	from, to, err := response.QueryDateRange(r)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	customerID, err := response.QueryUint(r, "customer_id")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	userID, err := response.QueryUint(r, "user_id")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	if actor.Role == auth.RoleCashier {
		own := actor.ID
		userID = &own
	}

	page, err := h.listHandler.Handle(r.Context(), query.ListSalesQuery{
		From:       from,
		To:         to,
		Status:     r.URL.Query().Get("status"),
		CustomerID: customerID,
		UserID:     userID,
		Limit:      response.QueryInt(r, "limit", 0),
		Offset:     response.QueryInt(r, "offset", 0),
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", page)
}

// GetSale godoc
// @Summary Get a sale with its items
// @Description Cashiers can only read their own sales.
// @Tags Sales
// @Security BearerAuth
// @Produce json
// @Param id path int true "Sale ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/sales/{id} [get]
func (h *SaleHandler) GetSale(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFrom(r)
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	sale, err := h.getHandler.Handle(r.Context(), id, actor)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", sale)
}

// CancelSale godoc
// @Summary Cancel a sale
// @Description Marks the sale cancelled and refunded and returns every item to stock.
// @Tags Sales
// @Security BearerAuth
// @Produce json
// @Param id path int true "Sale ID"
// @Param reason query string false "Cancellation reason"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response "already_cancelled"
// @Failure 404 {object} response.Response
// @Router /api/sales/{id} [delete]
func (h *SaleHandler) CancelSale(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFrom(r)
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Err(w, r, err)
		return
	}

	sale, err := h.cancelHandler.Handle(r.Context(), command.CancelSaleCommand{
		SaleID:  id,
		ActorID: actor.ID,
		Reason:  r.URL.Query().Get("reason"),
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "Sale cancelled successfully", sale)
}
