package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/tair/grocery-pos/internal/inventory/usecase/command"
	"github.com/tair/grocery-pos/internal/inventory/usecase/query"
	"github.com/tair/grocery-pos/pkg/auth"
	"github.com/tair/grocery-pos/pkg/middleware"
	"github.com/tair/grocery-pos/pkg/response"
)

// InventoryHandler handles HTTP requests for inventory
type InventoryHandler struct {
	createHandler      *command.CreateInventoryHandler
	updateHandler      *command.UpdateInventoryHandler
	deleteHandler      *command.DeleteInventoryHandler
	adjustHandler      *command.AdjustQuantityHandler
	checkExpiryHandler *command.CheckExpiryHandler

	getHandler          *query.GetInventoryHandler
	listHandler         *query.ListInventoryHandler
	transactionsHandler *query.ListTransactionsHandler
	availabilityHandler *query.CheckAvailabilityHandler
}

// NewInventoryHandler is the Wire provider for InventoryHandler
func NewInventoryHandler(
	createHandler *command.CreateInventoryHandler,
	updateHandler *command.UpdateInventoryHandler,
	deleteHandler *command.DeleteInventoryHandler,
	adjustHandler *command.AdjustQuantityHandler,
	checkExpiryHandler *command.CheckExpiryHandler,
	getHandler *query.GetInventoryHandler,
	listHandler *query.ListInventoryHandler,
	transactionsHandler *query.ListTransactionsHandler,
	availabilityHandler *query.CheckAvailabilityHandler,
) *InventoryHandler {
	return &InventoryHandler{
		createHandler:       createHandler,
		updateHandler:       updateHandler,
		deleteHandler:       deleteHandler,
		adjustHandler:       adjustHandler,
		checkExpiryHandler:  checkExpiryHandler,
		getHandler:          getHandler,
		listHandler:         listHandler,
		transactionsHandler: transactionsHandler,
		availabilityHandler: availabilityHandler,
	}
}

func (h *InventoryHandler) RegisterRoutes(router *mux.Router, authn *middleware.Authenticator) {
	anyUser := authn.RequireRoles()
	managers := authn.RequireRoles(auth.RoleAdmin, auth.RoleManager)
	admins := authn.RequireRoles(auth.RoleAdmin)

	router.HandleFunc("/api/inventory", anyUser(h.ListInventory)).Methods("GET")
	router.HandleFunc("/api/inventory/low-stock", anyUser(h.ListLowStock)).Methods("GET")
	router.HandleFunc("/api/inventory/expiring", anyUser(h.ListExpiring)).Methods("GET")
	router.HandleFunc("/api/inventory/expiry-check", admins(h.CheckExpiry)).Methods("POST")
	router.HandleFunc("/api/inventory/product/{product_id:[0-9]+}", anyUser(h.GetByProduct)).Methods("GET")
	router.HandleFunc("/api/inventory/check/{product_id:[0-9]+}", anyUser(h.CheckAvailability)).Methods("GET")
	router.HandleFunc("/api/inventory/{id:[0-9]+}", anyUser(h.GetInventory)).Methods("GET")
	router.HandleFunc("/api/inventory/{id:[0-9]+}/transactions", managers(h.ListTransactions)).Methods("GET")

	router.HandleFunc("/api/inventory", managers(h.CreateInventory)).Methods("POST")
	router.HandleFunc("/api/inventory/{id:[0-9]+}", managers(h.UpdateInventory)).Methods("PUT")
	router.HandleFunc("/api/inventory/{id:[0-9]+}/adjust", managers(h.AdjustQuantity)).Methods("PATCH")
	router.HandleFunc("/api/inventory/{id:[0-9]+}", admins(h.DeleteInventory)).Methods("DELETE")
}

func optionalDate(name string, raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := response.ParseDate(name, *raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateInventory godoc
// @Summary Stock a product
// @Description Creates the inventory row of a product. A positive initial quantity is booked as a restock ledger entry.
// @Tags Inventory
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{product_id=int,quantity=int,min_stock_level=int,expiry_date=string,location=string} true "Inventory data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/inventory [post]
func (h *InventoryHandler) CreateInventory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID     uint    `json:"product_id"`
		Quantity      int     `json:"quantity"`
		MinStockLevel int     `json:"min_stock_level"`
		ExpiryDate    *string `json:"expiry_date"`
		Location      string  `json:"location"`
	}
	if err := response.Decode(r, &req); err != nil {
		response.Err(w, r, err)
		return
	}

	expiry, err := optionalDate("expiry_date", req.ExpiryDate)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	actor, _ := middleware.ActorFrom(r)
	inventory, err := h.createHandler.Handle(r.Context(), command.CreateInventoryCommand{
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		MinStockLevel: req.MinStockLevel,
		ExpiryDate:    expiry,
		Location:      req.Location,
		ActorID:       actor.ID,
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}

	response.OK(w, http.StatusCreated, "Inventory created successfully", inventory)
}

// ListInventory godoc
// @Summary List inventory
// @Tags Inventory
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Response
// @Router /api/inventory [get]
func (h *InventoryHandler) ListInventory(w http.ResponseWriter, r *http.Request) {
	page, err := h.listHandler.Handle(r.Context(), query.ListInventoryQuery{
		Limit:  response.QueryInt(r, "limit", 0),
		Offset: response.QueryInt(r, "offset", 0),
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", page)
}

// ListLowStock godoc
// @Summary List low stock inventory
// @Tags Inventory
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/inventory/low-stock [get]
func (h *InventoryHandler) ListLowStock(w http.ResponseWriter, r *http.Request) {
	rows, err := h.listHandler.LowStock(r.Context())
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", rows)
}

// ListExpiring godoc
// @Summary List expired and soon to expire inventory
// @Tags Inventory
// @Security BearerAuth
// @Produce json
// @Param days query int false "Window in days (default EXPIRY_WARNING_DAYS)"
// @Success 200 {object} response.Response
// @Router /api/inventory/expiring [get]
func (h *InventoryHandler) ListExpiring(w http.ResponseWriter, r *http.Request) {
	rows, err := h.listHandler.Expiring(r.Context(), response.QueryInt(r, "days", 0))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", rows)
}

// CheckExpiry godoc
// @Summary Run the expiry check
// @Description Scans dated stock and notifies admins and managers about expired and near expiry products.
// @Tags Inventory
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/inventory/expiry-check [post]
func (h *InventoryHandler) CheckExpiry(w http.ResponseWriter, r *http.Request) {
	result, err := h.checkExpiryHandler.Handle(r.Context())
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "Expiry check completed", result)
}

// GetInventory godoc
// @Summary Get inventory by ID
// @Tags Inventory
// @Security BearerAuth
// @Produce json
// @Param id path int true "Inventory ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/inventory/{id} [get]
func (h *InventoryHandler) GetInventory(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Err(w, r, err)
		return
	}

	inventory, err := h.getHandler.Handle(r.Context(), query.GetInventoryQuery{ID: id})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", inventory)
}

// GetByProduct godoc
// @Summary Get inventory by product ID
// @Tags Inventory
// @Security BearerAuth
// @Produce json
// @Param product_id path int true "Product ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/inventory/product/{product_id} [get]
func (h *InventoryHandler) GetByProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := response.PathID(r, "product_id")
	if err != nil {
		response.Err(w, r, err)
		return
	}

	inventory, err := h.getHandler.Handle(r.Context(), query.GetInventoryQuery{ProductID: productID})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", inventory)
}

// CheckAvailability godoc
// @Summary Check stock availability
// @Tags Inventory
// @Security BearerAuth
// @Produce json
// @Param product_id path int true "Product ID"
// @Param quantity query int false "Requested quantity (default 1)"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/inventory/check/{product_id} [get]
func (h *InventoryHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	productID, err := response.PathID(r, "product_id")
	if err != nil {
		response.Err(w, r, err)
		return
	}

	availability, err := h.availabilityHandler.Handle(r.Context(), productID, response.QueryInt(r, "quantity", 1))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", availability)
}

// ListTransactions godoc
// @Summary List the ledger of an inventory row
// @Tags Inventory
// @Security BearerAuth
// @Produce json
// @Param id path int true "Inventory ID"
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/inventory/{id}/transactions [get]
func (h *InventoryHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Err(w, r, err)
		return
	}

	page, err := h.transactionsHandler.Handle(r.Context(), query.ListTransactionsQuery{
		InventoryID: id,
		Limit:       response.QueryInt(r, "limit", 0),
		Offset:      response.QueryInt(r, "offset", 0),
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", page)
}

// UpdateInventory godoc
// @Summary Update inventory details
// @Description Changes min stock level, location and expiry date. Requests carrying quantity are rejected.
// @Tags Inventory
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Inventory ID"
// @Param request body object{min_stock_level=int,location=string,expiry_date=string,clear_expiry=bool} true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/inventory/{id} [put]
func (h *InventoryHandler) UpdateInventory(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Err(w, r, err)
		return
	}

	var req struct {
		Quantity      *int    `json:"quantity"`
		MinStockLevel *int    `json:"min_stock_level"`
		Location      *string `json:"location"`
		ExpiryDate    *string `json:"expiry_date"`
		ClearExpiry   bool    `json:"clear_expiry"`
	}
	if err := response.Decode(r, &req); err != nil {
		response.Err(w, r, err)
		return
	}

	expiry, err := optionalDate("expiry_date", req.ExpiryDate)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	inventory, err := h.updateHandler.Handle(r.Context(), command.UpdateInventoryCommand{
		ID:            id,
		Quantity:      req.Quantity,
		MinStockLevel: req.MinStockLevel,
		Location:      req.Location,
		ExpiryDate:    expiry,
		ClearExpiry:   req.ClearExpiry,
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "Inventory updated successfully", inventory)
}

// AdjustQuantity godoc
// @Summary Adjust stock
// @Description Applies a signed quantity change through the ledger.
// @Tags Inventory
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Inventory ID"
// @Param request body object{quantity=int,type=string,reason=string} true "Signed delta, type (adjustment, restock, return, sale) and reason"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/inventory/{id}/adjust [patch]
func (h *InventoryHandler) AdjustQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Err(w, r, err)
		return
	}

	var req struct {
		Quantity int    `json:"quantity"`
		Type     string `json:"type"`
		Reason   string `json:"reason"`
	}
	if err := response.Decode(r, &req); err != nil {
		response.Err(w, r, err)
		return
	}

	actor, _ := middleware.ActorFrom(r)
	result, err := h.adjustHandler.Handle(r.Context(), command.AdjustQuantityCommand{
		InventoryID: id,
		Delta:       req.Quantity,
		Type:        req.Type,
		Reason:      req.Reason,
		ActorID:     actor.ID,
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "Inventory adjusted successfully", result)
}

// DeleteInventory godoc
// @Summary Delete an inventory row
// @Description Fails with 409 when the ledger references a sale.
// @Tags Inventory
// @Security BearerAuth
// @Produce json
// @Param id path int true "Inventory ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/inventory/{id} [delete]
func (h *InventoryHandler) DeleteInventory(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Err(w, r, err)
		return
	}

	if err := h.deleteHandler.Handle(r.Context(), command.DeleteInventoryCommand{ID: id}); err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "Inventory deleted successfully", nil)
}
