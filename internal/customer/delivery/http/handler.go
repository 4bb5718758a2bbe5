package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tair/grocery-pos/internal/customer/usecase/command"
	"github.com/tair/grocery-pos/internal/customer/usecase/query"
	"github.com/tair/grocery-pos/pkg/auth"
	"github.com/tair/grocery-pos/pkg/middleware"
	"github.com/tair/grocery-pos/pkg/response"
)

type CustomerHandler struct {
	createHandler *command.CreateCustomerHandler
	updateHandler *command.UpdateCustomerHandler
	deleteHandler *command.DeleteCustomerHandler
	getHandler    *query.GetCustomerHandler
	listHandler   *query.ListCustomersHandler
}

func NewCustomerHandler(
	createHandler *command.CreateCustomerHandler,
	updateHandler *command.UpdateCustomerHandler,
	deleteHandler *command.DeleteCustomerHandler,
	getHandler *query.GetCustomerHandler,
	listHandler *query.ListCustomersHandler,
) *CustomerHandler {
	return &CustomerHandler{
		createHandler: createHandler,
		updateHandler: updateHandler,
		deleteHandler: deleteHandler,
		getHandler:    getHandler,
		listHandler:   listHandler,
	}
}

func (h *CustomerHandler) RegisterRoutes(router *mux.Router, authn *middleware.Authenticator) {
	anyUser := authn.RequireRoles()
	managers := authn.RequireRoles(auth.RoleAdmin, auth.RoleManager)

	router.HandleFunc("/api/customers", anyUser(h.ListCustomers)).Methods("GET")
	router.HandleFunc("/api/customers", anyUser(h.CreateCustomer)).Methods("POST")
	router.HandleFunc("/api/customers/{id:[0-9]+}", anyUser(h.GetCustomer)).Methods("GET")
	router.HandleFunc("/api/customers/{id:[0-9]+}", anyUser(h.UpdateCustomer)).Methods("PUT")
	router.HandleFunc("/api/customers/{id:[0-9]+}", managers(h.DeleteCustomer)).Methods("DELETE")
}

type customerRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

func (req customerRequest) input() command.CustomerInput {
	return command.CustomerInput{Name: req.Name, Email: req.Email, Phone: req.Phone, Address: req.Address}
}

// CreateCustomer godoc
// @Summary Register a customer
// @Tags Customers
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{name=string,email=string,phone=string,address=string} true "Customer"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/customers [post]
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := response.Decode(r, &req); err != nil {
		response.Err(w, r, err)
		return
	}
	customer, err := h.createHandler.Handle(r.Context(), req.input())
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusCreated, "Customer created successfully", customer)
}

// ListCustomers godoc
// @Summary List customers
// @Tags Customers
// @Security BearerAuth
// @Produce json
// @Param search query string false "Name, email or phone fragment"
// @Param limit query int false "Limit (default 20, max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Response
// @Router /api/customers [get]
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	page, err := h.listHandler.Handle(r.Context(), query.ListCustomersQuery{
		Search: r.URL.Query().Get("search"),
		Limit:  response.QueryInt(r, "limit", 0),
		Offset: response.QueryInt(r, "offset", 0),
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", page)
}

// GetCustomer godoc
// @Summary Get a customer
// @Tags Customers
// @Security BearerAuth
// @Produce json
// @Param id path int true "Customer ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/customers/{id} [get]
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	customer, err := h.getHandler.Handle(r.Context(), id)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", customer)
}

// UpdateCustomer godoc
// @Summary Update a customer
// @Tags Customers
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Customer ID"
// @Param request body object{name=string,email=string,phone=string,address=string} true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/customers/{id} [put]
func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	var req customerRequest
	if err := response.Decode(r, &req); err != nil {
		response.Err(w, r, err)
		return
	}
	customer, err := h.updateHandler.Handle(r.Context(), id, req.input())
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "Customer updated successfully", customer)
}

// DeleteCustomer godoc
// @Summary Delete a customer without sales
// @Tags Customers
// @Security BearerAuth
// @Produce json
// @Param id path int true "Customer ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/customers/{id} [delete]
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	if err := h.deleteHandler.Handle(r.Context(), id); err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "Customer deleted successfully", nil)
}
