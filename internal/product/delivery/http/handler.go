package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/tair/grocery-pos/internal/product/usecase/command"
	"github.com/tair/grocery-pos/internal/product/usecase/query"
	"github.com/tair/grocery-pos/pkg/auth"
	"github.com/tair/grocery-pos/pkg/middleware"
	"github.com/tair/grocery-pos/pkg/response"
)

// ProductHandler handles HTTP requests for the catalog
type ProductHandler struct {
	createHandler *command.CreateProductHandler
	updateHandler *command.UpdateProductHandler
	deleteHandler *command.DeleteProductHandler

	getHandler        *query.GetProductHandler
	listHandler       *query.ListProductsHandler
	categoriesHandler *query.ListCategoriesHandler
}

// NewProductHandler is the Wire provider for ProductHandler
func NewProductHandler(
	createHandler *command.CreateProductHandler,
	updateHandler *command.UpdateProductHandler,
	deleteHandler *command.DeleteProductHandler,
	getHandler *query.GetProductHandler,
	listHandler *query.ListProductsHandler,
	categoriesHandler *query.ListCategoriesHandler,
) *ProductHandler {
	return &ProductHandler{
		createHandler:     createHandler,
		updateHandler:     updateHandler,
		deleteHandler:     deleteHandler,
		getHandler:        getHandler,
		listHandler:       listHandler,
		categoriesHandler: categoriesHandler,
	}
}

func (h *ProductHandler) RegisterRoutes(router *mux.Router, authn *middleware.Authenticator) {
	anyUser := authn.RequireRoles()
	managers := authn.RequireRoles(auth.RoleAdmin, auth.RoleManager)

	router.HandleFunc("/api/products", anyUser(h.ListProducts)).Methods("GET")
	router.HandleFunc("/api/products/categories", anyUser(h.ListCategories)).Methods("GET")
	router.HandleFunc("/api/products/barcode/{barcode}", anyUser(h.GetByBarcode)).Methods("GET")
	router.HandleFunc("/api/products/{id:[0-9]+}", anyUser(h.GetProduct)).Methods("GET")

	router.HandleFunc("/api/products", managers(h.CreateProduct)).Methods("POST")
	router.HandleFunc("/api/products/{id:[0-9]+}", managers(h.UpdateProduct)).Methods("PUT")
	router.HandleFunc("/api/products/{id:[0-9]+}", managers(h.DeleteProduct)).Methods("DELETE")
}

type productRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Cost        *decimal.Decimal `json:"cost"`
	Category    *string          `json:"category"`
	Barcode     *string          `json:"barcode"`
	IsActive    *bool            `json:"is_active"`
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// CreateProduct godoc
// @Summary Create a product
// @Description Creates a catalog entry. An empty barcode is replaced by a generated in-store EAN-13.
// @Tags Products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{name=string,description=string,price=number,cost=number,category=string,barcode=string,is_active=bool} true "Product data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/products [post]
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := response.Decode(r, &req); err != nil {
		response.Err(w, r, err)
		return
	}

	product, err := h.createHandler.Handle(r.Context(), command.CreateProductCommand{
		Name:        deref(req.Name),
		Description: deref(req.Description),
		Price:       deref(req.Price),
		Cost:        deref(req.Cost),
		Category:    deref(req.Category),
		Barcode:     deref(req.Barcode),
		IsActive:    req.IsActive,
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}

	response.OK(w, http.StatusCreated, "Product created successfully", product)
}

// ListProducts godoc
// @Summary List products
// @Tags Products
// @Security BearerAuth
// @Produce json
// @Param category query string false "Category filter"
// @Param search query string false "Name or barcode fragment"
// @Param active query bool false "Active filter"
// @Param limit query int false "Limit (default 20, max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Response
// @Router /api/products [get]
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	active, err := response.QueryBool(r, "active")
	if err != nil {
		response.Err(w, r, err)
		return
	}

	page, err := h.listHandler.Handle(r.Context(), query.ListProductsQuery{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
		Active:   active,
		Limit:    response.QueryInt(r, "limit", 0),
		Offset:   response.QueryInt(r, "offset", 0),
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}

	response.OK(w, http.StatusOK, "", page)
}

// ListCategories godoc
// @Summary List product categories
// @Tags Products
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/products/categories [get]
func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoriesHandler.Handle(r.Context())
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", categories)
}

// GetProduct godoc
// @Summary Get product by ID
// @Tags Products
// @Security BearerAuth
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/products/{id} [get]
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Err(w, r, err)
		return
	}

	product, err := h.getHandler.Handle(r.Context(), query.GetProductQuery{ID: id})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", product)
}

// GetByBarcode godoc
// @Summary Get product by barcode
// @Tags Products
// @Security BearerAuth
// @Produce json
// @Param barcode path string true "Barcode"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/products/barcode/{barcode} [get]
func (h *ProductHandler) GetByBarcode(w http.ResponseWriter, r *http.Request) {
	product, err := h.getHandler.Handle(r.Context(), query.GetProductQuery{Barcode: mux.Vars(r)["barcode"]})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", product)
}

// UpdateProduct godoc
// @Summary Update a product
// @Description Partial update. Price changes do not affect recorded sales.
// @Tags Products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param request body object{name=string,description=string,price=number,cost=number,category=string,barcode=string,is_active=bool} true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/products/{id} [put]
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Err(w, r, err)
		return
	}

	var req productRequest
	if err := response.Decode(r, &req); err != nil {
		response.Err(w, r, err)
		return
	}

	product, err := h.updateHandler.Handle(r.Context(), command.UpdateProductCommand{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Cost:        req.Cost,
		Category:    req.Category,
		Barcode:     req.Barcode,
		IsActive:    req.IsActive,
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}

	response.OK(w, http.StatusOK, "Product updated successfully", product)
}

// DeleteProduct godoc
// @Summary Delete a product
// @Description Fails with 409 when any sale references the product.
// @Tags Products
// @Security BearerAuth
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/products/{id} [delete]
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Err(w, r, err)
		return
	}

	if err := h.deleteHandler.Handle(r.Context(), command.DeleteProductCommand{ID: id}); err != nil {
		response.Err(w, r, err)
		return
	}

	response.OK(w, http.StatusOK, "Product deleted successfully", nil)
}
