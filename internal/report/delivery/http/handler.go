package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/tair/grocery-pos/internal/report/domain"
	"github.com/tair/grocery-pos/internal/report/usecase"
	"github.com/tair/grocery-pos/pkg/auth"
	"github.com/tair/grocery-pos/pkg/middleware"
	"github.com/tair/grocery-pos/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	service *usecase.ReportService
}

func NewReportHandler(service *usecase.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

func (h *ReportHandler) RegisterRoutes(router *mux.Router, authn *middleware.Authenticator) {
	managers := authn.RequireRoles(auth.RoleAdmin, auth.RoleManager)

	router.HandleFunc("/api/reports/sales/summary", managers(h.SalesSummary)).Methods("GET")
	router.HandleFunc("/api/reports/sales/daily", managers(h.DailySales)).Methods("GET")
	router.HandleFunc("/api/reports/sales/export", managers(h.ExportSales)).Methods("GET")
	router.HandleFunc("/api/reports/top-products", managers(h.TopProducts)).Methods("GET")
	router.HandleFunc("/api/reports/inventory/valuation", managers(h.InventoryValuation)).Methods("GET")
}

func period(r *http.Request) (domain.Period, error) {
	from, to, err := response.QueryDateRange(r)
	if err != nil {
		return domain.Period{}, err
	}
	return domain.Period{From: from, To: to}, nil
}

// SalesSummary godoc
// @Summary Sales totals for a period
// @Tags Reports
// @Security BearerAuth
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD or RFC3339)"
// @Param to query string false "End date, inclusive for YYYY-MM-DD"
// @Success 200 {object} response.Response
// @Router /api/reports/sales/summary [get]
func (h *ReportHandler) SalesSummary(w http.ResponseWriter, r *http.Request) {
	p, err := period(r)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	summary, err := h.service.SalesSummary(r.Context(), p)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", summary)
}

// DailySales godoc
// @Summary Completed sales per day
// @Description Defaults to the last 30 days.
// @Tags Reports
// @Security BearerAuth
// @Produce json
// @Param from query string false "Start date"
// @Param to query string false "End date"
// @Success 200 {object} response.Response
// @Router /api/reports/sales/daily [get]
func (h *ReportHandler) DailySales(w http.ResponseWriter, r *http.Request) {
	p, err := period(r)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	days, err := h.service.DailySales(r.Context(), p)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", days)
}

// TopProducts godoc
// @Summary Best selling products
// @Tags Reports
// @Security BearerAuth
// @Produce json
// @Param from query string false "Start date"
// @Param to query string false "End date"
// @Param limit query int false "Limit (default 10)"
// @Success 200 {object} response.Response
// @Router /api/reports/top-products [get]
func (h *ReportHandler) TopProducts(w http.ResponseWriter, r *http.Request) {
	p, err := period(r)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	products, err := h.service.TopProducts(r.Context(), p, response.QueryInt(r, "limit", 10))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", products)
}

// InventoryValuation godoc
// @Summary Value of the stock on hand
// @Tags Reports
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/reports/inventory/valuation [get]
func (h *ReportHandler) InventoryValuation(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.InventoryValuation(r.Context())
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", v)
}

// ExportSales godoc
// @Summary Export sales as an Excel workbook
// @Tags Reports
// @Security BearerAuth
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param from query string false "Start date"
// @Param to query string false "End date"
// @Param status query string false "pending, completed or cancelled"
// @Success 200 {file} file
// @Router /api/reports/sales/export [get]
func (h *ReportHandler) ExportSales(w http.ResponseWriter, r *http.Request) {
	p, err := period(r)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	buf, err := h.service.ExportSales(r.Context(), p, r.URL.Query().Get("status"))
	if err != nil {
		response.Err(w, r, err)
		return
	}

	name := fmt.Sprintf("sales-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
