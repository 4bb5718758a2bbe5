package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tair/grocery-pos/internal/setting/usecase"
	"github.com/tair/grocery-pos/pkg/auth"
	"github.com/tair/grocery-pos/pkg/middleware"
	"github.com/tair/grocery-pos/pkg/response"
)

type SettingHandler struct {
	service *usecase.SettingService
}

func NewSettingHandler(service *usecase.SettingService) *SettingHandler {
	return &SettingHandler{service: service}
}

func (h *SettingHandler) RegisterRoutes(router *mux.Router, authn *middleware.Authenticator) {
	anyUser := authn.RequireRoles()
	admins := authn.RequireRoles(auth.RoleAdmin)

	router.HandleFunc("/api/settings", anyUser(h.ListSettings)).Methods("GET")
	router.HandleFunc("/api/settings/{key}", anyUser(h.GetSetting)).Methods("GET")
	router.HandleFunc("/api/settings/{key}", admins(h.PutSetting)).Methods("PUT")
	router.HandleFunc("/api/settings/{key}", admins(h.DeleteSetting)).Methods("DELETE")
}

// ListSettings godoc
// @Summary List store settings
// @Tags Settings
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/settings [get]
func (h *SettingHandler) ListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.List(r.Context())
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", settings)
}

// GetSetting godoc
// @Summary Get a store setting
// @Tags Settings
// @Security BearerAuth
// @Produce json
// @Param key path string true "Setting key"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/settings/{key} [get]
func (h *SettingHandler) GetSetting(w http.ResponseWriter, r *http.Request) {
	setting, err := h.service.Get(r.Context(), mux.Vars(r)["key"])
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", setting)
}

// PutSetting godoc
// @Summary Create or replace a store setting
// @Tags Settings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param key path string true "Setting key"
// @Param request body object{value=string,description=string} true "Value"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/settings/{key} [put]
func (h *SettingHandler) PutSetting(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFrom(r)
	var req struct {
		Value       string `json:"value"`
		Description string `json:"description"`
	}
	if err := response.Decode(r, &req); err != nil {
		response.Err(w, r, err)
		return
	}

	setting, err := h.service.Upsert(r.Context(), usecase.UpsertCommand{
		Key:         mux.Vars(r)["key"],
		Value:       req.Value,
		Description: req.Description,
		ActorID:     actor.ID,
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "Setting saved", setting)
}

// DeleteSetting godoc
// @Summary Delete a store setting
// @Tags Settings
// @Security BearerAuth
// @Produce json
// @Param key path string true "Setting key"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/settings/{key} [delete]
func (h *SettingHandler) DeleteSetting(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["key"]); err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "Setting deleted", nil)
}
