package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tair/grocery-pos/internal/user/domain"
	"github.com/tair/grocery-pos/internal/user/usecase/command"
	"github.com/tair/grocery-pos/internal/user/usecase/query"
	"github.com/tair/grocery-pos/pkg/auth"
	"github.com/tair/grocery-pos/pkg/middleware"
	"github.com/tair/grocery-pos/pkg/response"
)

// UserHandler handles HTTP requests for users
type UserHandler struct {
	// Command handlers
	registerHandler       *command.RegisterUserHandler
	loginHandler          *command.LoginUserHandler
	updateProfileHandler  *command.UpdateProfileHandler
	changePasswordHandler *command.ChangePasswordHandler
	changeRoleHandler     *command.ChangeRoleHandler
	setStatusHandler      *command.SetStatusHandler

	// Query handlers
	getUserHandler *query.GetUserHandler
	listHandler    *query.ListUsersHandler
	statsHandler   *query.GetStatsHandler
}

// NewUserHandler is the Wire provider for UserHandler
func NewUserHandler(
	registerHandler *command.RegisterUserHandler,
	loginHandler *command.LoginUserHandler,
	updateProfileHandler *command.UpdateProfileHandler,
	changePasswordHandler *command.ChangePasswordHandler,
	changeRoleHandler *command.ChangeRoleHandler,
	setStatusHandler *command.SetStatusHandler,
	getUserHandler *query.GetUserHandler,
	listHandler *query.ListUsersHandler,
	statsHandler *query.GetStatsHandler,
) *UserHandler {
	return &UserHandler{
		registerHandler:       registerHandler,
		loginHandler:          loginHandler,
		updateProfileHandler:  updateProfileHandler,
		changePasswordHandler: changePasswordHandler,
		changeRoleHandler:     changeRoleHandler,
		setStatusHandler:      setStatusHandler,
		getUserHandler:        getUserHandler,
		listHandler:           listHandler,
		statsHandler:          statsHandler,
	}
}

func (h *UserHandler) RegisterRoutes(router *mux.Router, authn *middleware.Authenticator) {
	anyUser := authn.RequireRoles()
	admins := authn.RequireRoles(auth.RoleAdmin)

	router.HandleFunc("/auth/login", h.Login).Methods("POST")

	router.HandleFunc("/api/users/me", anyUser(h.GetProfile)).Methods("GET")
	router.HandleFunc("/api/users/me", anyUser(h.UpdateProfile)).Methods("PUT")
	router.HandleFunc("/api/users/me/password", anyUser(h.ChangePassword)).Methods("PUT")

	router.HandleFunc("/api/users", admins(h.ListUsers)).Methods("GET")
	router.HandleFunc("/api/users", admins(h.Register)).Methods("POST")
	router.HandleFunc("/api/users/stats", admins(h.GetStats)).Methods("GET")
	router.HandleFunc("/api/users/{id:[0-9]+}", admins(h.GetUser)).Methods("GET")
	router.HandleFunc("/api/users/{id:[0-9]+}/role", admins(h.ChangeRole)).Methods("PATCH")
	router.HandleFunc("/api/users/{id:[0-9]+}/deactivate", admins(h.setStatus(domain.StatusDeactivated))).Methods("POST")
	router.HandleFunc("/api/users/{id:[0-9]+}/reactivate", admins(h.setStatus(domain.StatusActive))).Methods("POST")
}

// Login godoc
// @Summary Log in
// @Description Exchanges credentials of an active account for a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body object{username=string,password=string} true "Credentials"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := response.Decode(r, &req); err != nil {
		response.Err(w, r, err)
		return
	}

	result, err := h.loginHandler.Handle(r.Context(), command.LoginUserCommand{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "Login successful", result)
}

// Register godoc
// @Summary Create a user account
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{username=string,email=string,password=string,full_name=string,role=string} true "Account"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/users [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
		Role     string `json:"role"`
	}
	if err := response.Decode(r, &req); err != nil {
		response.Err(w, r, err)
		return
	}

	user, err := h.registerHandler.Handle(r.Context(), command.RegisterUserCommand{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusCreated, "User created successfully", user)
}

// GetProfile godoc
// @Summary Get my profile
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/users/me [get]
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFrom(r)
	user, err := h.getUserHandler.Handle(r.Context(), actor.ID)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", user)
}

// UpdateProfile godoc
// @Summary Update my profile
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{email=string,full_name=string} true "Profile fields"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/users/me [put]
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFrom(r)
	var req struct {
		Email    *string `json:"email"`
		FullName *string `json:"full_name"`
	}
	if err := response.Decode(r, &req); err != nil {
		response.Err(w, r, err)
		return
	}

	user, err := h.updateProfileHandler.Handle(r.Context(), command.UpdateProfileCommand{
		UserID:   actor.ID,
		Email:    req.Email,
		FullName: req.FullName,
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "Profile updated successfully", user)
}

// ChangePassword godoc
// @Summary Change my password
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{current_password=string,new_password=string} true "Passwords"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/users/me/password [put]
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFrom(r)
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := response.Decode(r, &req); err != nil {
		response.Err(w, r, err)
		return
	}

	err := h.changePasswordHandler.Handle(r.Context(), command.ChangePasswordCommand{
		UserID:          actor.ID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "Password changed successfully", nil)
}

// ListUsers godoc
// @Summary List users
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param role query string false "admin, manager or cashier"
// @Param status query string false "active or deactivated"
// @Param limit query int false "Limit (default 50, max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Response
// @Router /api/users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := h.listHandler.Handle(r.Context(), query.ListUsersQuery{
		Role:   r.URL.Query().Get("role"),
		Status: r.URL.Query().Get("status"),
		Limit:  response.QueryInt(r, "limit", 0),
		Offset: response.QueryInt(r, "offset", 0),
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", page)
}

// GetUser godoc
// @Summary Get a user
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/users/{id} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	user, err := h.getUserHandler.Handle(r.Context(), id)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", user)
}

// GetStats godoc
// @Summary User statistics
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/users/stats [get]
func (h *UserHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsHandler.Handle(r.Context())
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", stats)
}

// ChangeRole godoc
// @Summary Change a user's role
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body object{role=string} true "New role"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/users/{id}/role [patch]
func (h *UserHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFrom(r)
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	var req struct {
		Role string `json:"role"`
	}
	if err := response.Decode(r, &req); err != nil {
		response.Err(w, r, err)
		return
	}

	user, err := h.changeRoleHandler.Handle(r.Context(), command.ChangeRoleCommand{
		ActorID: actor.ID,
		UserID:  id,
		Role:    req.Role,
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "Role updated successfully", user)
}

// setStatus serves the deactivate and reactivate routes
//
// @Summary Deactivate or reactivate a user
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/users/{id}/deactivate [post]
// @Router /api/users/{id}/reactivate [post]
func (h *UserHandler) setStatus(status string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := middleware.ActorFrom(r)
		id, err := response.PathID(r, "id")
		if err != nil {
			response.Err(w, r, err)
			return
		}

		user, err := h.setStatusHandler.Handle(r.Context(), command.SetStatusCommand{
			ActorID: actor.ID,
			UserID:  id,
			Status:  status,
		})
		if err != nil {
			response.Err(w, r, err)
			return
		}
		response.OK(w, http.StatusOK, "User "+status, user)
	}
}
