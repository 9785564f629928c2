package handler

import (
	"user_management_backend/internal/admin/service"
	"user_management_backend/internal/admin/transport"
	"user_management_backend/internal/auth/authz"
	"user_management_backend/platform/apperr"
	"user_management_backend/platform/httpkit"
	"user_management_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	svc *service.Service
}

const (
	msgInvalidRequest  = "Invalid request body"
	msgInvalidQuery    = "Invalid query parameters"
	msgUserNotFound    = "User not found"
	msgSelfStatus      = "Cannot modify your own status"
	msgSelfDeactivate  = "Cannot deactivate your own account"
	msgSelfRole        = "Cannot change your own role"
	msgUsersRetrieved  = "Users retrieved successfully"
	msgUserActivated   = "User activated successfully"
	msgUserDeactivated = "User deactivated successfully"
	msgRoleUpdated     = "User role updated successfully"
)

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/users", h.ListUsers)
	rg.GET("/users/:id", h.GetUser)
	rg.PUT("/users/:id/activate", h.ActivateUser)
	rg.PUT("/users/:id/deactivate", h.DeactivateUser)
	rg.PUT("/users/:id/role", h.UpdateRole)
}

func (h *Handler) ListUsers(c *gin.Context) {
	var query transport.ListUsersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httpkit.HandleError(c, validator.BindingError(err, msgInvalidQuery, c.Request.URL.Query()))
		return
	}
	if err := validator.Validate.Struct(query); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	page, err := h.svc.GetAllUsers(c.Request.Context(), query.Page, query.Limit)
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.UserResponse, 0, len(page.Users))
	for _, u := range page.Users {
		items = append(items, transport.NewUserResponse(u))
	}

	httpkit.Paginated(c, items, httpkit.Pagination{
		Page:       page.Page,
		Limit:      page.Limit,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	}, msgUsersRetrieved)
}

func (h *Handler) GetUser(c *gin.Context) {
	id, ok := targetID(c)
	if !ok {
		return
	}

	profile, err := h.svc.GetUserByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.NewUserResponse(profile), "")
}

func (h *Handler) ActivateUser(c *gin.Context) {
	id, ok := targetID(c)
	if !ok || rejectSelf(c, id, msgSelfStatus) {
		return
	}

	profile, err := h.svc.ActivateUser(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.NewUserSummary(profile), msgUserActivated)
}

func (h *Handler) DeactivateUser(c *gin.Context) {
	id, ok := targetID(c)
	if !ok || rejectSelf(c, id, msgSelfDeactivate) {
		return
	}

	profile, err := h.svc.DeactivateUser(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.NewUserSummary(profile), msgUserDeactivated)
}

func (h *Handler) UpdateRole(c *gin.Context) {
	id, ok := targetID(c)
	if !ok || rejectSelf(c, id, msgSelfRole) {
		return
	}

	var req transport.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, validator.BindingError(err, msgInvalidRequest, nil))
		return
	}
	if err := validator.Validate.Struct(req); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	profile, err := h.svc.UpdateUserRole(c.Request.Context(), id, req.Role)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.NewUserSummary(profile), msgRoleUpdated)
}

// targetID parses :id. An id that is not a UUID cannot match any user.
func targetID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.HandleError(c, apperr.NotFound(apperr.CodeNotFound, msgUserNotFound))
		return uuid.Nil, false
	}
	return id, true
}

// rejectSelf stops an admin from changing their own account. It runs before
// the service so storage is never touched.
func rejectSelf(c *gin.Context, target uuid.UUID, message string) bool {
	authCtx, ok := authz.FromContext(c)
	if !ok {
		httpkit.HandleError(c, apperr.Unauthorized(apperr.CodeAuthRequired, "Authentication required"))
		return true
	}
	if authCtx.ID == target {
		httpkit.HandleError(c, apperr.BadRequest(apperr.CodeSelfModification, message))
		return true
	}
	return false
}
