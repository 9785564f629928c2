package handler

import (
	"user_management_backend/internal/auth/authz"
	"user_management_backend/internal/profile/service"
	"user_management_backend/internal/profile/transport"
	"user_management_backend/platform/apperr"
	"user_management_backend/platform/httpkit"
	"user_management_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *service.Service
}

const msgInvalidRequest = "Invalid request body"

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.GetProfile)
	rg.PUT("/me", h.UpdateProfile)
	rg.PUT("/me/password", h.UpdatePassword)
}

func (h *Handler) GetProfile(c *gin.Context) {
	authCtx, ok := authz.FromContext(c)
	if !ok {
		httpkit.HandleError(c, apperr.Unauthorized(apperr.CodeAuthRequired, "Authentication required"))
		return
	}

	profile, err := h.svc.GetProfile(c.Request.Context(), authCtx.ID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.NewProfileResponse(profile), "")
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	authCtx, ok := authz.FromContext(c)
	if !ok {
		httpkit.HandleError(c, apperr.Unauthorized(apperr.CodeAuthRequired, "Authentication required"))
		return
	}

	var req transport.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, validator.BindingError(err, msgInvalidRequest, nil))
		return
	}
	req.Normalize()
	if err := validator.Validate.Struct(req); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	profile, err := h.svc.UpdateProfile(c.Request.Context(), authCtx.ID, req.ToUpdate())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.NewUpdatedProfileResponse(profile), "Profile updated successfully")
}

func (h *Handler) UpdatePassword(c *gin.Context) {
	authCtx, ok := authz.FromContext(c)
	if !ok {
		httpkit.HandleError(c, apperr.Unauthorized(apperr.CodeAuthRequired, "Authentication required"))
		return
	}

	var req transport.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, validator.BindingError(err, msgInvalidRequest, nil))
		return
	}
	if err := validator.Validate.Struct(req); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	if err := h.svc.UpdatePassword(c.Request.Context(), authCtx.ID, req.CurrentPassword, req.NewPassword); httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, nil, "Password updated successfully")
}
