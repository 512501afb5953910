package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookhub/internal/service"
	resp "bookhub/internal/transport/http/response"
)

type MeHandler struct {
	users *service.UserService
}

func NewMeHandler(users *service.UserService) *MeHandler {
	return &MeHandler{users: users}
}

func (h *MeHandler) Me(c *gin.Context) {
	acting, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	// 绑定了外部账号就顺手续一下 token，失败不影响响应
	_ = h.users.EnsureFreshToken(c.Request.Context(), acting)
	resp.OK(c, gin.H{"user": acting, "provider_connected": acting.ProviderConnected()})
}

func (h *MeHandler) Notifications(c *gin.Context) {
	acting, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	ns, err := h.users.Notifications(c.Request.Context(), acting)
	if err != nil {
		resp.FromErr(c, err)
		return
	}
	resp.OK(c, gin.H{"notifications": ns})
}

func (h *MeHandler) MarkNotificationRead(c *gin.Context) {
	acting, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	if err := h.users.MarkNotificationRead(c.Request.Context(), acting, c.Param("id")); err != nil {
		resp.FromErr(c, err)
		return
	}
	resp.OK(c, gin.H{"read": true})
}

func (h *MeHandler) ConnectProvider(c *gin.Context) {
	acting, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	var in struct {
		ProviderID string `json:"provider_id"`
		Code       string `json:"code"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Err(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.users.ConnectProvider(c.Request.Context(), acting, in.ProviderID, in.Code); err != nil {
		resp.FromErr(c, err)
		return
	}
	resp.OK(c, gin.H{"connected": true})
}

func (h *MeHandler) DisconnectProvider(c *gin.Context) {
	acting, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	if err := h.users.DisconnectProvider(c.Request.Context(), acting); err != nil {
		resp.FromErr(c, err)
		return
	}
	resp.OK(c, gin.H{"connected": false})
}
