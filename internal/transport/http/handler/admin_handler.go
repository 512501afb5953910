package handler

import (
	"github.com/gin-gonic/gin"

	"bookhub/internal/service"
	resp "bookhub/internal/transport/http/response"
)

// AdminHandler 审核面：待审队列、批准/退回/下架、用户管理
type AdminHandler struct {
	mod   *service.ModerationService
	users *service.UserService
}

func NewAdminHandler(mod *service.ModerationService, users *service.UserService) *AdminHandler {
	return &AdminHandler{mod: mod, users: users}
}

func (h *AdminHandler) PendingBooks(c *gin.Context) {
	acting, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	books, err := h.mod.PendingBooks(c.Request.Context(), acting)
	if err != nil {
		resp.FromErr(c, err)
		return
	}
	resp.OK(c, gin.H{"books": books})
}

func (h *AdminHandler) PendingReviews(c *gin.Context) {
	acting, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	reviews, err := h.mod.PendingReviews(c.Request.Context(), acting)
	if err != nil {
		resp.FromErr(c, err)
		return
	}
	resp.OK(c, gin.H{"reviews": reviews})
}

func (h *AdminHandler) ApproveBook(c *gin.Context) {
	acting, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	if err := h.mod.ApproveBook(c.Request.Context(), acting, c.Param("id")); err != nil {
		resp.FromErr(c, err)
		return
	}
	resp.OK(c, gin.H{"approved": true})
}

func (h *AdminHandler) ApproveReview(c *gin.Context) {
	acting, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	if err := h.mod.ApproveReview(c.Request.Context(), acting, c.Param("id")); err != nil {
		resp.FromErr(c, err)
		return
	}
	resp.OK(c, gin.H{"approved": true})
}

func (h *AdminHandler) RejectBook(c *gin.Context) {
	acting, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	if err := h.mod.RejectBook(c.Request.Context(), acting, c.Param("id")); err != nil {
		resp.FromErr(c, err)
		return
	}
	resp.OK(c, gin.H{"rejected": true})
}

func (h *AdminHandler) RejectReview(c *gin.Context) {
	acting, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	if err := h.mod.RejectReview(c.Request.Context(), acting, c.Param("id")); err != nil {
		resp.FromErr(c, err)
		return
	}
	resp.OK(c, gin.H{"rejected": true})
}

func (h *AdminHandler) DeleteBook(c *gin.Context) {
	acting, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	if err := h.mod.DeleteBook(c.Request.Context(), acting, c.Param("id")); err != nil {
		resp.FromErr(c, err)
		return
	}
	resp.OK(c, gin.H{"deleted": true})
}

func (h *AdminHandler) DeleteReview(c *gin.Context) {
	acting, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	if err := h.mod.DeleteReview(c.Request.Context(), acting, c.Param("id")); err != nil {
		resp.FromErr(c, err)
		return
	}
	resp.OK(c, gin.H{"deleted": true})
}

func (h *AdminHandler) Users(c *gin.Context) {
	users, err := h.users.SearchByUsername(c.Request.Context(), c.Query("search"))
	if err != nil {
		resp.FromErr(c, err)
		return
	}
	resp.OK(c, gin.H{"users": users})
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	acting, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	if err := h.mod.DeleteUser(c.Request.Context(), acting, c.Param("id")); err != nil {
		resp.FromErr(c, err)
		return
	}
	resp.OK(c, gin.H{"deleted": true})
}

func (h *AdminHandler) Promote(c *gin.Context) {
	acting, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	if err := h.mod.Promote(c.Request.Context(), acting, c.Param("id")); err != nil {
		resp.FromErr(c, err)
		return
	}
	resp.OK(c, gin.H{"promoted": true})
}
