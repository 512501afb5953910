package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookhub/internal/core/auth"
	"bookhub/internal/service"
	resp "bookhub/internal/transport/http/response"
)

type AuthHandler struct {
	users *service.UserService
	jwt   *auth.JWTer
}

func NewAuthHandler(users *service.UserService, j *auth.JWTer) *AuthHandler {
	return &AuthHandler{users: users, jwt: j}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var in credentials
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Err(c, http.StatusBadRequest, "invalid request body")
		return
	}
	u, err := h.users.Authenticate(c.Request.Context(), in.Username, in.Password)
	if err != nil {
		resp.FromErr(c, err)
		return
	}
	token, err := h.jwt.Issue(u.ID, u.Roles.Effective())
	if err != nil {
		resp.Err(c, http.StatusInternalServerError, "internal error")
		return
	}
	resp.OK(c, gin.H{"token": token})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var in credentials
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Err(c, http.StatusBadRequest, "invalid request body")
		return
	}
	u, err := h.users.Register(c.Request.Context(), in.Username, in.Password)
	if err != nil {
		resp.FromErr(c, err)
		return
	}
	resp.Created(c, "", gin.H{"id": u.ID, "username": u.Username})
}
