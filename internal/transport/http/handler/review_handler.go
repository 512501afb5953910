package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookhub/internal/domain"
	"bookhub/internal/service"
	resp "bookhub/internal/transport/http/response"
)

type ReviewHandler struct {
	reviews *service.ReviewService
	users   *service.UserService
}

func NewReviewHandler(reviews *service.ReviewService, users *service.UserService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, users: users}
}

func (h *ReviewHandler) List(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 10)
	out, err := h.reviews.ListPage(c.Request.Context(), domain.ReviewFilter{}, page, limit)
	if err != nil {
		resp.FromErr(c, err)
		return
	}
	resp.OK(c, out)
}

func (h *ReviewHandler) Get(c *gin.Context) {
	r, err := h.reviews.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		resp.FromErr(c, err)
		return
	}
	resp.OK(c, gin.H{"review": r})
}

func (h *ReviewHandler) ListForBook(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 10)
	out, err := h.reviews.ListForBook(c.Request.Context(), c.Param("id"), "", page, limit)
	if err != nil {
		resp.FromErr(c, err)
		return
	}
	resp.OK(c, out)
}

func (h *ReviewHandler) ListForUser(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 10)
	f := domain.ReviewFilter{OwnerID: c.Param("userId")}
	out, err := h.reviews.ListPage(c.Request.Context(), f, page, limit)
	if err != nil {
		resp.FromErr(c, err)
		return
	}
	resp.OK(c, out)
}

func (h *ReviewHandler) ListForBookUser(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 10)
	out, err := h.reviews.ListForBook(c.Request.Context(), c.Param("id"), c.Param("userId"), page, limit)
	if err != nil {
		resp.FromErr(c, err)
		return
	}
	resp.OK(c, out)
}

func (h *ReviewHandler) Create(c *gin.Context) {
	acting, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	var in service.ReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Err(c, http.StatusBadRequest, "invalid request body")
		return
	}
	r, err := h.reviews.Create(c.Request.Context(), acting, c.Param("id"), in)
	if err != nil {
		resp.FromErr(c, err)
		return
	}
	resp.Created(c, "/api/v1/reviews/"+r.ID, gin.H{"review": r})
}

func (h *ReviewHandler) Update(c *gin.Context) {
	acting, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	var in service.ReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Err(c, http.StatusBadRequest, "invalid request body")
		return
	}
	r, err := h.reviews.Update(c.Request.Context(), acting, c.Param("id"), c.Param("reviewId"), in)
	if err != nil {
		resp.FromErr(c, err)
		return
	}
	resp.OK(c, gin.H{"review": r})
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	acting, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	if err := h.reviews.Delete(c.Request.Context(), acting, c.Param("id"), c.Param("reviewId")); err != nil {
		resp.FromErr(c, err)
		return
	}
	resp.OK(c, gin.H{"deleted": true})
}

func (h *ReviewHandler) Vote(c *gin.Context) {
	var in struct {
		Direction string `json:"direction"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Err(c, http.StatusBadRequest, "invalid request body")
		return
	}
	r, err := h.reviews.Vote(c.Request.Context(), c.Param("id"), domain.VoteDirection(in.Direction))
	if err != nil {
		resp.FromErr(c, err)
		return
	}
	resp.OK(c, gin.H{"upvotes": r.Upvotes, "downvotes": r.Downvotes})
}
