package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookhub/internal/core/auth"
	"bookhub/internal/domain"
	"bookhub/internal/gateway/catalog"
	"bookhub/internal/service"
	resp "bookhub/internal/transport/http/response"
)

type BookHandler struct {
	books   *service.BookService
	ingest  *service.IngestService
	users   *service.UserService
	catalog *catalog.Client
	jwt     *auth.JWTer
	log     *zap.Logger
}

func NewBookHandler(books *service.BookService, ingest *service.IngestService, users *service.UserService, cat *catalog.Client, j *auth.JWTer, l *zap.Logger) *BookHandler {
	return &BookHandler{books: books, ingest: ingest, users: users, catalog: cat, jwt: j, log: l}
}

// optionalUser 公开路由上带了合法 token 就识别身份，没带不算错
func (h *BookHandler) optionalUser(c *gin.Context) *domain.User {
	ah := c.GetHeader("Authorization")
	if !strings.HasPrefix(ah, "Bearer ") {
		return nil
	}
	claims, err := h.jwt.Parse(strings.TrimPrefix(ah, "Bearer "))
	if err != nil {
		return nil
	}
	u, err := h.users.Get(c.Request.Context(), claims.UID)
	if err != nil {
		return nil
	}
	return u
}

// Search 外部目录检索。网关故障降级为空结果页，不回 500。
func (h *BookHandler) Search(c *gin.Context) {
	q := c.Query("q")
	kind := catalog.Kind(c.Query("type"))
	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", 10)

	var filters *catalog.Filters
	if p := c.Query("pages"); p != "" {
		filters = &catalog.Filters{Pages: p}
	}

	out, err := h.catalog.Search(c.Request.Context(), q, kind, page, perPage, filters)
	if err != nil {
		if errors.Is(err, catalog.ErrEmptyQuery) {
			resp.Err(c, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Warn("catalog search degraded to empty result", zap.Error(err))
		out = &catalog.SearchResult{Items: []catalog.Volume{}, Page: page, PageSize: perPage}
	}
	resp.OK(c, out)
}

type submitBookRequest struct {
	ExternalID string `json:"external_id"`
	service.BookInput
}

// Submit 两条投稿路径：带 external_id 走去重入库，否则手工字段。
// 去重命中返回 200 和已有条目的 id，不会产生重复记录。
func (h *BookHandler) Submit(c *gin.Context) {
	acting, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	var in submitBookRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Err(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if in.ExternalID != "" {
		res, err := h.ingest.Resolve(c.Request.Context(), in.ExternalID)
		if err != nil {
			resp.FromErr(c, err)
			return
		}
		if res.ExistingBookID != "" {
			resp.OK(c, gin.H{"existing_book_id": res.ExistingBookID})
			return
		}
		b, err := h.ingest.SubmitDraft(c.Request.Context(), acting, res.Draft)
		if err != nil {
			resp.FromErr(c, err)
			return
		}
		resp.Created(c, "/api/v1/books/"+b.ID, gin.H{"book": b})
		return
	}

	b, err := h.books.SubmitManual(c.Request.Context(), acting, in.BookInput)
	if err != nil {
		resp.FromErr(c, err)
		return
	}
	resp.Created(c, "/api/v1/books/"+b.ID, gin.H{"book": b})
}

func (h *BookHandler) List(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 10)
	out, err := h.books.ListApproved(c.Request.Context(), c.Query("genre"), page, limit)
	if err != nil {
		resp.FromErr(c, err)
		return
	}
	resp.OK(c, out)
}

// Get 本地查不到时把 id 当外部目录 id 透传一次详情
func (h *BookHandler) Get(c *gin.Context) {
	id := c.Param("id")
	acting := h.optionalUser(c)

	b, err := h.books.Get(c.Request.Context(), acting, id)
	if err == nil {
		resp.OK(c, gin.H{"book": b})
		return
	}
	if !errors.Is(err, domain.ErrNotFound) {
		resp.FromErr(c, err)
		return
	}

	v, verr := h.catalog.GetVolume(c.Request.Context(), id)
	if verr == nil && v != nil {
		resp.OK(c, gin.H{"volume": v})
		return
	}
	resp.Err(c, http.StatusNotFound, "not found")
}

func (h *BookHandler) Update(c *gin.Context) {
	acting, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	var in service.BookInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Err(c, http.StatusBadRequest, "invalid request body")
		return
	}
	b, err := h.books.Update(c.Request.Context(), acting, c.Param("id"), in)
	if err != nil {
		resp.FromErr(c, err)
		return
	}
	resp.OK(c, gin.H{"book": b})
}

func (h *BookHandler) Delete(c *gin.Context) {
	acting, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	if err := h.books.Delete(c.Request.Context(), acting, c.Param("id")); err != nil {
		resp.FromErr(c, err)
		return
	}
	resp.OK(c, gin.H{"deleted": true})
}

func (h *BookHandler) EditorialReviews(c *gin.Context) {
	reviews, err := h.books.EditorialReviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		resp.FromErr(c, err)
		return
	}
	resp.OK(c, gin.H{"reviews": reviews})
}
