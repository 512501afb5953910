// Package service 业务层。所有写操作接收显式的 acting user，
// 不从任何隐式上下文里取当前用户。
package service

import (
	"context"

	"go.uber.org/zap"

	"bookhub/internal/domain"
	"bookhub/internal/gateway/catalog"
	"bookhub/pkg/utils"
)

// CatalogGateway 外部图书元数据来源；测试里用函数字段 mock 替换
type CatalogGateway interface {
	GetVolume(ctx context.Context, externalID string) (*catalog.Volume, error)
	DownloadImage(ctx context.Context, imageURL, dir string) (string, error)
}

// IngestService 外部条目的去重与入库
type IngestService struct {
	store    domain.Store
	catalog  CatalogGateway
	imageDir string
	log      *zap.Logger
}

func NewIngestService(store domain.Store, gw CatalogGateway, imageDir string, l *zap.Logger) *IngestService {
	return &IngestService{store: store, catalog: gw, imageDir: imageDir, log: l}
}

// Resolution 去重结果：命中已有条目给 ExistingBookID，否则给预填草稿
type Resolution struct {
	ExistingBookID string
	Draft          *domain.Book
}

// Resolve 按 外部 ID → ISBN-13 → 精确标题 的次序查重，任一命中即短路。
// 本地已有该外部 ID 时不访问供应商。在全部外部数据就绪前不落任何本地写。
func (s *IngestService) Resolve(ctx context.Context, externalID string) (*Resolution, error) {
	if externalID == "" {
		return nil, domain.ErrValidation
	}

	if b, err := s.store.Books().FindByExternalID(ctx, externalID); err != nil {
		return nil, err
	} else if b != nil {
		return &Resolution{ExistingBookID: b.ID}, nil
	}

	// 网关故障等同于条目不存在，绝不作为内部错误外泄
	v, err := s.catalog.GetVolume(ctx, externalID)
	if err != nil {
		s.log.Warn("catalog lookup failed, treating entry as absent",
			zap.Error(err), zap.String("external_id", externalID))
		return nil, domain.ErrNotFound
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}

	if isbn := v.ISBN13(); isbn != "" {
		if b, err := s.store.Books().FindByISBN(ctx, isbn); err != nil {
			return nil, err
		} else if b != nil {
			return &Resolution{ExistingBookID: b.ID}, nil
		}
	}

	if b, err := s.store.Books().FindByTitle(ctx, v.Title); err != nil {
		return nil, err
	} else if b != nil {
		return &Resolution{ExistingBookID: b.ID}, nil
	}

	draft := s.buildDraft(ctx, v)
	return &Resolution{Draft: draft}, nil
}

func (s *IngestService) buildDraft(ctx context.Context, v *catalog.Volume) *domain.Book {
	b := &domain.Book{
		Title:         v.Title,
		Author:        v.FirstAuthor(),
		Pages:         v.PageCount,
		Summary:       v.Description,
		Genre:         mapGenre(v.Categories),
		ExternalID:    strPtr(v.ExternalID),
		ISBN13:        strPtr(v.ISBN13()),
		Publisher:     strPtr(v.Publisher),
		PublishedDate: strPtr(v.PublishedDate),
	}

	// 封面拉取失败不致命，草稿不带图即可
	if v.Thumbnail != "" {
		if name, err := s.catalog.DownloadImage(ctx, v.Thumbnail, s.imageDir); err != nil {
			s.log.Warn("cover download failed, continuing without image",
				zap.Error(err), zap.String("external_id", v.ExternalID))
		} else {
			b.ImageFilename = &name
		}
	}
	return b
}

// SubmitDraft 以 acting 为所有者落库；无论提交者是谁都进待审队列
func (s *IngestService) SubmitDraft(ctx context.Context, acting *domain.User, draft *domain.Book) (*domain.Book, error) {
	if acting == nil {
		return nil, domain.ErrUnauthenticated
	}
	draft.ID = utils.NewID()
	draft.OwnerID = acting.ID
	draft.Approved = false
	if err := s.store.Books().Create(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
