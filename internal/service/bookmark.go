package service

import (
	"context"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Rogue-Bear-Innovations/bookmarks-api/internal/db"
	"github.com/Rogue-Bear-Innovations/bookmarks-api/internal/models"
)

type Bookmarks struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

func NewBookmarks(db *gorm.DB, l *zap.SugaredLogger) *Bookmarks {
	return &Bookmarks{
		db:     db,
		logger: l,
	}
}

// List returns the user's bookmarks in insertion order.
func (s *Bookmarks) List(ctx context.Context, userID uint64) ([]db.Bookmark, error) {
	sql, args, err := squirrel.
		Select("id", "created_at", "updated_at", "title", "description", "link", "user_id").
		From("bookmarks").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build sql")
	}

	bookmarks := make([]db.Bookmark, 0)
	res := s.db.WithContext(ctx).Raw(sql, args...).Scan(&bookmarks)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "scan")
	}

	return bookmarks, nil
}

func (s *Bookmarks) Create(ctx context.Context, userID uint64, req models.CreateBookmarkReq) (*db.Bookmark, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Link) == "" {
		return nil, errors.Wrap(ErrInvalidInput, "title and link are required")
	}

	model := db.Bookmark{
		Title:       req.Title,
		Description: req.Description,
		Link:        strings.TrimSpace(req.Link),
		UserID:      userID,
	}

	res := s.db.WithContext(ctx).Create(&model)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "create bookmark")
	}

	return &model, nil
}

func (s *Bookmarks) Get(ctx context.Context, userID, bookmarkID uint64) (*db.Bookmark, error) {
	model := db.Bookmark{}
	if err := findBookmark(s.db.WithContext(ctx), userID, bookmarkID, &model); err != nil {
		return nil, err
	}
	return &model, nil
}

// Edit applies the fields present in req to a bookmark owned by userID.
// Description may be cleared with null, title and link may not.
func (s *Bookmarks) Edit(ctx context.Context, userID, bookmarkID uint64, req models.EditBookmarkReq) (*db.Bookmark, error) {
	updates := map[string]interface{}{}
	if req.Title.Set {
		if req.Title.Null || strings.TrimSpace(req.Title.Value) == "" {
			return nil, errors.Wrap(ErrInvalidInput, "title cannot be empty")
		}
		updates["title"] = req.Title.Value
	}
	if req.Link.Set {
		if req.Link.Null || strings.TrimSpace(req.Link.Value) == "" {
			return nil, errors.Wrap(ErrInvalidInput, "link cannot be empty")
		}
		updates["link"] = strings.TrimSpace(req.Link.Value)
	}
	setOptional(updates, "description", req.Description)

	model := db.Bookmark{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findBookmark(tx, userID, bookmarkID, &model); err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}

		res := tx.Model(&model).Updates(updates)
		if res.Error != nil {
			return errors.Wrap(res.Error, "update model")
		}

		model = db.Bookmark{}
		return findBookmark(tx, userID, bookmarkID, &model)
	})
	if err != nil {
		return nil, err
	}

	return &model, nil
}

func (s *Bookmarks) Delete(ctx context.Context, userID, bookmarkID uint64) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", bookmarkID, userID).
		Delete(&db.Bookmark{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete bookmark")
	}
	if res.RowsAffected == 0 {
		return ErrBookmarkNotFound
	}

	s.logger.Debugw("bookmark deleted", "user_id", userID, "bookmark_id", bookmarkID)

	return nil
}

func findBookmark(tx *gorm.DB, userID, bookmarkID uint64, model *db.Bookmark) error {
	res := tx.Where("id = ? AND user_id = ?", bookmarkID, userID).Take(model)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return ErrBookmarkNotFound
		}
		return errors.Wrap(res.Error, "get model")
	}
	return nil
}
