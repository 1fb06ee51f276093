package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Rogue-Bear-Innovations/bookmarks-api/internal/db"
	"github.com/Rogue-Bear-Innovations/bookmarks-api/internal/models"
)

type Users struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

func NewUsers(db *gorm.DB, l *zap.SugaredLogger) *Users {
	return &Users{
		db:     db,
		logger: l,
	}
}

func (s *Users) Get(ctx context.Context, userID uint64) (*db.User, error) {
	user := db.User{}
	if err := findUser(s.db.WithContext(ctx), userID, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Edit applies the fields present in req. Names may be cleared with null,
// email may not.
func (s *Users) Edit(ctx context.Context, userID uint64, req models.EditUserReq) (*db.User, error) {
	updates := map[string]interface{}{}
	if req.Email.Set {
		if req.Email.Null || req.Email.Value == "" {
			return nil, errors.Wrap(ErrInvalidInput, "email cannot be empty")
		}
		updates["email"] = normalizeEmail(req.Email.Value)
	}
	setOptional(updates, "first_name", req.FirstName)
	setOptional(updates, "last_name", req.LastName)

	user := db.User{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findUser(tx, userID, &user); err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}

		if email, ok := updates["email"].(string); ok && email != user.Email {
			taken, err := emailTaken(tx, email, user.ID)
			if err != nil {
				return err
			}
			if taken {
				return ErrEmailTaken
			}
		}

		res := tx.Model(&user).Updates(updates)
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
				return ErrEmailTaken
			}
			return errors.Wrap(res.Error, "update user")
		}

		user = db.User{}
		return findUser(tx, userID, &user)
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func findUser(tx *gorm.DB, userID uint64, user *db.User) error {
	res := tx.Take(user, userID)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return errors.Wrap(res.Error, "find user")
	}
	return nil
}

func setOptional(updates map[string]interface{}, column string, o models.Optional[string]) {
	if !o.Set {
		return
	}
	updates[column] = o.Ptr()
}
