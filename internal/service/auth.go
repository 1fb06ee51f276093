package service

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Rogue-Bear-Innovations/bookmarks-api/internal/config"
	"github.com/Rogue-Bear-Innovations/bookmarks-api/internal/db"
	"github.com/Rogue-Bear-Innovations/bookmarks-api/internal/token"
)

type Auth struct {
	db         *gorm.DB
	tokens     *token.Issuer
	bcryptCost int
	logger     *zap.SugaredLogger
}

func NewAuth(db *gorm.DB, tokens *token.Issuer, cfg *config.Config, l *zap.SugaredLogger) *Auth {
	return &Auth{
		db:         db,
		tokens:     tokens,
		bcryptCost: cfg.BcryptCost,
		logger:     l,
	}
}

// Signup stores a new user and returns an access token for it.
func (s *Auth) Signup(ctx context.Context, email, pass string) (string, error) {
	email = normalizeEmail(email)

	taken, err := emailTaken(s.db.WithContext(ctx), email, 0)
	if err != nil {
		return "", err
	}
	if taken {
		return "", ErrEmailTaken
	}

	hash, err := s.bcryptGen(pass)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", errors.Wrap(ErrInvalidInput, "password is longer than 72 bytes")
		}
		return "", errors.Wrap(err, "bcryptGen")
	}

	user := db.User{
		Email: email,
		Hash:  hash,
	}
	res := s.db.WithContext(ctx).Create(&user)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return "", ErrEmailTaken
		}
		return "", errors.Wrap(res.Error, "create user")
	}

	s.logger.Infow("user signed up", "user_id", user.ID)

	return s.tokens.Issue(user.ID, user.Email)
}

// Signin checks the credentials and returns a fresh access token. Unknown
// email and wrong password are reported the same way.
func (s *Auth) Signin(ctx context.Context, email, pass string) (string, error) {
	user := db.User{}
	res := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).Take(&user)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", errors.Wrap(res.Error, "find user")
	}

	if err := s.bcryptCheck(user.Hash, pass); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.tokens.Issue(user.ID, user.Email)
}

// Authenticate resolves an access token to the user it was issued for.
func (s *Auth) Authenticate(ctx context.Context, tokenString string) (*db.User, error) {
	userID, err := s.tokens.Parse(tokenString)
	if err != nil {
		return nil, errors.Wrap(ErrUnauthenticated, err.Error())
	}

	user := db.User{}
	res := s.db.WithContext(ctx).Take(&user, userID)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, errors.Wrap(ErrUnauthenticated, "token subject does not exist")
		}
		return nil, errors.Wrap(res.Error, "find user")
	}

	return &user, nil
}

func (s *Auth) bcryptGen(pass string) (string, error) {
	passwordHashB, err := bcrypt.GenerateFromPassword([]byte(pass), s.bcryptCost)
	if err != nil {
		return "", errors.Wrap(err, "generate password hash")
	}
	return string(passwordHashB), nil
}

func (s *Auth) bcryptCheck(hash, pass string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pass))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// emailTaken reports whether a user other than exceptID owns email.
func emailTaken(tx *gorm.DB, email string, exceptID uint64) (bool, error) {
	var count int64
	q := tx.Model(&db.User{}).Where("email = ?", email)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if res := q.Count(&count); res.Error != nil {
		return false, errors.Wrap(res.Error, "count users by email")
	}
	return count > 0, nil
}
