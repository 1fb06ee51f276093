package models

import (
	"strings"
	"time"

	"github.com/Rogue-Bear-Innovations/bookmarks-api/internal/db"
)

type (
	AuthReq struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,max=72"`
	}

	TokenResp struct {
		AccessToken string `json:"access_token"`
	}

	EditUserReq struct {
		Email     Optional[string] `json:"email"`
		FirstName Optional[string] `json:"firstName"`
		LastName  Optional[string] `json:"lastName"`
	}

	UserResp struct {
		ID        uint64    `json:"id"`
		Email     string    `json:"email"`
		FirstName *string   `json:"firstName"`
		LastName  *string   `json:"lastName"`
		CreatedAt time.Time `json:"createdAt"`
		UpdatedAt time.Time `json:"updatedAt"`
	}

	CreateBookmarkReq struct {
		Title       string  `json:"title" validate:"required"`
		Description *string `json:"description"`
		Link        string  `json:"link" validate:"required,link"`
	}

	EditBookmarkReq struct {
		Title       Optional[string] `json:"title"`
		Description Optional[string] `json:"description"`
		Link        Optional[string] `json:"link"`
	}

	BookmarkResp struct {
		ID          uint64    `json:"id"`
		Title       string    `json:"title"`
		Description *string   `json:"description"`
		Link        string    `json:"link"`
		UserID      uint64    `json:"userId"`
		CreatedAt   time.Time `json:"createdAt"`
		UpdatedAt   time.Time `json:"updatedAt"`
	}
)

// Normalize trims the email so validation sees what gets stored.
func (r *AuthReq) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

func (r *EditUserReq) Normalize() {
	if r.Email.Set && !r.Email.Null {
		r.Email.Value = strings.TrimSpace(r.Email.Value)
	}
}

func NewUserResp(u *db.User) UserResp {
	return UserResp{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func NewBookmarkResp(b *db.Bookmark) BookmarkResp {
	return BookmarkResp{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		Link:        b.Link,
		UserID:      b.UserID,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func NewBookmarkRespList(bookmarks []db.Bookmark) []BookmarkResp {
	resp := make([]BookmarkResp, len(bookmarks))
	for i := range bookmarks {
		resp[i] = NewBookmarkResp(&bookmarks[i])
	}
	return resp
}
