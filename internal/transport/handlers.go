package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Rogue-Bear-Innovations/bookmarks-api/internal/models"
)

func (s *HTTPServer) Signup(c echo.Context) error {
	req := models.AuthReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	tok, err := s.auth.Signup(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, models.TokenResp{AccessToken: tok})
}

func (s *HTTPServer) Signin(c echo.Context) error {
	req := models.AuthReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	tok, err := s.auth.Signin(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.TokenResp{AccessToken: tok})
}

func (s *HTTPServer) GetMe(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	fresh, err := s.users.Get(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.NewUserResp(fresh))
}

func (s *HTTPServer) EditUser(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	req := models.EditUserReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	updated, err := s.users.Edit(c.Request().Context(), user.ID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.NewUserResp(updated))
}

func (s *HTTPServer) BookmarkList(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	bookmarks, err := s.bookmarks.List(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.NewBookmarkRespList(bookmarks))
}

func (s *HTTPServer) BookmarkCreate(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	req := models.CreateBookmarkReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	model, err := s.bookmarks.Create(c.Request().Context(), user.ID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, models.NewBookmarkResp(model))
}

func (s *HTTPServer) BookmarkGet(c echo.Context) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	model, err := s.bookmarks.Get(c.Request().Context(), user.ID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.NewBookmarkResp(model))
}

func (s *HTTPServer) BookmarkUpdate(c echo.Context) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	req := models.EditBookmarkReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	model, err := s.bookmarks.Edit(c.Request().Context(), user.ID, id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.NewBookmarkResp(model))
}

func (s *HTTPServer) BookmarkDelete(c echo.Context) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	if err := s.bookmarks.Delete(c.Request().Context(), user.ID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
