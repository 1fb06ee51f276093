package transport

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Rogue-Bear-Innovations/bookmarks-api/internal/config"
	"github.com/Rogue-Bear-Innovations/bookmarks-api/internal/db/dbtest"
	"github.com/Rogue-Bear-Innovations/bookmarks-api/internal/models"
	"github.com/Rogue-Bear-Innovations/bookmarks-api/internal/service"
	"github.com/Rogue-Bear-Innovations/bookmarks-api/internal/token"
)

func TestCensorBody(t *testing.T) {
	b := `{
		"email": "email@email.com",
		"password": "123456789123"
	}`

	got := censorBody([]byte(b))
	assert.JSONEq(t, `{
		"email": "email@email.com",
		"password": "$censored"
	}`, string(got))
}

func TestCensorBodyPassThrough(t *testing.T) {
	assert.Equal(t, "not json", string(censorBody([]byte("not json"))))
	assert.Equal(t, `[1,2]`, string(censorBody([]byte(`[1,2]`))))
	assert.Equal(t, `{"title":"x"}`, string(censorBody([]byte(`{"title":"x"}`))))
}

func TestIsLink(t *testing.T) {
	valid := []string{
		"www.google.com",
		"https://example.com/a?b=c",
		"localhost:3000",
		"http://localhost",
		"example.com/path",
		"http://127.0.0.1:8080/x",
		"https://user@example.com",
	}
	for _, link := range valid {
		assert.True(t, isLink(link), link)
	}

	invalid := []string{
		"",
		"   ",
		"not a link",
		"http://",
		"://nohost",
		"mailto:x@y.com",
		"x@y.com",
		"a",
		"http://a",
		"com.",
	}
	for _, link := range invalid {
		assert.False(t, isLink(link), link)
	}
}

func newTestClient(t *testing.T) *resty.Client {
	t.Helper()

	gdb := dbtest.New(t)
	l := zap.NewNop().Sugar()
	cfg := &config.Config{
		BcryptCost:       bcrypt.MinCost,
		CORSAllowOrigins: []string{"*"},
	}
	tokens := token.New([]byte("secret"), time.Minute)

	srv := New(cfg,
		service.NewAuth(gdb, tokens, cfg, l),
		service.NewUsers(gdb, l),
		service.NewBookmarks(gdb, l),
		l,
	)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	return resty.New().
		SetBaseURL(ts.URL).
		SetHeader("Content-Type", "application/json")
}

func signup(t *testing.T, cl *resty.Client, email string) string {
	t.Helper()

	resp, err := cl.R().
		SetBody(models.AuthReq{Email: email, Password: "123"}).
		SetResult(&models.TokenResp{}).
		Post("/auth/signup")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode())

	got := resp.Result().(*models.TokenResp)
	require.NotEmpty(t, got.AccessToken)
	return got.AccessToken
}

func TestAuthEndpoints(t *testing.T) {
	cl := newTestClient(t)

	badBodies := map[string]string{
		"no email":      `{"password": "123"}`,
		"no password":   `{"email": "d@gmail.com"}`,
		"no body":       ``,
		"bad email":     `{"email": "nope", "password": "123"}`,
		"unknown key":   `{"email": "d@gmail.com", "password": "123", "admin": true}`,
		"broken json":   `{"email": `,
		"wrong type":    `{"email": 5, "password": "123"}`,
		"trailing":      `{"email": "d@gmail.com", "password": "123"} {}`,
		"empty object":  `{}`,
		"long password": `{"email": "long@gmail.com", "password": "` + strings.Repeat("a", 80) + `"}`,
	}
	for _, path := range []string{"/auth/signup", "/auth/signin"} {
		for name, body := range badBodies {
			t.Run(path+" "+name, func(t *testing.T) {
				resp, err := cl.R().SetBody(body).SetError(&ErrorResp{}).Post(path)
				require.NoError(t, err)
				assert.Equal(t, http.StatusBadRequest, resp.StatusCode())

				got := resp.Error().(*ErrorResp)
				assert.Equal(t, "BAD_REQUEST", got.Code)
				assert.Equal(t, http.StatusBadRequest, got.Status)
			})
		}
	}

	t.Run("signup", func(t *testing.T) {
		signup(t, cl, "d@gmail.com")
	})

	t.Run("signup duplicate", func(t *testing.T) {
		resp, err := cl.R().
			SetBody(models.AuthReq{Email: "d@gmail.com", Password: "123"}).
			Post("/auth/signup")
		require.NoError(t, err)
		assert.Equal(t, http.StatusConflict, resp.StatusCode())
	})

	t.Run("signup password at bcrypt limit", func(t *testing.T) {
		resp, err := cl.R().
			SetBody(models.AuthReq{Email: "max@gmail.com", Password: strings.Repeat("a", 72)}).
			Post("/auth/signup")
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode())
	})

	t.Run("signin", func(t *testing.T) {
		resp, err := cl.R().
			SetBody(models.AuthReq{Email: "d@gmail.com", Password: "123"}).
			SetResult(&models.TokenResp{}).
			Post("/auth/signin")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode())
		assert.NotEmpty(t, resp.Result().(*models.TokenResp).AccessToken)
	})

	t.Run("signin wrong password", func(t *testing.T) {
		resp, err := cl.R().
			SetBody(models.AuthReq{Email: "d@gmail.com", Password: "1234"}).
			Post("/auth/signin")
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
	})

	t.Run("signin unknown email", func(t *testing.T) {
		resp, err := cl.R().
			SetBody(models.AuthReq{Email: "x@gmail.com", Password: "123"}).
			Post("/auth/signin")
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
	})
}

func TestBearerRequired(t *testing.T) {
	cl := newTestClient(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/users/me"},
		{http.MethodPatch, "/users"},
		{http.MethodGet, "/bookmarks"},
		{http.MethodPost, "/bookmarks"},
		{http.MethodGet, "/bookmarks/1"},
		{http.MethodPatch, "/bookmarks/1"},
		{http.MethodDelete, "/bookmarks/1"},
	}
	headers := map[string]string{
		"none":    "",
		"garbage": "Bearer garbage",
		"basic":   "Basic Zm9vOmJhcg==",
	}

	for _, r := range routes {
		for name, header := range headers {
			t.Run(fmt.Sprintf("%s %s %s", r.method, r.path, name), func(t *testing.T) {
				req := cl.R()
				if header != "" {
					req.SetHeader("Authorization", header)
				}
				resp, err := req.Execute(r.method, r.path)
				require.NoError(t, err)
				assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
			})
		}
	}
}

func TestUserEndpoints(t *testing.T) {
	cl := newTestClient(t)
	tok := signup(t, cl, "d@gmail.com")

	t.Run("get me", func(t *testing.T) {
		resp, err := cl.R().SetAuthToken(tok).SetResult(&models.UserResp{}).Get("/users/me")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode())

		got := resp.Result().(*models.UserResp)
		assert.Equal(t, "d@gmail.com", got.Email)
		assert.NotZero(t, got.ID)
		assert.NotContains(t, resp.String(), "hash")
	})

	t.Run("edit user", func(t *testing.T) {
		resp, err := cl.R().
			SetAuthToken(tok).
			SetBody(`{"firstName": "Dav", "email": "da@gmail.com"}`).
			Patch("/users")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode())
		assert.Contains(t, resp.String(), "Dav")
		assert.Contains(t, resp.String(), "da@gmail.com")
	})

	t.Run("edit user bad email", func(t *testing.T) {
		resp, err := cl.R().SetAuthToken(tok).SetBody(`{"email": "nope"}`).Patch("/users")
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
	})

	t.Run("edit user null email", func(t *testing.T) {
		resp, err := cl.R().SetAuthToken(tok).SetBody(`{"email": null}`).Patch("/users")
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
	})

	t.Run("edit user taken email", func(t *testing.T) {
		signup(t, cl, "other@gmail.com")

		resp, err := cl.R().SetAuthToken(tok).SetBody(`{"email": "other@gmail.com"}`).Patch("/users")
		require.NoError(t, err)
		assert.Equal(t, http.StatusConflict, resp.StatusCode())
	})

	t.Run("clear last name", func(t *testing.T) {
		resp, err := cl.R().
			SetAuthToken(tok).
			SetBody(`{"lastName": null}`).
			SetResult(&models.UserResp{}).
			Patch("/users")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode())

		got := resp.Result().(*models.UserResp)
		assert.Nil(t, got.LastName)
		require.NotNil(t, got.FirstName)
		assert.Equal(t, "Dav", *got.FirstName)
	})
}

func TestBookmarkEndpoints(t *testing.T) {
	cl := newTestClient(t)
	tok := signup(t, cl, "d@gmail.com")

	list := func(t *testing.T) []models.BookmarkResp {
		t.Helper()
		var got []models.BookmarkResp
		resp, err := cl.R().SetAuthToken(tok).SetResult(&got).Get("/bookmarks")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode())
		return got
	}

	t.Run("empty list", func(t *testing.T) {
		resp, err := cl.R().SetAuthToken(tok).Get("/bookmarks")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode())
		assert.JSONEq(t, `[]`, resp.String())
	})

	var id uint64
	t.Run("create", func(t *testing.T) {
		resp, err := cl.R().
			SetAuthToken(tok).
			SetBody(`{"title": "firstBookmark", "link": "www.google.com"}`).
			SetResult(&models.BookmarkResp{}).
			Post("/bookmarks")
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode())

		got := resp.Result().(*models.BookmarkResp)
		assert.NotZero(t, got.ID)
		assert.Equal(t, "firstBookmark", got.Title)
		id = got.ID

		assert.Len(t, list(t), 1)
	})
	path := "/bookmarks/" + strconv.FormatUint(id, 10)

	t.Run("create invalid", func(t *testing.T) {
		bodies := []string{
			`{"link": "www.google.com"}`,
			`{"title": "t"}`,
			`{"title": "t", "link": "not a link"}`,
			`{"title": "t", "link": "www.google.com", "tags": [1]}`,
		}
		for _, body := range bodies {
			resp, err := cl.R().SetAuthToken(tok).SetBody(body).Post("/bookmarks")
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode(), body)
		}
	})

	t.Run("get by id", func(t *testing.T) {
		resp, err := cl.R().SetAuthToken(tok).Get(path)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode())
		assert.Contains(t, resp.String(), strconv.FormatUint(id, 10))

		again, err := cl.R().SetAuthToken(tok).Get(path)
		require.NoError(t, err)
		assert.Equal(t, resp.String(), again.String())
	})

	t.Run("edit", func(t *testing.T) {
		resp, err := cl.R().
			SetAuthToken(tok).
			SetBody(`{"description": "Lorem ipsum", "title": "Default title"}`).
			SetResult(&models.BookmarkResp{}).
			Patch(path)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode())

		got := resp.Result().(*models.BookmarkResp)
		assert.Equal(t, id, got.ID)
		assert.Equal(t, "Default title", got.Title)
		require.NotNil(t, got.Description)
		assert.Equal(t, "Lorem ipsum", *got.Description)
		assert.Equal(t, "www.google.com", got.Link)
	})

	t.Run("edit invalid", func(t *testing.T) {
		for _, body := range []string{`{"title": null}`, `{"link": "a b"}`, `{"title": ""}`} {
			resp, err := cl.R().SetAuthToken(tok).SetBody(body).Patch(path)
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode(), body)
		}
	})

	t.Run("bad id", func(t *testing.T) {
		paths := []string{
			"/bookmarks/abc",
			"/bookmarks/0",
			"/bookmarks/-1",
			"/bookmarks/9223372036854775808",
			"/bookmarks/18446744073709551615",
			"/bookmarks/18446744073709551616",
		}
		for _, p := range paths {
			resp, err := cl.R().SetAuthToken(tok).Get(p)
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode(), p)

			resp, err = cl.R().SetAuthToken(tok).SetBody(`{"title": "x"}`).Patch(p)
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode(), p)

			resp, err = cl.R().SetAuthToken(tok).Delete(p)
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode(), p)
		}
	})

	t.Run("largest valid id", func(t *testing.T) {
		resp, err := cl.R().SetAuthToken(tok).Get("/bookmarks/9223372036854775807")
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode())
	})

	t.Run("foreign bookmark", func(t *testing.T) {
		other := signup(t, cl, "other@gmail.com")

		resp, err := cl.R().SetAuthToken(other).Get(path)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode())

		resp, err = cl.R().SetAuthToken(other).SetBody(`{"title": "mine"}`).Patch(path)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode())

		resp, err = cl.R().SetAuthToken(other).Delete(path)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode())
	})

	t.Run("delete", func(t *testing.T) {
		resp, err := cl.R().SetAuthToken(tok).Delete(path)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode())

		assert.Empty(t, list(t))

		resp, err = cl.R().SetAuthToken(tok).Get(path)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode())
	})
}

func TestEmailTrimmedBeforeValidation(t *testing.T) {
	cl := newTestClient(t)

	resp, err := cl.R().
		SetBody(`{"email": " D@Gmail.com ", "password": "123"}`).
		Post("/auth/signup")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode())

	resp, err = cl.R().
		SetBody(`{"email": "d@gmail.com", "password": "123"}`).
		SetResult(&models.TokenResp{}).
		Post("/auth/signin")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	tok := resp.Result().(*models.TokenResp).AccessToken

	resp, err = cl.R().
		SetAuthToken(tok).
		SetBody(`{"email": "  New@Gmail.com  "}`).
		SetResult(&models.UserResp{}).
		Patch("/users")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, "new@gmail.com", resp.Result().(*models.UserResp).Email)
}

func TestPing(t *testing.T) {
	cl := newTestClient(t)

	resp, err := cl.R().Get("/ping")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, "pong", resp.String())
}
