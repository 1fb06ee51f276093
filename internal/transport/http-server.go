package transport

import (
	"context"
	"math"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Rogue-Bear-Innovations/bookmarks-api/internal/config"
	"github.com/Rogue-Bear-Innovations/bookmarks-api/internal/db"
	"github.com/Rogue-Bear-Innovations/bookmarks-api/internal/service"
	"github.com/Rogue-Bear-Innovations/bookmarks-api/internal/token"
)

const userContextKey = "user"

var Module = fx.Provide(NewHTTPServer)

type HTTPServer struct {
	echo      *echo.Echo
	auth      *service.Auth
	users     *service.Users
	bookmarks *service.Bookmarks
	logger    *zap.SugaredLogger
}

func NewHTTPServer(
	lc fx.Lifecycle,
	cfg *config.Config,
	auth *service.Auth,
	users *service.Users,
	bookmarks *service.Bookmarks,
	logger *zap.SugaredLogger,
) *HTTPServer {
	instance := New(cfg, auth, users, bookmarks, logger)
	e := instance.echo

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := e.Start(cfg.HTTPAddr()); err != nil && err != http.ErrServerClosed {
					logger.Fatalw("shutting down the server", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server.")
			return e.Shutdown(ctx)
		},
	})

	return instance
}

// New builds the router without binding a listener.
func New(
	cfg *config.Config,
	auth *service.Auth,
	users *service.Users,
	bookmarks *service.Bookmarks,
	logger *zap.SugaredLogger,
) *HTTPServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	instance := HTTPServer{
		echo:      e,
		auth:      auth,
		users:     users,
		bookmarks: bookmarks,
		logger:    logger,
	}

	e.Binder = &jsonBinder{}
	e.Validator = NewCustomValidator()
	e.HTTPErrorHandler = instance.ErrorHandler

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(instance.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSAllowOrigins,
	}))
	e.Use(middleware.BodyDumpWithConfig(middleware.BodyDumpConfig{
		Skipper: func(c echo.Context) bool {
			return !logger.Desugar().Core().Enabled(zap.DebugLevel)
		},
		Handler: func(c echo.Context, reqBody, resBody []byte) {
			logger.Debugw("body dump",
				"path", c.Path(),
				"request", string(censorBody(reqBody)),
				"response", string(censorBody(resBody)),
			)
		},
	}))

	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })

	authG := e.Group("/auth")
	authG.POST("/signup", instance.Signup)
	authG.POST("/signin", instance.Signin)

	userG := e.Group("/users", instance.AuthMiddleware)
	userG.GET("/me", instance.GetMe)
	userG.PATCH("", instance.EditUser)

	bookmarkG := e.Group("/bookmarks", instance.AuthMiddleware)
	bookmarkG.GET("", instance.BookmarkList)
	bookmarkG.POST("", instance.BookmarkCreate)
	bookmarkG.GET("/:id", instance.BookmarkGet)
	bookmarkG.PATCH("/:id", instance.BookmarkUpdate)
	bookmarkG.DELETE("/:id", instance.BookmarkDelete)

	return &instance
}

func (s *HTTPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// AuthMiddleware resolves the bearer token to a user and stores it in the
// echo context for the handlers behind it.
func (s *HTTPServer) AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString, ok := token.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}

		user, err := s.auth.Authenticate(c.Request().Context(), tokenString)
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				s.logger.Debugw("rejected token", "error", err)
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}
			return errors.Wrap(err, "authenticate")
		}

		c.Set(userContextKey, user)
		return next(c)
	}
}

func (s *HTTPServer) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			}
			if user, ok := c.Get(userContextKey).(*db.User); ok {
				fields = append(fields, "user_id", user.ID)
			}

			switch {
			case v.Status >= http.StatusInternalServerError:
				s.logger.Errorw("request", append(fields, "error", v.Error)...)
			case v.Status >= http.StatusBadRequest:
				s.logger.Warnw("request", fields...)
			default:
				s.logger.Infow("request", fields...)
			}
			return nil
		},
	})
}

////////

type normalizer interface {
	Normalize()
}

func BindAndValidate(c echo.Context, v interface{}) error {
	var err error
	if err = c.Bind(v); err != nil {
		return err
	}
	if n, ok := v.(normalizer); ok {
		n.Normalize()
	}
	if err = c.Validate(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func GetUserFromContext(c echo.Context) (*db.User, error) {
	user, ok := c.Get(userContextKey).(*db.User)
	if !ok || user == nil {
		return nil, errors.New("no user found in context")
	}
	return user, nil
}

func GetParam(c echo.Context, name string) (string, error) {
	value := c.Param(name)
	if value == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid path param '"+name+"'")
	}
	return value, nil
}

// GetAndParseParam reads a positive integer path param that fits a bigint column.
func GetAndParseParam(c echo.Context, name string) (uint64, error) {
	v, e := GetParam(c, name)
	if e != nil {
		return 0, e
	}
	vv, e := strconv.ParseUint(v, 10, 64)
	if e != nil || vv == 0 || vv > math.MaxInt64 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid path param '"+name+"'")
	}
	return vv, nil
}
