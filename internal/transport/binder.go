package transport

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Rogue-Bear-Innovations/bookmarks-api/internal/models"
)

const censored = "$censored"

var censoredKeys = []string{"password", "access_token"}

type (
	// jsonBinder decodes request bodies strictly: unknown keys, trailing data
	// and type mismatches are rejected. An empty body leaves the target as is.
	jsonBinder struct{}

	CustomValidator struct {
		validator *validator.Validate
	}
)

func (b *jsonBinder) Bind(i interface{}, c echo.Context) error {
	body := c.Request().Body
	if body == nil {
		return nil
	}

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(i); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body: "+err.Error()).SetInternal(err)
	}
	if dec.More() {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body: unexpected data after JSON value")
	}
	return nil
}

func NewCustomValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("link", func(fl validator.FieldLevel) bool {
		return isLink(fl.Field().String())
	}); err != nil {
		panic(err)
	}

	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return describe(err)
	}

	switch req := i.(type) {
	case *models.EditUserReq:
		return firstError(
			cv.optional("email", req.Email, "required,email", false),
			cv.optional("firstName", req.FirstName, "", true),
			cv.optional("lastName", req.LastName, "", true),
		)
	case *models.EditBookmarkReq:
		return firstError(
			cv.optional("title", req.Title, "required", false),
			cv.optional("link", req.Link, "required,link", false),
			cv.optional("description", req.Description, "", true),
		)
	}
	return nil
}

func (cv *CustomValidator) optional(name string, o models.Optional[string], tag string, nullable bool) error {
	if !o.Set {
		return nil
	}
	if o.Null {
		if nullable {
			return nil
		}
		return errors.New(name + " must not be null")
	}
	if tag == "" {
		return nil
	}
	if err := cv.validator.Var(o.Value, tag); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return errors.New(fieldMessage(name, verrs[0].Tag()))
		}
		return err
	}
	return nil
}

func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe.Field(), fe.Tag()))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func fieldMessage(field, tag string) string {
	switch tag {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be an email"
	case "link":
		return field + " must be a valid link"
	case "max":
		return field + " is too long"
	default:
		return field + " is invalid"
	}
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// isLink accepts absolute URLs and scheme-less host paths like www.google.com.
// Hosts need a dot unless they are localhost.
func isLink(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	schemeless := !strings.Contains(s, "://")
	if schemeless {
		s = "http://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if schemeless && u.User != nil {
		return false
	}

	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	return strings.Contains(strings.Trim(host, "."), ".")
}

func censorBody(b []byte) []byte {
	m := map[string]interface{}{}
	if err := json.Unmarshal(b, &m); err != nil {
		return b
	}

	changed := false
	for _, key := range censoredKeys {
		if _, ok := m[key]; ok {
			m[key] = censored
			changed = true
		}
	}
	if !changed {
		return b
	}

	out, err := json.Marshal(m)
	if err != nil {
		return b
	}
	return out
}
