package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const lettersMessage = "Name should contain only letters"

var lettersPattern = regexp.MustCompile(`^[A-Za-z\-]+$`)

var registerValidatorsOnce sync.Once

// registerValidators installs the custom tags on gin's validator and makes
// field errors report the json or form name instead of the Go one.
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, key := range []string{"json", "form"} {
				name, _, _ := strings.Cut(fld.Tag.Get(key), ",")
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})

		_ = v.RegisterValidation("letters", func(fl validator.FieldLevel) bool {
			return lettersPattern.MatchString(fl.Field().String())
		})
	})
}

// FieldError is one entry of a 422 detail list.
type FieldError struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

func validationFailed(c *gin.Context, errs ...FieldError) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"detail": errs})
}

// bindError answers a failed ShouldBind* call with 422.
func bindError(c *gin.Context, err error) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details := make([]FieldError, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			if fe.Tag() == "letters" {
				c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"detail": lettersMessage})
				return
			}
			msg, typ := describe(fe)
			details = append(details, FieldError{
				Loc:  []any{"body", fe.Field()},
				Msg:  msg,
				Type: typ,
			})
		}
		validationFailed(c, details...)
		return
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		validationFailed(c, FieldError{
			Loc:  []any{"body", typeErr.Field},
			Msg:  "Input should be a valid " + typeErr.Value,
			Type: "type_error",
		})
		return
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		validationFailed(c, FieldError{
			Loc:  []any{"body", syntaxErr.Offset},
			Msg:  "JSON decode error",
			Type: "json_invalid",
		})
		return
	}

	validationFailed(c, FieldError{
		Loc:  []any{"body"},
		Msg:  "Invalid request body",
		Type: "value_error",
	})
}

func describe(fe validator.FieldError) (msg, typ string) {
	switch fe.Tag() {
	case "required":
		return "Field required", "missing"
	case "email":
		return "value is not a valid email address", "value_error"
	case "min":
		return "String should have at least " + fe.Param() + " character", "string_too_short"
	default:
		return fe.Error(), "value_error"
	}
}

// queryUserID reads the mandatory user_id query parameter.
func queryUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, ok := c.GetQuery("user_id")
	if !ok {
		validationFailed(c, FieldError{
			Loc:  []any{"query", "user_id"},
			Msg:  "Field required",
			Type: "missing",
		})
		return uuid.Nil, false
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		validationFailed(c, FieldError{
			Loc:  []any{"query", "user_id"},
			Msg:  "Input should be a valid UUID",
			Type: "uuid_parsing",
		})
		return uuid.Nil, false
	}
	return id, true
}
