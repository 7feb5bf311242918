// README: Base handler utilities (JSON envelope, error mapping, binding setup).
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"farequote/internal/maps"
	"farequote/internal/modules/pricing"
)

// Stable error codes clients can branch on.
const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeServer           = "SERVER_ERROR"
	CodeRouteUnavailable = "ROUTE_UNAVAILABLE"
	CodeNotFound         = "NOT_FOUND"
)

const internalErrorMessage = "internal server error"

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, code, msg string) {
	writeJSON(c, status, errorResponse{Error: errorBody{Code: code, Message: msg}})
}

// WriteServerError is shared with the recovery middleware so that both paths
// render the same body.
func WriteServerError(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{
		Error: errorBody{Code: CodeServer, Message: internalErrorMessage},
	})
}

func writeQuoteError(c *gin.Context, err error) {
	var verr *pricing.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(c, http.StatusBadRequest, CodeValidation, verr.Error())
	case errors.Is(err, maps.ErrNoRoute),
		errors.Is(err, maps.ErrUnsupportedWaypoint),
		errors.Is(err, maps.ErrTooFewWaypoints),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		writeError(c, http.StatusServiceUnavailable, CodeRouteUnavailable, "route could not be computed for the given waypoints")
	default:
		WriteServerError(c)
	}
}

// bindingMessage turns a ShouldBindJSON failure into a field-identifying message.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return fe.Field() + " is required"
		case "gte":
			return fmt.Sprintf("%s must be >= %s", fe.Field(), fe.Param())
		case "min":
			return fmt.Sprintf("%s needs at least %s entries", fe.Field(), fe.Param())
		}
		return fe.Field() + " is invalid"
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Sprintf("%s: unexpected %s value", typeErr.Field, typeErr.Value)
	}
	return "request body must be valid JSON"
}

var registerTagNames sync.Once

// useJSONFieldNames makes validator report "dwellMinutes[1]" instead of "DwellMinutes[1]".
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
}
