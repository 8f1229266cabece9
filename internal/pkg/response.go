package pkg

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/simp-lee/fieldops/internal/domain"
)

const (
	// ErrorCodeKey is the gin.Context key holding the error code of a failed request.
	ErrorCodeKey = "error_code"

	// InternalErrorCode is the wire code for failures outside the domain taxonomy.
	InternalErrorCode = "INTERNAL_ERROR"

	// InvalidJSONMessage is returned for any request body that is not valid JSON.
	InvalidJSONMessage = "Invalid JSON in request body"

	unexpectedErrorMessage = "An unexpected error occurred"
)

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// MessageBody is the JSON body of a delete confirmation.
type MessageBody struct {
	Message string `json:"message"`
}

// Success sends data as the JSON response body with the given status.
func Success(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}

// NoContent sends an empty 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends a JSON error response. Domain errors keep their code, message
// and meta and use the status of their code; any other error becomes a
// generic INTERNAL_ERROR with status 500. An explicit status overrides both.
func Error(c *gin.Context, err error, status ...int) {
	body, code := NewErrorBody(err)
	if len(status) > 0 && status[0] > 0 {
		code = status[0]
	}

	c.Set(ErrorCodeKey, body.Error)
	if code >= http.StatusInternalServerError && err != nil {
		_ = c.Error(err)
	}
	c.JSON(code, body)
}

// NotFound sends a 404 NOT_FOUND error response.
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	Error(c, domain.NewNotFoundError(message))
}

// BadRequest sends a 400 VALIDATION error response.
func BadRequest(c *gin.Context, message string) {
	Error(c, domain.NewValidationError(message))
}

// NewErrorBody renders err in wire format and returns it with its status.
func NewErrorBody(err error) (ErrorBody, int) {
	if de, ok := domain.AsDomainError(err); ok {
		return ErrorBody{
			Error:   string(de.Code),
			Message: de.Message,
			Meta:    de.Meta,
		}, de.Status()
	}
	return ErrorBody{
		Error:   InternalErrorCode,
		Message: unexpectedErrorMessage,
	}, http.StatusInternalServerError
}

// ParseQueryParams flattens the query string. A key that appears once maps to
// its string value; a repeated key maps to the ordered []string of values.
func ParseQueryParams(c *gin.Context) map[string]any {
	params := make(map[string]any)
	for key, values := range c.Request.URL.Query() {
		switch len(values) {
		case 0:
			continue
		case 1:
			params[key] = values[0]
		default:
			params[key] = append([]string(nil), values...)
		}
	}
	return params
}

// ParsePathParams returns the route parameters, or an empty map when the
// route has none.
func ParsePathParams(c *gin.Context) map[string]string {
	params := make(map[string]string, len(c.Params))
	for _, p := range c.Params {
		params[p.Key] = p.Value
	}
	return params
}

// ParseBody decodes the JSON request body into dst and runs struct validation.
// Malformed JSON, including an empty body, yields a VALIDATION error with
// InvalidJSONMessage.
func ParseBody(c *gin.Context, dst any) error {
	body, err := c.GetRawData()
	if err != nil {
		return domain.NewValidationError(InvalidJSONMessage, domain.WithCause(err))
	}

	if err := binding.JSON.BindBody(body, dst); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return fieldValidationError(ve, dst)
		}
		return domain.NewValidationError(InvalidJSONMessage, domain.WithCause(err))
	}
	return nil
}

// fieldValidationError converts validator errors to a VALIDATION error whose
// meta.fields maps JSON field names to the failed rule.
func fieldValidationError(ve validator.ValidationErrors, obj any) *domain.Error {
	jsonTags := buildJSONTagMap(obj)

	fields := make(map[string]string, len(ve))
	first := ""
	for _, fe := range ve {
		name := fe.Field()
		if tag, ok := jsonTags[fe.StructField()]; ok {
			name = tag
		} else {
			name = strings.ToLower(name)
		}
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		fields[name] = rule
		if first == "" {
			first = name + " failed validation: " + rule
		}
	}

	return domain.NewValidationError(first, domain.WithCause(ve), domain.WithMeta("fields", fields))
}

// buildJSONTagMap returns a map from struct field name to its JSON tag name.
// If obj is nil or not a struct (pointer), it returns nil.
func buildJSONTagMap(obj any) map[string]string {
	if obj == nil {
		return nil
	}
	t := reflect.TypeOf(obj)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	m := make(map[string]string, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if name := parseJSONTagName(f.Tag.Get("json")); name != "" {
			m[f.Name] = name
		}
	}
	return m
}

// parseJSONTagName extracts the field name from a JSON struct tag value.
func parseJSONTagName(tag string) string {
	if tag == "" || tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" || name == "-" {
		return ""
	}
	return name
}
