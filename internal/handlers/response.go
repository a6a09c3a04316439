package handlers

import (
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/northstar/dispatch-backend/internal/services"
)

// action is one operation selectable through the ?action= query parameter
type action struct {
	methods []string
	handle  gin.HandlerFunc
}

// dispatch routes a request to the handler named by ?action=. Unknown
// actions are a 400 and a known action with the wrong method is a 405.
func dispatch(actions map[string]action) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, ok := actions[c.Query("action")]
		if !ok {
			respondError(c, services.ValidationError("Invalid action specified"))
			return
		}
		if !slices.Contains(a.methods, c.Request.Method) {
			respondError(c, services.MethodNotAllowedError("Method not allowed"))
			return
		}
		a.handle(c)
	}
}

// statusFor maps a service error kind to its HTTP status
func statusFor(kind services.ErrorKind) int {
	switch kind {
	case services.KindValidation:
		return http.StatusBadRequest
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindExpired:
		return http.StatusGone
	case services.KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case services.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {"error": message} with the status of the error kind.
// Storage failures carry their cause so operators can see it in the response.
func respondError(c *gin.Context, err error) {
	kind := services.KindOf(err)

	message := err.Error()
	var svcErr *services.ServiceError
	if errors.As(err, &svcErr) && kind != services.KindStorage {
		message = svcErr.Message
	}

	c.Error(err)
	c.AbortWithStatusJSON(statusFor(kind), gin.H{"error": message})
}

// bindJSON decodes the request body, answering 400 itself on failure
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, bindingError(err))
		return false
	}
	return true
}

func bindingError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		if fe.Tag() == "email" {
			return services.ValidationError("Invalid email address")
		}
		return services.ValidationError("Invalid value for %s", strings.ToLower(fe.Field()))
	}
	return services.ValidationError("Invalid JSON data")
}

// queryID parses an optional numeric id query parameter. A missing value is
// zero so the service can report which id is required.
func queryID(c *gin.Context, key string) (int64, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondError(c, services.ValidationError("Invalid %s: %s", key, raw))
		return 0, false
	}
	return id, true
}
