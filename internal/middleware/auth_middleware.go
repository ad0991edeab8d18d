package middleware

import (
	"errors"
	"fmt"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/response"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenNotFound = apperror.New(apperror.CodeUnauthorized, "Token not found", http.StatusUnauthorized)
	ErrInvalidToken  = apperror.New("INVALID_TOKEN", "Invalid token", http.StatusUnauthorized)
	ErrTokenExpired  = apperror.New("TOKEN_EXPIRED", "Token has expired", http.StatusUnauthorized)
)

// AuthMiddleware validates an HS256 bearer token (or the access_token
// cookie) and copies its claims into the gin and request contexts.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			abortWith(c, ErrTokenNotFound)
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			errObj := ErrInvalidToken
			if errors.Is(err, jwt.ErrTokenExpired) {
				errObj = ErrTokenExpired
			}
			abortWith(c, errObj)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortWith(c, ErrInvalidToken)
			return
		}

		values := map[string]string{}
		for _, key := range []string{"user_id", "employee_id", "school_id", "role"} {
			v, _ := claims[key].(string)
			if v == "" && key != "employee_id" {
				response.Error(c, http.StatusUnauthorized, ErrInvalidToken.Code, key+" not found in token", nil)
				c.Abort()
				return
			}
			values[key] = v
		}

		c.Set("user_id", values["user_id"])
		c.Set("employee_id", values["employee_id"])
		c.Set("school_id", values["school_id"])
		c.Set("role", values["role"])

		ctx := contextutil.WithUserID(c.Request.Context(), values["user_id"])
		ctx = contextutil.WithSchoolID(ctx, values["school_id"])
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString("role")
		if userRole == "" || !slices.Contains(allowedRoles, userRole) {
			abortWith(c, apperror.ErrForbidden)
			return
		}

		c.Next()
	}
}

func abortWith(c *gin.Context, err *apperror.AppError) {
	response.Error(c, err.HTTPStatus, err.Code, err.Message, nil)
	c.Abort()
}
