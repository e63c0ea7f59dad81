package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/stitts-dev/fantasy-golf/internal/models"
	"github.com/stitts-dev/fantasy-golf/pkg/utils"
)

const (
	ctxUserID        = "user_id"
	ctxUsername      = "username"
	ctxRole          = "role"
	ctxAuthenticated = "authenticated"
)

// Claims are issued by the identity provider. The user id is the subject.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// AuthUser is the caller resolved from a bearer token
type AuthUser struct {
	ID       uuid.UUID
	Username string
	Role     string
}

func (u AuthUser) IsAdmin() bool {
	return u.Role == models.RoleAdmin
}

// IssueToken signs an HS256 token for user, used by local tooling and tests
func IssueToken(secret string, user AuthUser, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func parseToken(header, secret string) (*AuthUser, error) {
	tokenString := strings.TrimPrefix(header, "Bearer ")
	if tokenString == header || tokenString == "" {
		return nil, fmt.Errorf("invalid authorization header format")
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid token subject")
	}
	if claims.Username == "" {
		return nil, fmt.Errorf("token has no username")
	}

	role := claims.Role
	if role == "" {
		role = models.RoleUser
	}
	return &AuthUser{ID: id, Username: claims.Username, Role: role}, nil
}

func setUser(c *gin.Context, user *AuthUser) {
	c.Set(ctxUserID, user.ID.String())
	c.Set(ctxUsername, user.Username)
	c.Set(ctxRole, user.Role)
	c.Set(ctxAuthenticated, true)
}

func AuthRequired(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.SendUnauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		user, err := parseToken(authHeader, jwtSecret)
		if err != nil {
			utils.SendUnauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		setUser(c, user)
		c.Next()
	}
}

func OptionalAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			if user, err := parseToken(authHeader, jwtSecret); err == nil {
				setUser(c, user)
			}
		}
		c.Next()
	}
}

// AdminRequired must run after AuthRequired
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			utils.SendUnauthorized(c, "Authentication required")
			c.Abort()
			return
		}
		if !user.IsAdmin() {
			utils.SendForbidden(c, "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated caller, if any
func CurrentUser(c *gin.Context) (AuthUser, bool) {
	if !c.GetBool(ctxAuthenticated) {
		return AuthUser{}, false
	}
	id, err := uuid.Parse(c.GetString(ctxUserID))
	if err != nil {
		return AuthUser{}, false
	}
	return AuthUser{
		ID:       id,
		Username: c.GetString(ctxUsername),
		Role:     c.GetString(ctxRole),
	}, true
}
