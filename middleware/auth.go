package middleware

import (
	"net/http"
	"strings"
	"time"

	"littlelemon-api/config"
	"littlelemon-api/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

const userKey = "currentUser"

// GenerateToken creates a signed JWT for a given user. Only identity goes
// into the token; group membership is loaded per request so role changes
// take effect without re-login.
func GenerateToken(user *models.User) (string, error) {
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(config.JWTSecret)
}

// AuthRequired validates the JWT, loads the caller with current group
// memberships, and injects the user into the context.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required (Bearer <token>)"})
			c.Abort()
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			return config.JWTSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		var user models.User
		if err := config.DB.Preload("Groups").First(&user, claims.UserID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Account no longer exists"})
			c.Abort()
			return
		}
		c.Set(userKey, &user)
		c.Next()
	}
}

// ManagerRequired rejects callers outside the Manager group.
// Must run after AuthRequired.
func ManagerRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetUser(c).IsManager() {
			c.JSON(http.StatusForbidden, gin.H{"error": "Manager role required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUser extracts the authenticated caller from the context.
func GetUser(c *gin.Context) *models.User {
	val, _ := c.Get(userKey)
	return val.(*models.User)
}
