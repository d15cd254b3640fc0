package middleware

import (
	"context"
	"net/http"
	"strings"

	"foodtruck-pos/internal/apperr"
	"foodtruck-pos/internal/auth"
	"foodtruck-pos/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey  = "userID"
	truckKey   = "truck"
	truckIDKey = "truckID"
)

// TokenValidator is satisfied by *auth.Issuer.
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// TruckFinder resolves the truck owned by the signed-in user.
type TruckFinder interface {
	TruckForOwner(ctx context.Context, userID uint) (*models.FoodTruck, error)
}

// AuthMiddleware checks if the user has a valid JWT token
func AuthMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Get the token from the "Authorization" header
		// Format: "Bearer <token>"
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "Authorization header is required")
			return
		}

		// 2. Remove the "Bearer " prefix
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			unauthorized(c, "Authorization header must start with Bearer")
			return
		}

		// 3. Validate the token
		claims, err := tokens.Validate(tokenString)
		if err != nil {
			unauthorized(c, "Invalid or expired token")
			return
		}

		// 4. Store the user for the next handler
		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

// RequireTruck loads the signed-in user's food truck. Routes behind it act
// on that truck only.
func RequireTruck(trucks TruckFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		truck, err := trucks.TruckForOwner(c.Request.Context(), UserID(c))
		if err != nil {
			kind := apperr.KindOf(err)
			c.AbortWithStatusJSON(kind.HTTPStatus(), gin.H{"error": apperr.Message(err), "kind": kind.String()})
			return
		}

		c.Set(truckKey, truck)
		c.Set(truckIDKey, truck.ID)
		c.Next()
	}
}

// UserID is the authenticated user, or 0 outside AuthMiddleware.
func UserID(c *gin.Context) uint {
	return c.GetUint(userIDKey)
}

// Truck is the current truck, or nil outside RequireTruck.
func Truck(c *gin.Context) *models.FoodTruck {
	v, ok := c.Get(truckKey)
	if !ok {
		return nil
	}
	truck, _ := v.(*models.FoodTruck)
	return truck
}

func TruckID(c *gin.Context) uint {
	return c.GetUint(truckIDKey)
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message, "kind": "unauthorized"})
}
