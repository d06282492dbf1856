package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/wanjiku/marketplace-catalog/models"
)

// ErrUnauthenticated means no identity could be resolved from the request
// credential. It is distinct from catalog.ErrForbidden: "who are you" vs
// "you may not do this".
var ErrUnauthenticated = errors.New("unauthenticated")

// Resolver turns a bearer credential into the identity of an active user.
type Resolver interface {
	Resolve(ctx context.Context, db *gorm.DB, credential string) (models.Identity, error)
}

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "super_secret"
	}
	return []byte(secret)
}

// GenerateToken mints a signed HS256 token for user, valid for 24 hours.
func GenerateToken(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    string(user.Role),
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// TokenResolver resolves the service's own HS256 tokens.
type TokenResolver struct{}

func (TokenResolver) Resolve(ctx context.Context, db *gorm.DB, credential string) (models.Identity, error) {
	token, err := jwt.Parse(credential, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return models.Identity{}, fmt.Errorf("invalid token: %w", ErrUnauthenticated)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Identity{}, fmt.Errorf("invalid claims: %w", ErrUnauthenticated)
	}
	rawID, ok := claims["user_id"].(float64)
	if !ok {
		return models.Identity{}, fmt.Errorf("user_id claim missing: %w", ErrUnauthenticated)
	}
	return lookupUser(ctx, db, uint(rawID))
}

func lookupUser(ctx context.Context, db *gorm.DB, userID uint) (models.Identity, error) {
	var user models.User
	err := db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Identity{}, fmt.Errorf("unknown user %d: %w", userID, ErrUnauthenticated)
	}
	if err != nil {
		return models.Identity{}, err
	}
	if !user.IsActive {
		return models.Identity{}, fmt.Errorf("user %d is inactive: %w", userID, ErrUnauthenticated)
	}
	return user.Identity(), nil
}
