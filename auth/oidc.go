package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"gorm.io/gorm"

	"github.com/wanjiku/marketplace-catalog/models"
)

// OIDCResolver accepts ID tokens from an external OpenID Connect provider
// and maps their email claim onto a local user row.
type OIDCResolver struct {
	verifier *oidc.IDTokenVerifier
}

func NewOIDCResolver(ctx context.Context, issuer, clientID string) (*OIDCResolver, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc provider %s: %w", issuer, err)
	}
	return &OIDCResolver{
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

func (r *OIDCResolver) Resolve(ctx context.Context, db *gorm.DB, credential string) (models.Identity, error) {
	idToken, err := r.verifier.Verify(ctx, credential)
	if err != nil {
		return models.Identity{}, fmt.Errorf("invalid id token: %w", ErrUnauthenticated)
	}
	var claims struct {
		Email string `json:"email"`
	}
	if err := idToken.Claims(&claims); err != nil || claims.Email == "" {
		return models.Identity{}, fmt.Errorf("no email claim: %w", ErrUnauthenticated)
	}
	var user models.User
	err = db.WithContext(ctx).Where("email = ?", claims.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Identity{}, fmt.Errorf("no user for %s: %w", claims.Email, ErrUnauthenticated)
	}
	if err != nil {
		return models.Identity{}, err
	}
	if !user.IsActive {
		return models.Identity{}, fmt.Errorf("user %d is inactive: %w", user.ID, ErrUnauthenticated)
	}
	return user.Identity(), nil
}
