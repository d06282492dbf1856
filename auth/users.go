package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/wanjiku/marketplace-catalog/catalog"
	"github.com/wanjiku/marketplace-catalog/models"
)

type RegisterInput struct {
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=8"`
	Role     models.Role `json:"role"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterUser creates a user with a bcrypt-hashed password. Registration
// only hands out the buyer and seller roles; admins are provisioned out of
// band. The role is fixed from here on.
func RegisterUser(db *gorm.DB, in RegisterInput) (*models.User, error) {
	role := in.Role
	if role == "" {
		role = models.RoleBuyer
	}
	if role != models.RoleBuyer && role != models.RoleSeller {
		return nil, fmt.Errorf("role must be buyer or seller: %w", catalog.ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := models.User{
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("email %s already registered: %w", in.Email, catalog.ErrValidation)
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate checks email/password against an active user. Every failure
// mode collapses into ErrUnauthenticated so callers cannot probe for
// registered emails.
func Authenticate(db *gorm.DB, in LoginInput) (*models.User, error) {
	var user models.User
	err := db.Where("email = ? AND is_active = ?", in.Email, true).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("bad credentials: %w", ErrUnauthenticated)
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, fmt.Errorf("bad credentials: %w", ErrUnauthenticated)
	}
	return &user, nil
}
