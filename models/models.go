package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is the closed set of roles a user can hold. A role is assigned at
// creation and never changes afterwards.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// Identity is what the auth layer hands to the rest of the service once a
// credential has been resolved: who the caller is, nothing more.
type Identity struct {
	ID       uint
	Role     Role
	IsActive bool
}

type User struct {
	gorm.Model
	Email        string `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role" gorm:"not null;default:buyer"`
	IsActive     bool   `json:"is_active" gorm:"not null;default:true"`

	Products []Product `json:"-" gorm:"foreignKey:SellerID"`
	Reviews  []Review  `json:"-" gorm:"foreignKey:BuyerID"`
}

// Identity returns the fixed identity record for this user.
func (u User) Identity() Identity {
	return Identity{ID: u.ID, Role: u.Role, IsActive: u.IsActive}
}

type Category struct {
	gorm.Model
	Name     string `json:"name" gorm:"size:50;not null"`
	ParentID *uint  `json:"parent_id"`
	IsActive bool   `json:"is_active" gorm:"not null;default:true"`

	Products []Product  `json:"-" gorm:"foreignKey:CategoryID"`
	Children []Category `json:"-" gorm:"foreignKey:ParentID"`
}

type Product struct {
	gorm.Model
	Name        string  `json:"name" gorm:"size:100;not null"`
	Description string  `json:"description" gorm:"size:500"`
	Price       float64 `json:"price" gorm:"not null"`
	ImageURL    string  `json:"image_url" gorm:"size:200"`
	Stock       int     `json:"stock" gorm:"not null"`
	IsActive    bool    `json:"is_active" gorm:"not null;default:true"`
	CategoryID  uint    `json:"category_id" gorm:"not null"`
	SellerID    uint    `json:"seller_id" gorm:"not null"`

	// Rating is derived from active reviews; it is only ever written by the
	// review engine's recompute step.
	Rating float64 `json:"rating" gorm:"not null;default:0"`

	Reviews []Review `json:"-" gorm:"foreignKey:ProductID"`
}

type Review struct {
	gorm.Model
	Comment     string    `json:"comment"`
	CommentDate time.Time `json:"comment_date" gorm:"not null"`
	Grade       int       `json:"grade" gorm:"not null"`
	IsActive    bool      `json:"is_active" gorm:"not null;default:true"`
	ProductID   uint      `json:"product_id" gorm:"not null"`
	BuyerID     uint      `json:"buyer_id" gorm:"not null"`
}
