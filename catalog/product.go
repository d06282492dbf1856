package catalog

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/wanjiku/marketplace-catalog/models"
)

type ProductInput struct {
	Name        string  `json:"name" binding:"required,min=3,max=100"`
	Description string  `json:"description" binding:"max=500"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	ImageURL    string  `json:"image_url" binding:"max=200"`
	Stock       int     `json:"stock" binding:"gte=0"`
	CategoryID  uint    `json:"category_id" binding:"required"`
}

// ListProducts returns the active products.
func ListProducts(db *gorm.DB) ([]models.Product, error) {
	var products []models.Product
	if err := db.Where("is_active = ?", true).Order("id").Find(&products).Error; err != nil {
		return nil, storeErr("list products", err)
	}
	return products, nil
}

// GetProduct returns an active product by id.
func GetProduct(db *gorm.DB, productID uint) (*models.Product, error) {
	var product models.Product
	err := db.Where("id = ? AND is_active = ?", productID, true).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("product %d missing or inactive: %w", productID, ErrNotFound)
	}
	if err != nil {
		return nil, storeErr("lookup product", err)
	}
	return &product, nil
}

// CreateProduct creates a product owned by seller. The caller must hold the
// seller role and the referenced category must exist and be active; both are
// input problems, not lookup failures, so they fail with ErrValidation.
func CreateProduct(db *gorm.DB, seller models.Identity, in ProductInput) (*models.Product, error) {
	var product models.Product
	err := db.Transaction(func(tx *gorm.DB) error {
		if seller.Role != models.RoleSeller {
			return fmt.Errorf("user %d does not have the seller role: %w", seller.ID, ErrValidation)
		}
		if err := validateProductInput(tx, in); err != nil {
			return err
		}
		product = models.Product{
			Name:        in.Name,
			Description: in.Description,
			Price:       in.Price,
			ImageURL:    in.ImageURL,
			Stock:       in.Stock,
			IsActive:    true,
			CategoryID:  in.CategoryID,
			SellerID:    seller.ID,
		}
		if err := tx.Create(&product).Error; err != nil {
			return storeErr("create product", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct rewrites an active product's client-settable fields. Rating
// is not among them. Only the owning seller or an admin may update.
func UpdateProduct(db *gorm.DB, requester models.Identity, productID uint, in ProductInput) (*models.Product, error) {
	var product models.Product
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND is_active = ?", productID, true).First(&product).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("product %d missing or inactive: %w", productID, ErrNotFound)
		}
		if err != nil {
			return storeErr("lookup product", err)
		}
		if !CanMutate(requester, product.SellerID) {
			return fmt.Errorf("product %d belongs to another seller: %w", productID, ErrForbidden)
		}
		if err := validateProductInput(tx, in); err != nil {
			return err
		}
		product.Name = in.Name
		product.Description = in.Description
		product.Price = in.Price
		product.ImageURL = in.ImageURL
		product.Stock = in.Stock
		product.CategoryID = in.CategoryID
		if err := tx.Save(&product).Error; err != nil {
			return storeErr("update product", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// DeactivateProduct flips the product's active flag. Reviews keep their
// state and the cached rating is left as-is; deactivation has no side
// effects beyond the flag.
func DeactivateProduct(db *gorm.DB, requester models.Identity, productID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		err := tx.Where("id = ? AND is_active = ?", productID, true).First(&product).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("product %d missing or inactive: %w", productID, ErrNotFound)
		}
		if err != nil {
			return storeErr("lookup product", err)
		}
		if !CanMutate(requester, product.SellerID) {
			return fmt.Errorf("product %d belongs to another seller: %w", productID, ErrForbidden)
		}
		err = tx.Model(&models.Product{}).Where("id = ?", productID).
			Update("is_active", false).Error
		if err != nil {
			return storeErr("deactivate product", err)
		}
		return nil
	})
}

func validateProductInput(tx *gorm.DB, in ProductInput) error {
	if in.Price <= 0 {
		return fmt.Errorf("price must be greater than 0: %w", ErrValidation)
	}
	if in.Stock < 0 {
		return fmt.Errorf("stock must not be negative: %w", ErrValidation)
	}
	var count int64
	err := tx.Model(&models.Category{}).
		Where("id = ? AND is_active = ?", in.CategoryID, true).Count(&count).Error
	if err != nil {
		return storeErr("lookup category", err)
	}
	if count == 0 {
		return fmt.Errorf("category %d missing or inactive: %w", in.CategoryID, ErrValidation)
	}
	return nil
}
