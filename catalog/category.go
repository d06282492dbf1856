package catalog

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/wanjiku/marketplace-catalog/models"
)

type CategoryInput struct {
	Name     string `json:"name" binding:"required,min=3,max=50"`
	ParentID *uint  `json:"parent_id"`
}

// ListCategories returns the active categories.
func ListCategories(db *gorm.DB) ([]models.Category, error) {
	var categories []models.Category
	if err := db.Where("is_active = ?", true).Order("id").Find(&categories).Error; err != nil {
		return nil, storeErr("list categories", err)
	}
	return categories, nil
}

// CreateCategory creates a category. A parent id, when given, must reference
// an existing category.
func CreateCategory(db *gorm.DB, in CategoryInput) (*models.Category, error) {
	category := models.Category{Name: in.Name, ParentID: in.ParentID, IsActive: true}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := checkParent(tx, in.ParentID); err != nil {
			return err
		}
		if err := tx.Create(&category).Error; err != nil {
			return storeErr("create category", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateCategory renames or re-parents an active category.
func UpdateCategory(db *gorm.DB, categoryID uint, in CategoryInput) (*models.Category, error) {
	var category models.Category
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND is_active = ?", categoryID, true).First(&category).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("category %d missing or inactive: %w", categoryID, ErrNotFound)
		}
		if err != nil {
			return storeErr("lookup category", err)
		}
		if err := checkParent(tx, in.ParentID); err != nil {
			return err
		}
		category.Name = in.Name
		category.ParentID = in.ParentID
		if err := tx.Save(&category).Error; err != nil {
			return storeErr("update category", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// DeactivateCategory flips the category's active flag. Products in the
// category are left untouched: deactivation does not cascade, cleaning up a
// subtree is an admin responsibility.
func DeactivateCategory(db *gorm.DB, categoryID uint) error {
	var category models.Category
	err := db.Where("id = ? AND is_active = ?", categoryID, true).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("category %d missing or inactive: %w", categoryID, ErrNotFound)
	}
	if err != nil {
		return storeErr("lookup category", err)
	}
	err = db.Model(&models.Category{}).Where("id = ?", categoryID).
		Update("is_active", false).Error
	if err != nil {
		return storeErr("deactivate category", err)
	}
	return nil
}

func checkParent(tx *gorm.DB, parentID *uint) error {
	if parentID == nil {
		return nil
	}
	var count int64
	if err := tx.Model(&models.Category{}).Where("id = ?", *parentID).Count(&count).Error; err != nil {
		return storeErr("lookup parent category", err)
	}
	if count == 0 {
		return fmt.Errorf("parent category %d does not exist: %w", *parentID, ErrValidation)
	}
	return nil
}
