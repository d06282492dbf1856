package catalog

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/wanjiku/marketplace-catalog/models"
)

// ReviewInput carries the client-supplied fields of a new review. The buyer
// is never part of it; it always comes from the authenticated identity.
type ReviewInput struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Comment   string `json:"comment"`
	Grade     int    `json:"grade"`
}

// ListActiveReviews returns every active review in insertion order.
func ListActiveReviews(db *gorm.DB) ([]models.Review, error) {
	var reviews []models.Review
	if err := db.Where("is_active = ?", true).Order("id").Find(&reviews).Error; err != nil {
		return nil, storeErr("list reviews", err)
	}
	return reviews, nil
}

// CreateReview inserts a review for buyer and recomputes the product's
// rating. Both steps run in one transaction so the recompute always observes
// the insert and no other request can see the review without the new rating.
func CreateReview(db *gorm.DB, buyer models.Identity, in ReviewInput) (*models.Review, error) {
	var review models.Review
	err := db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		err := tx.Where("id = ? AND is_active = ?", in.ProductID, true).First(&product).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("product %d missing or inactive: %w", in.ProductID, ErrNotFound)
		}
		if err != nil {
			return storeErr("lookup product", err)
		}
		if in.Grade < 1 || in.Grade > 5 {
			return fmt.Errorf("grade %d out of range [1,5]: %w", in.Grade, ErrValidation)
		}
		review = models.Review{
			Comment:     in.Comment,
			CommentDate: time.Now(),
			Grade:       in.Grade,
			IsActive:    true,
			ProductID:   in.ProductID,
			BuyerID:     buyer.ID,
		}
		if err := tx.Create(&review).Error; err != nil {
			return storeErr("create review", err)
		}
		return recomputeRating(tx, in.ProductID)
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// DeleteReview soft-deletes a review and recomputes the product's rating
// from the remaining active reviews. The row is kept for audit; only
// is_active flips. Requester must be the review's buyer or an admin.
func DeleteReview(db *gorm.DB, requester models.Identity, reviewID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var review models.Review
		err := tx.Where("id = ? AND is_active = ?", reviewID, true).First(&review).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("review %d missing or inactive: %w", reviewID, ErrNotFound)
		}
		if err != nil {
			return storeErr("lookup review", err)
		}
		if !CanMutate(requester, review.BuyerID) {
			return fmt.Errorf("review %d belongs to another buyer: %w", reviewID, ErrForbidden)
		}
		err = tx.Model(&models.Review{}).Where("id = ?", reviewID).
			Update("is_active", false).Error
		if err != nil {
			return storeErr("deactivate review", err)
		}
		return recomputeRating(tx, review.ProductID)
	})
}

// recomputeRating persists the mean grade over the product's active reviews,
// or 0 when none remain. It must run inside the transaction of the mutation
// that triggered it so the average includes that mutation.
func recomputeRating(tx *gorm.DB, productID uint) error {
	var rating float64
	err := tx.Model(&models.Review{}).
		Where("product_id = ? AND is_active = ?", productID, true).
		Select("COALESCE(AVG(grade), 0)").Scan(&rating).Error
	if err != nil {
		return storeErr("average grades", err)
	}
	err = tx.Model(&models.Product{}).Where("id = ?", productID).
		Update("rating", rating).Error
	if err != nil {
		return storeErr("update rating", err)
	}
	return nil
}
