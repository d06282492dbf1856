package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wanjiku/marketplace-catalog/auth"
	"github.com/wanjiku/marketplace-catalog/catalog"
)

func listReviews(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviews, err := catalog.ListActiveReviews(db)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, reviews)
	}
}

func createReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := auth.CurrentIdentity(c)
		if !ok {
			writeError(c, auth.ErrUnauthenticated)
			return
		}
		var in catalog.ReviewInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		review, err := catalog.CreateReview(db, identity, in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, review)
	}
}

func deleteReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := auth.CurrentIdentity(c)
		if !ok {
			writeError(c, auth.ErrUnauthenticated)
			return
		}
		id, err := pathID(c)
		if err != nil {
			writeError(c, err)
			return
		}
		if err := catalog.DeleteReview(db, identity, id); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
	}
}
