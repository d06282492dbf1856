package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wanjiku/marketplace-catalog/auth"
	"github.com/wanjiku/marketplace-catalog/catalog"
)

func listProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := catalog.ListProducts(db)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

func getProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c)
		if err != nil {
			writeError(c, err)
			return
		}
		product, err := catalog.GetProduct(db, id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func createProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := auth.CurrentIdentity(c)
		if !ok {
			writeError(c, auth.ErrUnauthenticated)
			return
		}
		var in catalog.ProductInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		product, err := catalog.CreateProduct(db, identity, in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

func updateProduct(db *gorm.DB) gin.HandlerFunc {
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
		var in catalog.ProductInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		product, err := catalog.UpdateProduct(db, identity, id, in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func deleteProduct(db *gorm.DB) gin.HandlerFunc {
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
		if err := catalog.DeactivateProduct(db, identity, id); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deactivated"})
	}
}
