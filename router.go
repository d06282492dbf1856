package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wanjiku/marketplace-catalog/auth"
	"github.com/wanjiku/marketplace-catalog/catalog"
)

// SetupRouter wires the HTTP surface over db. The resolver decides how a
// bearer credential becomes an identity (first-party tokens or OIDC).
func SetupRouter(db *gorm.DB, resolver auth.Resolver) *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(), recovery(), cors.Default())

	authRequired := auth.Middleware(db, resolver)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to the marketplace catalog API"})
	})

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/users", registerUser(db))
	r.POST("/users/login", loginUser(db))

	r.GET("/categories", listCategories(db))
	r.POST("/categories", authRequired, auth.RequireAdmin, createCategory(db))
	r.PUT("/categories/:id", authRequired, auth.RequireAdmin, updateCategory(db))
	r.DELETE("/categories/:id", authRequired, auth.RequireAdmin, deleteCategory(db))

	r.GET("/products", listProducts(db))
	r.GET("/products/:id", getProduct(db))
	r.POST("/products", authRequired, createProduct(db))
	r.PUT("/products/:id", authRequired, updateProduct(db))
	r.DELETE("/products/:id", authRequired, deleteProduct(db))

	r.GET("/reviews", listReviews(db))
	r.POST("/reviews", authRequired, createReview(db))
	r.DELETE("/reviews/:id", authRequired, deleteReview(db))

	return r
}

// writeError maps a domain error onto the HTTP status the caller needs to
// disambiguate failures. Anything outside the taxonomy (store failures
// included) is logged with the request's correlation id and reported as a
// generic failure.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, catalog.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, catalog.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		log.Printf("[%s] %s %s: %v", requestLogID(c), c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false})
	}
}
