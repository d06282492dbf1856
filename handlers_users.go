package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wanjiku/marketplace-catalog/auth"
)

func registerUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in auth.RegisterInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		user, err := auth.RegisterUser(db, in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, user)
	}
}

func loginUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in auth.LoginInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		user, err := auth.Authenticate(db, in)
		if err != nil {
			writeError(c, err)
			return
		}
		token, err := auth.GenerateToken(*user)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
	}
}
