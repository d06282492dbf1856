package main

import (
	"context"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/wanjiku/marketplace-catalog/auth"
	"github.com/wanjiku/marketplace-catalog/models"
)

func main() {
	loadEnv()

	db, err := gorm.Open(postgres.Open(databaseDSN()), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Category{}, &models.Product{}, &models.Review{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	r := SetupRouter(db, buildResolver())
	r.Run(":" + serverPort())
}

// buildResolver picks the identity resolution mode: OIDC when an issuer is
// configured, first-party HS256 tokens otherwise.
func buildResolver() auth.Resolver {
	issuer := os.Getenv("OIDC_ISSUER")
	if issuer == "" {
		return auth.TokenResolver{}
	}
	resolver, err := auth.NewOIDCResolver(context.Background(), issuer, os.Getenv("OIDC_CLIENT_ID"))
	if err != nil {
		log.Fatal("Failed to initialise OIDC resolver:", err)
	}
	return resolver
}
