package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/wanjiku/marketplace-catalog/auth"
	"github.com/wanjiku/marketplace-catalog/models"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// Create DB connection for tests
func getTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect to test database: " + err.Error())
	}
	db.AutoMigrate(&models.User{}, &models.Category{}, &models.Product{}, &models.Review{})
	return db
}

// Helper: run a test inside a transaction and roll it back
func withTestTransaction(t *testing.T, testFunc func(tx *gorm.DB)) {
	db := getTestDB()

	tx := db.Begin()
	if tx.Error != nil {
		t.Fatal(tx.Error)
	}

	defer tx.Rollback()

	testFunc(tx)
}

func newRouter(db *gorm.DB) *gin.Engine {
	return SetupRouter(db, auth.TokenResolver{})
}

func seedUser(t *testing.T, db *gorm.DB, email string, role models.Role) models.User {
	t.Helper()
	user := models.User{Email: email, Role: role, IsActive: true}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedCatalog(t *testing.T, db *gorm.DB, seller models.User) models.Product {
	t.Helper()
	category := models.Category{Name: "Bakery", IsActive: true}
	require.NoError(t, db.Create(&category).Error)
	product := models.Product{
		Name: "Bread", Price: 3.5, Stock: 10, IsActive: true,
		CategoryID: category.ID, SellerID: seller.ID,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func doJSON(router *gin.Engine, method, path string, payload any, token string) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(w, req)
	return w
}

func tokenFor(t *testing.T, user models.User) string {
	t.Helper()
	token, err := auth.GenerateToken(user)
	require.NoError(t, err)
	return token
}

// ----------------------- TESTS ----------------------- //

func TestHealthCheck(t *testing.T) {
	withTestTransaction(t, func(db *gorm.DB) {
		router := newRouter(db)

		w := doJSON(router, "GET", "/health", nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRegisterAndLogin(t *testing.T) {
	withTestTransaction(t, func(db *gorm.DB) {
		router := newRouter(db)

		w := doJSON(router, "POST", "/users", map[string]any{
			"email":    "june@example.com",
			"password": "hunter2hunter2",
			"role":     "seller",
		}, "")
		assert.Equal(t, http.StatusCreated, w.Code)
		var user models.User
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
		assert.Equal(t, "june@example.com", user.Email)
		assert.Equal(t, models.RoleSeller, user.Role)

		w = doJSON(router, "POST", "/users/login", map[string]any{
			"email":    "june@example.com",
			"password": "hunter2hunter2",
		}, "")
		assert.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			AccessToken string `json:"access_token"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.AccessToken)

		w = doJSON(router, "POST", "/users/login", map[string]any{
			"email":    "june@example.com",
			"password": "wrong-password",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestCreateReviewRequiresAuth(t *testing.T) {
	withTestTransaction(t, func(db *gorm.DB) {
		router := newRouter(db)

		w := doJSON(router, "POST", "/reviews", map[string]any{
			"product_id": 1, "grade": 4, "comment": "nice",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = doJSON(router, "POST", "/reviews", map[string]any{
			"product_id": 1, "grade": 4,
		}, "garbage-token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestReviewFlow(t *testing.T) {
	withTestTransaction(t, func(db *gorm.DB) {
		router := newRouter(db)
		seller := seedUser(t, db, "seller@example.com", models.RoleSeller)
		buyer := seedUser(t, db, "buyer@example.com", models.RoleBuyer)
		other := seedUser(t, db, "other@example.com", models.RoleBuyer)
		product := seedCatalog(t, db, seller)

		w := doJSON(router, "POST", "/reviews", map[string]any{
			"product_id": product.ID, "grade": 4, "comment": "crusty",
		}, tokenFor(t, buyer))
		assert.Equal(t, http.StatusCreated, w.Code)
		var review models.Review
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &review))
		assert.Equal(t, buyer.ID, review.BuyerID)
		assert.Equal(t, 4, review.Grade)

		w = doJSON(router, "GET", fmt.Sprintf("/products/%d", product.ID), nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
		var got models.Product
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, 4.0, got.Rating)

		w = doJSON(router, "GET", "/reviews", nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
		var reviews []models.Review
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reviews))
		assert.Len(t, reviews, 1)

		// someone else's review: forbidden, nothing changes
		w = doJSON(router, "DELETE", fmt.Sprintf("/reviews/%d", review.ID), nil, tokenFor(t, other))
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = doJSON(router, "DELETE", fmt.Sprintf("/reviews/%d", review.ID), nil, tokenFor(t, buyer))
		assert.Equal(t, http.StatusOK, w.Code)

		w = doJSON(router, "GET", fmt.Sprintf("/products/%d", product.ID), nil, "")
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, 0.0, got.Rating)

		w = doJSON(router, "GET", "/reviews", nil, "")
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reviews))
		assert.Empty(t, reviews)
	})
}

func TestAdminCanDeleteAnyReview(t *testing.T) {
	withTestTransaction(t, func(db *gorm.DB) {
		router := newRouter(db)
		seller := seedUser(t, db, "seller@example.com", models.RoleSeller)
		buyer := seedUser(t, db, "buyer@example.com", models.RoleBuyer)
		admin := seedUser(t, db, "admin@example.com", models.RoleAdmin)
		product := seedCatalog(t, db, seller)

		w := doJSON(router, "POST", "/reviews", map[string]any{
			"product_id": product.ID, "grade": 5,
		}, tokenFor(t, buyer))
		require.Equal(t, http.StatusCreated, w.Code)
		var review models.Review
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &review))

		w = doJSON(router, "DELETE", fmt.Sprintf("/reviews/%d", review.ID), nil, tokenFor(t, admin))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestCreateReviewErrors(t *testing.T) {
	withTestTransaction(t, func(db *gorm.DB) {
		router := newRouter(db)
		seller := seedUser(t, db, "seller@example.com", models.RoleSeller)
		buyer := seedUser(t, db, "buyer@example.com", models.RoleBuyer)
		product := seedCatalog(t, db, seller)
		token := tokenFor(t, buyer)

		// unknown product
		w := doJSON(router, "POST", "/reviews", map[string]any{
			"product_id": 999, "grade": 3,
		}, token)
		assert.Equal(t, http.StatusNotFound, w.Code)

		// grade out of range
		w = doJSON(router, "POST", "/reviews", map[string]any{
			"product_id": product.ID, "grade": 6,
		}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		// deleting a review that does not exist
		w = doJSON(router, "DELETE", "/reviews/999", nil, token)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCategoryEndpointsAdminOnly(t *testing.T) {
	withTestTransaction(t, func(db *gorm.DB) {
		router := newRouter(db)
		buyer := seedUser(t, db, "buyer@example.com", models.RoleBuyer)
		admin := seedUser(t, db, "admin@example.com", models.RoleAdmin)

		w := doJSON(router, "POST", "/categories", map[string]any{"name": "Bakery"}, tokenFor(t, buyer))
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = doJSON(router, "POST", "/categories", map[string]any{"name": "Bakery"}, tokenFor(t, admin))
		assert.Equal(t, http.StatusCreated, w.Code)
		var category models.Category
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &category))
		assert.Equal(t, "Bakery", category.Name)

		w = doJSON(router, "GET", "/categories", nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
		var categories []models.Category
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &categories))
		assert.Len(t, categories, 1)
	})
}

func TestProductEndpoints(t *testing.T) {
	withTestTransaction(t, func(db *gorm.DB) {
		router := newRouter(db)
		seller := seedUser(t, db, "seller@example.com", models.RoleSeller)
		buyer := seedUser(t, db, "buyer@example.com", models.RoleBuyer)
		category := models.Category{Name: "Bakery", IsActive: true}
		require.NoError(t, db.Create(&category).Error)

		payload := map[string]any{
			"name": "Bread", "price": 3.5, "stock": 10, "category_id": category.ID,
		}

		// buyers cannot own products
		w := doJSON(router, "POST", "/products", payload, tokenFor(t, buyer))
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = doJSON(router, "POST", "/products", payload, tokenFor(t, seller))
		assert.Equal(t, http.StatusCreated, w.Code)
		var product models.Product
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))
		assert.Equal(t, seller.ID, product.SellerID)
		assert.Equal(t, 0.0, product.Rating)

		w = doJSON(router, "GET", "/products/999", nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = doJSON(router, "DELETE", fmt.Sprintf("/products/%d", product.ID), nil, tokenFor(t, seller))
		assert.Equal(t, http.StatusOK, w.Code)

		w = doJSON(router, "GET", fmt.Sprintf("/products/%d", product.ID), nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
