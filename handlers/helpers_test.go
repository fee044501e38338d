package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"littlelemon-api/config"
	"littlelemon-api/middleware"
	"littlelemon-api/models"
	"littlelemon-api/routes"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// setupRouter wires a fresh in-memory database (one per test, keyed by test
// name so parallel packages don't collide) and the full route table.
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := "file:" + strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()) +
		"?mode=memory&cache=shared"
	require.NoError(t, config.Open(dsn))
	require.NoError(t, config.SeedGroups())

	r := gin.New()
	routes.SetupRoutes(r)
	return r
}

// createUser inserts a user holding the given groups and returns it with a
// bearer token ready for requests.
func createUser(t *testing.T, username string, groups ...string) (*models.User, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
	}
	for _, name := range groups {
		var g models.Group
		require.NoError(t, config.DB.Where("name = ?", name).First(&g).Error)
		user.Groups = append(user.Groups, g)
	}
	require.NoError(t, config.DB.Create(&user).Error)

	token, err := middleware.GenerateToken(&user)
	require.NoError(t, err)
	return &user, token
}

func createCategory(t *testing.T, slug, title string) *models.Category {
	t.Helper()
	category := models.Category{Slug: slug, Title: title}
	require.NoError(t, config.DB.Create(&category).Error)
	return &category
}

func createMenuItem(t *testing.T, title string, price float64, categoryID uint) *models.MenuItem {
	t.Helper()
	item := models.MenuItem{Title: title, Price: price, CategoryID: categoryID}
	require.NoError(t, config.DB.Create(&item).Error)
	return &item
}

// doRequest performs a JSON request against the router; token may be empty
// for unauthenticated calls.
func doRequest(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func addCartLine(t *testing.T, r *gin.Engine, token, title string, quantity int) {
	t.Helper()
	w := doRequest(t, r, http.MethodPost, "/api/cart/menu-items", token, gin.H{
		"menuitem": title,
		"quantity": quantity,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}
