package config

import (
	"log"

	"littlelemon-api/models"

	"golang.org/x/crypto/bcrypt"
)

// SeedGroups makes sure the two staff groups exist.
func SeedGroups() error {
	for _, name := range []string{models.GroupManager, models.GroupDeliveryCrew} {
		if err := DB.FirstOrCreate(&models.Group{}, models.Group{Name: name}).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedAdmin creates an initial manager account from ADMIN_USERNAME /
// ADMIN_PASSWORD. Skipped when the env vars are absent or the user exists.
func SeedAdmin() error {
	username := getEnv("ADMIN_USERNAME", "")
	pass := getEnv("ADMIN_PASSWORD", "")
	if username == "" || pass == "" {
		log.Println("⚠️ skip seeding admin: missing ADMIN_USERNAME/ADMIN_PASSWORD")
		return nil
	}

	var count int64
	if err := DB.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("ℹ️ admin already exists:", username)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	var managers models.Group
	if err := DB.Where("name = ?", models.GroupManager).First(&managers).Error; err != nil {
		return err
	}
	admin := models.User{
		Username:     username,
		Email:        getEnv("ADMIN_EMAIL", username+"@littlelemon.local"),
		PasswordHash: string(hash),
		Groups:       []models.Group{managers},
	}
	return DB.Create(&admin).Error
}

// SeedCatalog loads a small sample menu so a fresh debug instance has
// something to browse. No-op once any category exists.
func SeedCatalog() error {
	var count int64
	DB.Model(&models.Category{}).Count(&count)
	if count > 0 {
		return nil
	}

	categories := []models.Category{
		{Slug: "appetizers", Title: "Appetizers"},
		{Slug: "mains", Title: "Mains"},
		{Slug: "desserts", Title: "Desserts"},
	}
	if err := DB.Create(&categories).Error; err != nil {
		return err
	}
	items := []models.MenuItem{
		{Title: "Greek salad", Price: 12.99, Featured: true, CategoryID: categories[0].ID},
		{Title: "Bruschetta", Price: 7.49, CategoryID: categories[0].ID},
		{Title: "Grilled fish", Price: 21.50, Featured: true, CategoryID: categories[1].ID},
		{Title: "Pasta", Price: 14.25, CategoryID: categories[1].ID},
		{Title: "Lemon cake", Price: 5.00, Featured: true, CategoryID: categories[2].ID},
	}
	return DB.Create(&items).Error
}
