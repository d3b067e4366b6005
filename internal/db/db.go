package db

import (
	"log"
	"os"

	"byteandbeyond/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=byteandbeyond port=5432 sslmode=disable TimeZone=UTC"
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	if err := Migrate(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	seedCategories()
}

// Migrate runs auto-migration for every model. Split out from Init so
// tests can run it against their own connection.
func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Post{},
		&models.Comment{},
		&models.Reply{},
		&models.Reaction{},
		&models.Media{},
	)
}

func seedCategories() {
	var count int64
	DB.Model(&models.Category{}).Count(&count)
	if count > 0 {
		log.Println("Categories already seeded, skipping")
		return
	}

	categories := []models.Category{
		{Name: "Technology", Slug: "technology", Description: "Software, hardware and everything in between", Color: "#1a8917", Icon: "cpu", SortOrder: 1},
		{Name: "Design", Slug: "design", Description: "Visual design, UX and product thinking", Color: "#7c3aed", Icon: "pen-tool", SortOrder: 2},
		{Name: "Science", Slug: "science", Description: "Research, discoveries and explainers", Color: "#0ea5e9", Icon: "flask", SortOrder: 3},
		{Name: "Culture", Slug: "culture", Description: "Books, media and the world around us", Color: "#f59e0b", Icon: "globe", SortOrder: 4},
		{Name: "Life", Slug: "life", Description: "Essays, journals and personal stories", Color: "#ef4444", Icon: "heart", SortOrder: 5},
	}

	for _, category := range categories {
		if err := DB.Create(&category).Error; err != nil {
			log.Printf("Failed to create category %s: %v", category.Name, err)
		}
	}
	log.Println("Initial categories created successfully")
}
