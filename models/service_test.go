package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func serviceTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.AutoMigrate(&User{}, &Provider{}, &Service{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func TestServiceRatingClampedOnSave(t *testing.T) {
	db := serviceTestDB(t)

	tests := []struct {
		name   string
		rating float64
		want   float64
	}{
		{"above five clamps to five", 7.2, 5},
		{"negative clamps to zero", -1, 0},
		{"in range unchanged", 4.3, 4.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := Service{
				Title:       "Test Listing",
				Description: "desc",
				Price:       10,
				Rating:      tt.rating,
				Category:    "Cleaning",
				Duration:    30,
				UserID:      1,
				ProviderID:  1,
			}
			assert.NoError(t, db.Create(&service).Error)

			var saved Service
			assert.NoError(t, db.First(&saved, service.ID).Error)
			assert.Equal(t, tt.want, saved.Rating)
		})
	}
}

func TestServiceCategoriesNonEmpty(t *testing.T) {
	categories := ServiceCategories()
	assert.NotEmpty(t, categories)
	assert.Contains(t, categories, "Plumbing")
}
