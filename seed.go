package main

import (
	"log"
	"os"

	"home-services-server/database"
	"home-services-server/models"
	"home-services-server/utils"
)

// seedDemoData populates a development database with an admin account and a
// couple of providers with listings. Gated on SEED_DEMO_DATA=true and skipped
// whenever any user already exists.
func seedDemoData() {
	if os.Getenv("SEED_DEMO_DATA") != "true" {
		return
	}

	var userCount int64
	database.DB.Model(&models.User{}).Count(&userCount)
	if userCount > 0 {
		log.Println("⚠️ Seed skipped: database already has users")
		return
	}

	adminHash, err := utils.HashPassword("admin-change-me")
	if err != nil {
		log.Printf("❌ Seed failed: %v", err)
		return
	}

	admin := models.User{
		Username:     "admin",
		Email:        "admin@homeservices.local",
		PasswordHash: adminHash,
		IsAdmin:      true,
	}
	if err := database.DB.Create(&admin).Error; err != nil {
		log.Printf("❌ Seed failed creating admin: %v", err)
		return
	}

	demoHash, _ := utils.HashPassword("password123")

	providers := []struct {
		username   string
		email      string
		nationalID string
		location   string
		services   []models.Service
	}{
		{
			username:   "amina_clean",
			email:      "amina@homeservices.local",
			nationalID: "NID-1001",
			location:   "Nouakchott",
			services: []models.Service{
				{Title: "Deep House Cleaning", Description: "Full-home deep clean including kitchen and bathrooms", Price: 45, Category: "Cleaning", Duration: 180},
				{Title: "Window Cleaning", Description: "Interior and exterior window wash", Price: 25, Category: "Cleaning", Duration: 90},
			},
		},
		{
			username:   "omar_fixit",
			email:      "omar@homeservices.local",
			nationalID: "NID-1002",
			location:   "Nouadhibou",
			services: []models.Service{
				{Title: "Leak Repair", Description: "Fix leaking pipes, taps and joints", Price: 35, Category: "Plumbing", Duration: 60},
				{Title: "Ceiling Fan Installation", Description: "Mount and wire ceiling fans", Price: 30, Category: "Electrical", Duration: 45},
			},
		},
	}

	for _, p := range providers {
		user := models.User{
			Username:     p.username,
			Email:        p.email,
			PasswordHash: demoHash,
		}
		if err := database.DB.Create(&user).Error; err != nil {
			log.Printf("❌ Seed failed creating user %s: %v", p.username, err)
			continue
		}

		provider := models.Provider{
			ID:         user.ID,
			NationalID: p.nationalID,
			Location:   p.location,
			IsVerified: true,
		}
		if err := database.DB.Create(&provider).Error; err != nil {
			log.Printf("❌ Seed failed creating provider %s: %v", p.username, err)
			continue
		}

		for _, s := range p.services {
			s.UserID = user.ID
			s.ProviderID = provider.ID
			if err := database.DB.Create(&s).Error; err != nil {
				log.Printf("❌ Seed failed creating service %q: %v", s.Title, err)
			}
		}
	}

	log.Println("✅ Demo data seeded")
}
