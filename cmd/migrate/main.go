package main

import (
	"log"

	"ai-medreport-be/internal/config"
	"ai-medreport-be/internal/model"
	"ai-medreport-be/pkg/database"
)

func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}

	log.Println("Running migrations...")
	if err := db.AutoMigrate(&model.MedicalReport{}); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("✅ Migrations completed")
}
