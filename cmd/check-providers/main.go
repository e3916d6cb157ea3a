package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

// Reports which providers are configured and summarizes resolution results
// stored in the local database.
func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./dishpin.db"
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	fmt.Println("Checking Resolution Setup")
	fmt.Println("=========================")

	visionKey := os.Getenv("GOOGLE_VISION_API_KEY")
	ocrSpaceKey := os.Getenv("OCRSPACE_API_KEY")
	placesKey := os.Getenv("GOOGLE_PLACES_API_KEY")

	if visionKey == "" && ocrSpaceKey == "" {
		fmt.Println("WARNING: no OCR provider key configured")
		fmt.Println("  Set GOOGLE_VISION_API_KEY or OCRSPACE_API_KEY")
	} else {
		fmt.Println("OCR providers:")
		fmt.Printf("  - Google Vision: %s\n", enabled(visionKey != ""))
		fmt.Printf("  - OCR.space:     %s\n", enabled(ocrSpaceKey != ""))
	}

	fmt.Printf("Place search: Google Places %s\n", enabled(placesKey != ""))
	fmt.Println()

	var mediaCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM media_items").Scan(&mediaCount); err != nil {
		log.Fatal("Failed to count media items:", err)
	}
	fmt.Printf("Media items: %d\n", mediaCount)

	rows, err := db.Query("SELECT status, COUNT(*) FROM media_items GROUP BY status ORDER BY status")
	if err != nil {
		log.Fatal("Failed to count statuses:", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			log.Fatal("Failed to scan status count:", err)
		}
		fmt.Printf("  - %s: %d\n", status, count)
	}

	var restaurantCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM restaurants").Scan(&restaurantCount); err != nil {
		log.Fatal("Failed to count restaurants:", err)
	}
	fmt.Printf("Restaurants: %d\n", restaurantCount)

	var cacheCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM place_cache").Scan(&cacheCount); err != nil {
		log.Fatal("Failed to count cache entries:", err)
	}
	fmt.Printf("Cache entries: %d\n", cacheCount)
}

func enabled(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}
