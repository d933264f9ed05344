package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			for _, table := range []string{"requisitions", "equipment_items", "categories", "user_profiles", "users"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		staffID := seedUser(db, "dina@mail.com", "Dina Staff", string(hash), "staff")
		seedUserProfile(db, staffID, "PT Maju Bersama", "Jakarta", "General Affairs", "GA-001")

		userID := seedUser(db, "bagus@mail.com", "Bagus", string(hash), "user")
		seedUserProfile(db, userID, "PT Maju Bersama", "Bandung", "Engineering", "ENG-042")

		categories := []struct {
			Name string
			Desc string
		}{
			{"Laptops", "Portable workstations"},
			{"Projectors", "Meeting room projectors"},
			{"Cameras", "Field documentation cameras"},
		}

		for _, c := range categories {
			var cid int64
			row := db.Raw("SELECT id FROM categories WHERE name = ?", c.Name).Row()
			if err := row.Scan(&cid); err == nil {
				continue
			}
			if err := db.Exec("INSERT INTO categories (name, description, created_at, updated_at) VALUES (?, ?, now(), now())", c.Name, c.Desc).Error; err != nil {
				log.Fatalf("failed to insert category %s: %v", c.Name, err)
			}
			fmt.Println("Seeded category:", c.Name)
		}

		equipment := []struct {
			Name     string
			Category string
			Serial   string
			Total    int
		}{
			{"ThinkPad T14", "Laptops", "TP-T14-0001", 5},
			{"MacBook Air M2", "Laptops", "MBA-M2-0001", 3},
			{"Epson EB-X06", "Projectors", "EP-X06-0001", 2},
			{"Canon EOS R10", "Cameras", "CN-R10-0001", 4},
		}

		for _, e := range equipment {
			var eid int64
			row := db.Raw("SELECT id FROM equipment_items WHERE serial_number = ?", e.Serial).Row()
			if err := row.Scan(&eid); err == nil {
				continue
			}

			var cid int64
			if err := db.Raw("SELECT id FROM categories WHERE name = ?", e.Category).Row().Scan(&cid); err != nil {
				log.Fatalf("category not found for equipment %s: %v", e.Name, err)
			}

			if err := db.Exec("INSERT INTO equipment_items (name, category_id, serial_number, status, total_quantity, available_quantity, created_at, updated_at) VALUES (?, ?, ?, 'AVAILABLE', ?, ?, now(), now())",
				e.Name, cid, e.Serial, e.Total, e.Total).Error; err != nil {
				log.Fatalf("failed to insert equipment %s: %v", e.Name, err)
			}
			fmt.Println("Seeded equipment:", e.Name)
		}

		fmt.Println("Seeding complete. Login with dina@mail.com / password (staff) or bagus@mail.com / password")
	},
}

func seedUser(db *gorm.DB, email, name, hash, role string) int64 {
	var id int64
	if err := db.Raw("SELECT id FROM users WHERE email = ?", email).Row().Scan(&id); err == nil {
		fmt.Println("user already exists:", email)
		return id
	}

	if err := db.Exec("INSERT INTO users (email, name, password_hash, role, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, true, now(), now())",
		email, name, hash, role).Error; err != nil {
		log.Fatalf("failed to insert user %s: %v", email, err)
	}

	if err := db.Raw("SELECT id FROM users WHERE email = ?", email).Row().Scan(&id); err != nil {
		log.Fatalf("failed to lookup user id for %s: %v", email, err)
	}
	fmt.Println("Seeded user:", email)
	return id
}

func seedUserProfile(db *gorm.DB, userID int64, company, branch, department, employeeID string) {
	var exists int
	if err := db.Raw("SELECT 1 FROM user_profiles WHERE user_id = ?", userID).Row().Scan(&exists); err == nil {
		return
	}

	if err := db.Exec("INSERT INTO user_profiles (user_id, company, branch, department, employee_id) VALUES (?, ?, ?, ?, ?)",
		userID, company, branch, department, employeeID).Error; err != nil {
		log.Fatalf("failed to insert profile for user %d: %v", userID, err)
	}
}
