// seed-admin creates or updates the operations console user (username: talentbridgeAdmin).
// Admin users have role = 'ADMIN'; every /checkins, /circumvention and /placements
// route requires that role.
//
// It also prints a signed service token for the user so Cloud Scheduler (or a local
// curl) can call POST /checkins/run-scheduler without going through /auth/login.
//
// Usage (from backend directory):
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-admin
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sohaibtahir00/job-portal-backend-sub003/config"
	"github.com/sohaibtahir00/job-portal-backend-sub003/models"
	"github.com/sohaibtahir00/job-portal-backend-sub003/utils"
	"gorm.io/gorm"
)

const (
	adminUsername = "talentbridgeAdmin"
	adminPassword = "T@lentBridgeAdmin"
	adminName     = "TalentBridge Admin"
)

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	hashed, err := utils.HashPassword(adminPassword)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}
	hashedStr := string(hashed)

	var existing models.User
	err = db.WithContext(ctx).Model(&models.User{}).Where("username = ?", adminUsername).First(&existing).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			fmt.Fprintf(os.Stderr, "failed to lookup user: %v\n", err)
			os.Exit(1)
		}
		// Create new admin user
		u := models.User{
			Username: adminUsername,
			Name:     adminName,
			Password: hashedStr,
			IsActive: utils.NewTrue(),
			Role:     models.UserRoleAdmin,
		}
		if err := db.WithContext(ctx).Create(&u).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to create admin user: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Created admin user: username=%q (role=ADMIN)\n", adminUsername)
		printServiceToken(u.ID)
		return
	}

	// Update existing user: ensure password and admin role. The User update
	// hook drops the cached copy so the next login sees the new password.
	if err := db.WithContext(ctx).Model(&existing).Updates(map[string]any{
		"password":  hashedStr,
		"name":      adminName,
		"is_active": utils.NewTrue(),
		"role":      models.UserRoleAdmin,
	}).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to update admin user: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Updated admin user: username=%q (role=ADMIN)\n", adminUsername)
	printServiceToken(existing.ID)
}

func printServiceToken(userID int) {
	if os.Getenv("TOKEN_HOUR_LIFESPAN") == "" {
		os.Setenv("TOKEN_HOUR_LIFESPAN", "24")
	}
	token, err := utils.JwtGenerate(userID, string(models.UserRoleAdmin))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to sign service token: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Service token (Authorization: Bearer ...):\n%s\n", token)
}
