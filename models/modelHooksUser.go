package models

import (
	"fmt"
	"strings"

	"github.com/sohaibtahir00/job-portal-backend-sub003/config"
	"gorm.io/gorm"
)

func (u *User) AfterCreate(tx *gorm.DB) (err error) {

	description := fmt.Sprintf("Registered %s user %q", strings.ToLower(string(u.Role)), u.Username)

	return createHistory(tx, "REGISTER", u.ID, tx.Statement.Table, nil, u, description)
}

func (u *User) BeforeUpdate(tx *gorm.DB) (err error) {
	if err := SaveHistoryUpdate(tx, u.ID, u, "Updated User"); err != nil {
		return err
	}

	// clearing cache
	if u.Username != "" {
		if err := config.RemoveRedisKey("User:" + u.Username); err != nil {
			return err
		}
	}

	return nil
}

func (u *User) AfterDelete(tx *gorm.DB) (err error) {
	if err := SaveHistoryDelete(tx, u.ID, u, "Deleted User"); err != nil {
		return err
	}

	// clearing cache
	if u.Username != "" {
		if err := config.RemoveRedisKey("User:" + u.Username); err != nil {
			return err
		}
	}

	return nil
}
