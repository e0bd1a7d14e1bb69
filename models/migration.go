package models

import (
	"log"

	"github.com/sohaibtahir00/job-portal-backend-sub003/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&User{},
		&Candidate{}, &Employer{}, &Job{},
		&Application{}, &Interview{}, &Assessment{},
		&Introduction{}, &CheckIn{},
		&CircumventionFlag{}, &Placement{},
		&Notification{}, &History{}, &EventRecord{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
