package models

import (
	"fmt"

	"gorm.io/gorm"
)

func (i *Introduction) AfterCreate(tx *gorm.DB) (err error) {

	description := fmt.Sprintf("Introduction of candidate %d to employer %d", i.CandidateId, i.EmployerId)

	if err := SaveHistoryCreate(tx, i.ID, i, description); err != nil {
		return err
	}

	return nil
}

func (i *Introduction) BeforeUpdate(tx *gorm.DB) (err error) {
	if err := SaveHistoryUpdate(tx, i.ID, i, "Updated Introduction"); err != nil {
		return err
	}

	return nil
}

func (i *Introduction) AfterDelete(tx *gorm.DB) (err error) {
	if err := SaveHistoryDelete(tx, i.ID, i, "Deleted Introduction"); err != nil {
		return err
	}

	return nil
}

func (c *CheckIn) AfterCreate(tx *gorm.DB) (err error) {

	description := fmt.Sprintf("Check-in %d scheduled for introduction %d", c.CheckInNumber, c.IntroductionId)

	if err := SaveHistoryCreate(tx, c.ID, c, description); err != nil {
		return err
	}

	return nil
}

func (c *CheckIn) BeforeUpdate(tx *gorm.DB) (err error) {
	if err := SaveHistoryUpdate(tx, c.ID, c, "Updated CheckIn"); err != nil {
		return err
	}

	return nil
}

func (c *CheckIn) AfterDelete(tx *gorm.DB) (err error) {
	if err := SaveHistoryDelete(tx, c.ID, c, "Deleted CheckIn"); err != nil {
		return err
	}

	return nil
}

func (f *CircumventionFlag) AfterCreate(tx *gorm.DB) (err error) {

	description := fmt.Sprintf("Circumvention flag opened for introduction %d via %s", f.IntroductionId, f.DetectionMethod)
	if f.EstimatedFeeOwed != nil {
		description = fmt.Sprintf("%s, estimated fee owed %v", description, *f.EstimatedFeeOwed)
	}

	if err := SaveHistoryCreate(tx, f.ID, f, description); err != nil {
		return err
	}

	return nil
}

func (f *CircumventionFlag) BeforeUpdate(tx *gorm.DB) (err error) {
	if err := SaveHistoryUpdate(tx, f.ID, f, "Updated CircumventionFlag"); err != nil {
		return err
	}

	return nil
}

func (f *CircumventionFlag) AfterDelete(tx *gorm.DB) (err error) {
	if err := SaveHistoryDelete(tx, f.ID, f, "Deleted CircumventionFlag"); err != nil {
		return err
	}

	return nil
}

func (p *Placement) AfterCreate(tx *gorm.DB) (err error) {

	description := fmt.Sprintf("Placement created for fee %v", p.PlacementFee)

	if err := SaveHistoryCreate(tx, p.ID, p, description); err != nil {
		return err
	}

	return nil
}

func (p *Placement) BeforeUpdate(tx *gorm.DB) (err error) {
	if err := SaveHistoryUpdate(tx, p.ID, p, "Updated Placement"); err != nil {
		return err
	}

	return nil
}

func (p *Placement) AfterDelete(tx *gorm.DB) (err error) {
	if err := SaveHistoryDelete(tx, p.ID, p, "Deleted Placement"); err != nil {
		return err
	}

	return nil
}
