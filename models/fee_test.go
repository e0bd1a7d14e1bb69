package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCalculateFeePercentage_Levels(t *testing.T) {
	cases := []struct {
		level    ExperienceLevel
		expected string
	}{
		{ExperienceLevelEntry, "0.15"},
		{ExperienceLevelMid, "0.15"},
		{ExperienceLevelSenior, "0.18"},
		{ExperienceLevelExecutive, "0.2"},
		{ExperienceLevel(""), "0.18"},          // unknown bills at the senior rate
		{ExperienceLevel("PRINCIPAL"), "0.18"}, // so does anything unrecognized
	}
	for _, tc := range cases {
		got := CalculateFeePercentage(tc.level)
		if got.String() != tc.expected {
			t.Fatalf("CalculateFeePercentage(%q) expected %s, got %s", tc.level, tc.expected, got.String())
		}
	}
}

func TestCalculatePlacementFee_SeniorSplit(t *testing.T) {
	// 10,000,000 at the senior rate: 1,800,000 fee, split 900,000 / 900,000.
	breakdown := CalculatePlacementFee(decimal.NewFromInt(10000000), ExperienceLevelSenior)

	if breakdown.PlacementFee.String() != "1800000" {
		t.Fatalf("expected fee 1800000, got %s", breakdown.PlacementFee.String())
	}
	if breakdown.UpfrontAmount.String() != "900000" {
		t.Fatalf("expected upfront 900000, got %s", breakdown.UpfrontAmount.String())
	}
	if breakdown.RemainingAmount.String() != "900000" {
		t.Fatalf("expected remaining 900000, got %s", breakdown.RemainingAmount.String())
	}
	if breakdown.FeePercentage.String() != "0.18" {
		t.Fatalf("expected percentage 0.18, got %s", breakdown.FeePercentage.String())
	}
}

func TestCalculatePlacementFee_ZeroSalary(t *testing.T) {
	breakdown := CalculatePlacementFee(decimal.Zero, ExperienceLevelExecutive)
	if !breakdown.PlacementFee.IsZero() || !breakdown.UpfrontAmount.IsZero() || !breakdown.RemainingAmount.IsZero() {
		t.Fatalf("zero salary should produce a zero breakdown, got %+v", breakdown)
	}
}

func TestCalculatePlacementFee_InstallmentsSumToFee(t *testing.T) {
	// Salaries picked to produce fees that do not split evenly in half;
	// the remaining installment has to absorb the rounding difference.
	levels := []ExperienceLevel{
		ExperienceLevelEntry,
		ExperienceLevelMid,
		ExperienceLevelSenior,
		ExperienceLevelExecutive,
		ExperienceLevel("UNKNOWN"),
	}
	salaries := []int64{1, 7, 99, 333333, 46673, 6500001, 10000000, 123456789}

	for _, level := range levels {
		for _, salary := range salaries {
			b := CalculatePlacementFee(decimal.NewFromInt(salary), level)

			sum := b.UpfrontAmount.Add(b.RemainingAmount)
			if !sum.Equal(b.PlacementFee) {
				t.Fatalf("level %s salary %d: upfront %s + remaining %s != fee %s",
					level, salary, b.UpfrontAmount, b.RemainingAmount, b.PlacementFee)
			}
			if b.PlacementFee.Exponent() < 0 || b.UpfrontAmount.Exponent() < 0 {
				t.Fatalf("level %s salary %d: amounts must be whole units, got fee %s upfront %s",
					level, salary, b.PlacementFee, b.UpfrontAmount)
			}
			if b.RemainingAmount.IsNegative() {
				t.Fatalf("level %s salary %d: remaining went negative: %s", level, salary, b.RemainingAmount)
			}
		}
	}
}
