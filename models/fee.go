package models

import "github.com/shopspring/decimal"

// Placement fees are a percentage of first-year salary, picked by the
// candidate's experience level. Salaries and all derived amounts are
// integer minor units (cents).

var (
	feePercentageStandard  = decimal.NewFromFloat(0.15)
	feePercentageSenior    = decimal.NewFromFloat(0.18)
	feePercentageExecutive = decimal.NewFromFloat(0.20)

	upfrontShare = decimal.NewFromFloat(0.5)
)

// CalculateFeePercentage maps an experience level to its fee rate.
// Unrecognized levels bill at the senior rate; the calculator never fails.
func CalculateFeePercentage(level ExperienceLevel) decimal.Decimal {
	switch level {
	case ExperienceLevelEntry, ExperienceLevelMid:
		return feePercentageStandard
	case ExperienceLevelSenior:
		return feePercentageSenior
	case ExperienceLevelExecutive:
		return feePercentageExecutive
	default:
		return feePercentageSenior
	}
}

type FeeBreakdown struct {
	FeePercentage   decimal.Decimal `json:"feePercentage"`
	PlacementFee    decimal.Decimal `json:"placementFee"`
	UpfrontAmount   decimal.Decimal `json:"upfrontAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
}

// CalculatePlacementFee splits the fee into the upfront and remaining
// installments. Rounding happens on the fee and the upfront half; the
// remainder absorbs the difference so the two installments always add up
// to the fee exactly.
func CalculatePlacementFee(salary decimal.Decimal, level ExperienceLevel) FeeBreakdown {
	pct := CalculateFeePercentage(level)
	fee := salary.Mul(pct).Round(0)
	upfront := fee.Mul(upfrontShare).Round(0)
	remaining := fee.Sub(upfront)

	return FeeBreakdown{
		FeePercentage:   pct,
		PlacementFee:    fee,
		UpfrontAmount:   upfront,
		RemainingAmount: remaining,
	}
}
