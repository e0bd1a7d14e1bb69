package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/sohaibtahir00/job-portal-backend-sub003/config"
	"github.com/sohaibtahir00/job-portal-backend-sub003/utils"
)

// CircumventionFlagExportRow is one ledger line for the finance export.
// Candidate and job columns are null for manual flags raised before an
// introduction was on record.
type CircumventionFlagExportRow struct {
	FlagId           int              `json:"flagId"`
	DetectedAt       time.Time        `json:"detectedAt"`
	DetectionMethod  string           `json:"detectionMethod"`
	Status           string           `json:"status"`
	EmployerName     *string          `json:"employerName"`
	CandidateName    *string          `json:"candidateName"`
	JobTitle         *string          `json:"jobTitle"`
	EstimatedFeeOwed *decimal.Decimal `json:"estimatedFeeOwed"`
	InvoiceAmount    *decimal.Decimal `json:"invoiceAmount"`
	ResolvedAt       *time.Time       `json:"resolvedAt"`
	Notes            *string          `json:"notes"`
}

func GetCircumventionFlagExport(ctx context.Context) ([]*CircumventionFlagExportRow, error) {
	started := time.Now()
	cacheKey := "Report:CircumventionFlagExport"

	if reportCacheEnabled() {
		var cached []*CircumventionFlagExportRow
		if ok, err := cacheGet(cacheKey, &cached); err == nil && ok {
			return cached, nil
		}
	}

	sql := `
SELECT
    cf.id AS flag_id,
    cf.detected_at,
    cf.detection_method,
    cf.status,
    employers.company_name AS employer_name,
    CONCAT(candidates.first_name, ' ', candidates.last_name) AS candidate_name,
    jobs.title AS job_title,
    cf.estimated_fee_owed,
    cf.invoice_amount,
    cf.resolved_at,
    cf.notes
FROM
    circumvention_flags cf
    LEFT JOIN employers ON employers.id = cf.employer_id
    LEFT JOIN introductions ON introductions.id = cf.introduction_id
    LEFT JOIN candidates ON candidates.id = introductions.candidate_id
    LEFT JOIN jobs ON jobs.id = introductions.job_id
ORDER BY
    cf.detected_at DESC;
`

	var records []*CircumventionFlagExportRow
	db := config.GetDB()
	if err := db.WithContext(ctx).Raw(sql).Scan(&records).Error; err != nil {
		return nil, err
	}

	if reportCacheEnabled() {
		_ = cacheSet(cacheKey, records, reportCacheTTL())
	}
	logSlowReport(ctx, "circumvention_flag_export", started, map[string]any{"rows": len(records)})

	return records, nil
}

// BuildCircumventionFlagExcel renders the ledger export as a workbook. The
// caller owns the response headers and the final Write.
func BuildCircumventionFlagExcel(ctx context.Context) (*excelize.File, error) {
	data, err := GetCircumventionFlagExport(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheetName := "Sheet1"
	if _, err := f.NewSheet(sheetName); err != nil {
		return nil, err
	}

	// Add headers
	headings := []string{
		"FlagId", "DetectedAt", "DetectionMethod", "Status", "Employer",
		"Candidate", "JobTitle", "EstimatedFeeOwed", "InvoiceAmount",
		"ResolvedAt", "Notes",
	}
	col := 'A'
	for _, h := range headings {
		f.SetCellValue(sheetName, string(col)+"1", h)
		col++
	}

	// Add data
	for i, d := range data {
		row := fmt.Sprint(i + 2)
		f.SetCellValue(sheetName, "A"+row, d.FlagId)
		f.SetCellValue(sheetName, "B"+row, d.DetectedAt.Format(time.RFC3339))
		f.SetCellValue(sheetName, "C"+row, d.DetectionMethod)
		f.SetCellValue(sheetName, "D"+row, d.Status)
		f.SetCellValue(sheetName, "E"+row, utils.DereferencePtr(d.EmployerName, ""))
		f.SetCellValue(sheetName, "F"+row, utils.DereferencePtr(d.CandidateName, ""))
		f.SetCellValue(sheetName, "G"+row, utils.DereferencePtr(d.JobTitle, ""))
		if d.EstimatedFeeOwed != nil {
			f.SetCellValue(sheetName, "H"+row, d.EstimatedFeeOwed.String())
		}
		if d.InvoiceAmount != nil {
			f.SetCellValue(sheetName, "I"+row, d.InvoiceAmount.String())
		}
		if d.ResolvedAt != nil {
			f.SetCellValue(sheetName, "J"+row, d.ResolvedAt.Format(time.RFC3339))
		}
		f.SetCellValue(sheetName, "K"+row, utils.DereferencePtr(d.Notes, ""))
	}

	return f, nil
}
