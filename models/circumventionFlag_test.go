package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestAssembleCircumventionStats_Empty(t *testing.T) {
	stats := assembleCircumventionStats(nil, 0, CircumventionRevenue{}, nil)

	if stats.Total != 0 {
		t.Fatalf("expected total 0, got %d", stats.Total)
	}
	if stats.ActionRequired != 0 {
		t.Fatalf("expected actionRequired 0, got %d", stats.ActionRequired)
	}
	if len(stats.ByStatus) != 7 {
		t.Fatalf("expected all 7 statuses present, got %d", len(stats.ByStatus))
	}
	for status, count := range stats.ByStatus {
		if count != 0 {
			t.Fatalf("expected byStatus[%s] 0, got %d", status, count)
		}
	}
	if stats.DetectionMethods == nil || len(stats.DetectionMethods) != 0 {
		t.Fatalf("expected empty detectionMethods slice, got %v", stats.DetectionMethods)
	}
	// Zero-value decimals still render "0" in the payload.
	if stats.Revenue.Potential.String() != "0" ||
		stats.Revenue.Collected.String() != "0" ||
		stats.Revenue.Pending.String() != "0" {
		t.Fatalf("expected zero revenue, got %+v", stats.Revenue)
	}
}

func TestAssembleCircumventionStats_Totals(t *testing.T) {
	rows := []flagStatusCount{
		{Status: FlagStatusOpen, Count: 3},
		{Status: FlagStatusInvestigating, Count: 2},
		{Status: FlagStatusInvoiceSent, Count: 4},
		{Status: FlagStatusPaid, Count: 5},
		{Status: FlagStatusWroteOff, Count: 1},
	}
	revenue := CircumventionRevenue{
		Potential: decimal.NewFromInt(1800000),
		Collected: decimal.NewFromInt(900000),
		Pending:   decimal.NewFromInt(450000),
	}
	methods := []*DetectionMethodCount{
		{Method: DetectionMethodCheckinResponse, Count: 9},
		{Method: DetectionMethodManual, Count: 6},
	}

	stats := assembleCircumventionStats(rows, 4, revenue, methods)

	if stats.Total != 15 {
		t.Fatalf("expected total 15, got %d", stats.Total)
	}
	if stats.ActionRequired != 5 {
		t.Fatalf("expected actionRequired 5 (open + investigating), got %d", stats.ActionRequired)
	}
	if stats.ByStatus[FlagStatusPaid] != 5 {
		t.Fatalf("expected byStatus[PAID] 5, got %d", stats.ByStatus[FlagStatusPaid])
	}
	if stats.ByStatus[FlagStatusDisputed] != 0 {
		t.Fatalf("expected byStatus[DISPUTED] 0 when no rows carry it, got %d", stats.ByStatus[FlagStatusDisputed])
	}
	if stats.RecentFlags != 4 {
		t.Fatalf("expected recentFlags 4, got %d", stats.RecentFlags)
	}
	if !stats.Revenue.Potential.Equal(decimal.NewFromInt(1800000)) {
		t.Fatalf("expected potential 1800000, got %s", stats.Revenue.Potential)
	}
	if len(stats.DetectionMethods) != 2 || stats.DetectionMethods[0].Count != 9 {
		t.Fatalf("expected detection method counts passed through, got %v", stats.DetectionMethods)
	}
}
