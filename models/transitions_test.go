package models

import (
	"errors"
	"testing"
	"time"

	"github.com/sohaibtahir00/job-portal-backend-sub003/utils"
)

func TestIntroductionTransitions(t *testing.T) {
	allowed := []struct{ from, to IntroductionStatus }{
		{IntroductionStatusIntroduced, IntroductionStatusAwaitingResponse},
		{IntroductionStatusIntroduced, IntroductionStatusConfirmed},
		{IntroductionStatusIntroduced, IntroductionStatusDeclined},
		{IntroductionStatusIntroduced, IntroductionStatusExpired},
		{IntroductionStatusIntroduced, IntroductionStatusPlaced},
		{IntroductionStatusAwaitingResponse, IntroductionStatusConfirmed},
		{IntroductionStatusAwaitingResponse, IntroductionStatusDeclined},
		{IntroductionStatusAwaitingResponse, IntroductionStatusExpired},
		{IntroductionStatusAwaitingResponse, IntroductionStatusPlaced},
		{IntroductionStatusConfirmed, IntroductionStatusPlaced},
		{IntroductionStatusConfirmed, IntroductionStatusDeclined},
	}
	for _, tc := range allowed {
		if err := ValidateIntroductionTransition(tc.from, tc.to); err != nil {
			t.Fatalf("%s -> %s should be allowed, got %v", tc.from, tc.to, err)
		}
	}

	rejected := []struct{ from, to IntroductionStatus }{
		{IntroductionStatusAwaitingResponse, IntroductionStatusIntroduced},
		{IntroductionStatusConfirmed, IntroductionStatusAwaitingResponse},
		{IntroductionStatusConfirmed, IntroductionStatusExpired},
	}
	for _, tc := range rejected {
		err := ValidateIntroductionTransition(tc.from, tc.to)
		if err == nil {
			t.Fatalf("%s -> %s should be rejected", tc.from, tc.to)
		}
		if !errors.Is(err, utils.ErrorInvalidTransition) {
			t.Fatalf("%s -> %s: expected ErrorInvalidTransition, got %v", tc.from, tc.to, err)
		}
	}
}

func TestIntroductionTransitions_TerminalStatesAreClosed(t *testing.T) {
	terminal := []IntroductionStatus{
		IntroductionStatusPlaced,
		IntroductionStatusDeclined,
		IntroductionStatusExpired,
	}
	all := []IntroductionStatus{
		IntroductionStatusIntroduced,
		IntroductionStatusAwaitingResponse,
		IntroductionStatusConfirmed,
		IntroductionStatusDeclined,
		IntroductionStatusPlaced,
		IntroductionStatusExpired,
	}
	for _, from := range terminal {
		for _, to := range all {
			err := ValidateIntroductionTransition(from, to)
			if err == nil {
				t.Fatalf("terminal status %s must not move to %s", from, to)
			}
			if !errors.Is(err, utils.ErrorInvalidTransition) {
				t.Fatalf("%s -> %s: expected ErrorInvalidTransition, got %v", from, to, err)
			}
		}
	}
}

func TestCircumventionFlagTransitions(t *testing.T) {
	allowed := []struct{ from, to CircumventionFlagStatus }{
		{FlagStatusOpen, FlagStatusInvestigating},
		{FlagStatusOpen, FlagStatusFalsePositive},
		{FlagStatusInvestigating, FlagStatusInvoiceSent},
		{FlagStatusInvestigating, FlagStatusFalsePositive},
		{FlagStatusInvoiceSent, FlagStatusPaid},
		{FlagStatusInvoiceSent, FlagStatusDisputed},
		{FlagStatusInvoiceSent, FlagStatusWroteOff},
		{FlagStatusDisputed, FlagStatusPaid},
		{FlagStatusDisputed, FlagStatusWroteOff},
	}
	for _, tc := range allowed {
		if err := ValidateCircumventionFlagTransition(tc.from, tc.to); err != nil {
			t.Fatalf("%s -> %s should be allowed, got %v", tc.from, tc.to, err)
		}
	}

	rejected := []struct{ from, to CircumventionFlagStatus }{
		{FlagStatusOpen, FlagStatusPaid},           // must be invoiced first
		{FlagStatusOpen, FlagStatusInvoiceSent},    // investigation comes first
		{FlagStatusInvestigating, FlagStatusPaid},  // same
		{FlagStatusDisputed, FlagStatusInvestigating},
		{FlagStatusInvoiceSent, FlagStatusFalsePositive}, // too late once invoiced
	}
	for _, tc := range rejected {
		if err := ValidateCircumventionFlagTransition(tc.from, tc.to); err == nil {
			t.Fatalf("%s -> %s should be rejected", tc.from, tc.to)
		}
	}

	for _, closed := range []CircumventionFlagStatus{FlagStatusPaid, FlagStatusFalsePositive, FlagStatusWroteOff} {
		if !closed.IsClosed() {
			t.Fatalf("%s should report IsClosed", closed)
		}
		if err := ValidateCircumventionFlagTransition(closed, FlagStatusOpen); err == nil {
			t.Fatalf("closed status %s must not reopen", closed)
		}
	}
}

func TestPlacementTransitions(t *testing.T) {
	if err := ValidatePlacementTransition(PlacementStatusPending, PlacementStatusUpfrontPaid); err != nil {
		t.Fatalf("PENDING -> UPFRONT_PAID should be allowed, got %v", err)
	}
	if err := ValidatePlacementTransition(PlacementStatusUpfrontPaid, PlacementStatusCompleted); err != nil {
		t.Fatalf("UPFRONT_PAID -> COMPLETED should be allowed, got %v", err)
	}
	for _, from := range []PlacementStatus{PlacementStatusPending, PlacementStatusUpfrontPaid} {
		if err := ValidatePlacementTransition(from, PlacementStatusCancelled); err != nil {
			t.Fatalf("%s -> CANCELLED should be allowed, got %v", from, err)
		}
	}

	// The remaining installment cannot be recorded before the upfront one.
	if err := ValidatePlacementTransition(PlacementStatusPending, PlacementStatusCompleted); err == nil {
		t.Fatal("PENDING -> COMPLETED should be rejected")
	}
	for _, closed := range []PlacementStatus{PlacementStatusCompleted, PlacementStatusCancelled} {
		for _, to := range []PlacementStatus{PlacementStatusPending, PlacementStatusUpfrontPaid, PlacementStatusCompleted, PlacementStatusCancelled} {
			if err := ValidatePlacementTransition(closed, to); err == nil {
				t.Fatalf("closed status %s must not move to %s", closed, to)
			}
		}
	}
}

func TestCheckInStateDerivation(t *testing.T) {
	now := time.Now().UTC()

	c := &CheckIn{}
	if got := c.State(); got != CheckInStateScheduled {
		t.Fatalf("fresh row expected SCHEDULED, got %s", got)
	}
	c.SentAt = &now
	if got := c.State(); got != CheckInStateSent {
		t.Fatalf("sent row expected SENT, got %s", got)
	}
	c.RespondedAt = &now
	if got := c.State(); got != CheckInStateResponded {
		t.Fatalf("responded row expected RESPONDED, got %s", got)
	}
}

func TestCheckInExpiredUnresponded(t *testing.T) {
	now := time.Now().UTC()
	sent := now.Add(-15 * 24 * time.Hour)

	c := &CheckIn{SentAt: &sent, ResponseTokenExpiry: now.Add(-time.Hour)}
	if !c.ExpiredUnresponded(now) {
		t.Fatal("sent, unanswered, token lapsed: should be due for finalization")
	}

	// A reply, however late it was recorded, blocks finalization.
	c.RespondedAt = &now
	if c.ExpiredUnresponded(now) {
		t.Fatal("responded check-in must not be finalized as no_response")
	}

	// Never dispatched rows are resumed by the scheduler, not expired.
	c = &CheckIn{ResponseTokenExpiry: now.Add(-time.Hour)}
	if c.ExpiredUnresponded(now) {
		t.Fatal("unsent check-in must not be finalized as no_response")
	}

	// Live token.
	c = &CheckIn{SentAt: &sent, ResponseTokenExpiry: now.Add(time.Hour)}
	if c.ExpiredUnresponded(now) {
		t.Fatal("live token must not be finalized")
	}
}

func TestCheckInTransitions(t *testing.T) {
	if err := ValidateCheckInTransition(CheckInStateScheduled, CheckInStateSent); err != nil {
		t.Fatalf("SCHEDULED -> SENT should be allowed, got %v", err)
	}
	// Resend keeps a sent check-in sent.
	if err := ValidateCheckInTransition(CheckInStateSent, CheckInStateSent); err != nil {
		t.Fatalf("SENT -> SENT should be allowed, got %v", err)
	}
	if err := ValidateCheckInTransition(CheckInStateSent, CheckInStateResponded); err != nil {
		t.Fatalf("SENT -> RESPONDED should be allowed, got %v", err)
	}

	if err := ValidateCheckInTransition(CheckInStateScheduled, CheckInStateResponded); err == nil {
		t.Fatal("SCHEDULED -> RESPONDED should be rejected; a reply needs a dispatched email")
	}
	if err := ValidateCheckInTransition(CheckInStateResponded, CheckInStateSent); err == nil {
		t.Fatal("RESPONDED is closed")
	}
}
