package models

import (
	"fmt"

	"github.com/sohaibtahir00/job-portal-backend-sub003/utils"
)

// Every status update in this package goes through one of the tables below.
// An edge that is not listed is rejected; a state with no entry is closed.

var introductionTransitions = map[IntroductionStatus][]IntroductionStatus{
	IntroductionStatusIntroduced: {
		IntroductionStatusAwaitingResponse,
		IntroductionStatusConfirmed,
		IntroductionStatusDeclined,
		IntroductionStatusExpired,
		IntroductionStatusPlaced,
	},
	IntroductionStatusAwaitingResponse: {
		IntroductionStatusConfirmed,
		IntroductionStatusDeclined,
		IntroductionStatusExpired,
		IntroductionStatusPlaced,
	},
	IntroductionStatusConfirmed: {
		IntroductionStatusPlaced,
		IntroductionStatusDeclined,
	},
}

// FALSE_POSITIVE is reachable from OPEN and INVESTIGATING only. PAID,
// FALSE_POSITIVE and WROTE_OFF are closed; DISPUTED stays live until the
// dispute resolves into PAID or WROTE_OFF.
var circumventionFlagTransitions = map[CircumventionFlagStatus][]CircumventionFlagStatus{
	FlagStatusOpen: {
		FlagStatusInvestigating,
		FlagStatusFalsePositive,
	},
	FlagStatusInvestigating: {
		FlagStatusInvoiceSent,
		FlagStatusFalsePositive,
	},
	FlagStatusInvoiceSent: {
		FlagStatusPaid,
		FlagStatusDisputed,
		FlagStatusWroteOff,
	},
	FlagStatusDisputed: {
		FlagStatusPaid,
		FlagStatusWroteOff,
	},
}

var placementTransitions = map[PlacementStatus][]PlacementStatus{
	PlacementStatusPending: {
		PlacementStatusUpfrontPaid,
		PlacementStatusCancelled,
	},
	PlacementStatusUpfrontPaid: {
		PlacementStatusCompleted,
		PlacementStatusCancelled,
	},
}

var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationStatusApplied: {
		ApplicationStatusInReview,
		ApplicationStatusRejected,
		ApplicationStatusWithdrawn,
	},
	ApplicationStatusInReview: {
		ApplicationStatusInterviewing,
		ApplicationStatusOffered,
		ApplicationStatusRejected,
		ApplicationStatusWithdrawn,
	},
	ApplicationStatusInterviewing: {
		ApplicationStatusOffered,
		ApplicationStatusRejected,
		ApplicationStatusWithdrawn,
	},
	ApplicationStatusOffered: {
		ApplicationStatusHired,
		ApplicationStatusRejected,
		ApplicationStatusWithdrawn,
	},
}

// CheckInState is derived from a check-in's nullable columns rather than
// stored; the table below still pins down which moves are legal.
type CheckInState string

const (
	CheckInStateScheduled CheckInState = "SCHEDULED"
	CheckInStateSent      CheckInState = "SENT"
	CheckInStateResponded CheckInState = "RESPONDED"
)

var checkInTransitions = map[CheckInState][]CheckInState{
	CheckInStateScheduled: {CheckInStateSent},
	CheckInStateSent:      {CheckInStateSent, CheckInStateResponded}, // resend keeps it SENT
}

func validateTransition[T ~string](entity string, table map[T][]T, from, to T) error {
	allowed, ok := table[from]
	if !ok {
		return fmt.Errorf("%w: %s status %s is closed", utils.ErrorInvalidTransition, entity, from)
	}
	for _, s := range allowed {
		if s == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s cannot move %s -> %s", utils.ErrorInvalidTransition, entity, from, to)
}

func ValidateIntroductionTransition(from, to IntroductionStatus) error {
	return validateTransition("introduction", introductionTransitions, from, to)
}

func ValidateCircumventionFlagTransition(from, to CircumventionFlagStatus) error {
	return validateTransition("circumvention flag", circumventionFlagTransitions, from, to)
}

func ValidatePlacementTransition(from, to PlacementStatus) error {
	return validateTransition("placement", placementTransitions, from, to)
}

func ValidateApplicationTransition(from, to ApplicationStatus) error {
	return validateTransition("application", applicationTransitions, from, to)
}

func ValidateCheckInTransition(from, to CheckInState) error {
	return validateTransition("check-in", checkInTransitions, from, to)
}
