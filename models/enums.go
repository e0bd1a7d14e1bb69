package models

import (
	"errors"
	"fmt"
)

// --- Candidate seniority (drives the placement fee) ---

type ExperienceLevel string

const (
	ExperienceLevelEntry     ExperienceLevel = "ENTRY_LEVEL"
	ExperienceLevelMid       ExperienceLevel = "MID_LEVEL"
	ExperienceLevelSenior    ExperienceLevel = "SENIOR_LEVEL"
	ExperienceLevelExecutive ExperienceLevel = "EXECUTIVE"
)

// convert input to enum type
func (t *ExperienceLevel) UnmarshalJSON(b []byte) error {
	str, err := unquote(b)
	if err != nil {
		return errors.New("experience level must be string")
	}
	switch str {
	case "ENTRY_LEVEL":
		*t = ExperienceLevelEntry
	case "MID_LEVEL":
		*t = ExperienceLevelMid
	case "SENIOR_LEVEL":
		*t = ExperienceLevelSenior
	case "EXECUTIVE":
		*t = ExperienceLevelExecutive
	default:
		return errors.New("invalid experience level")
	}
	return nil
}

// --- Introduction lifecycle ---

type IntroductionStatus string

const (
	IntroductionStatusIntroduced       IntroductionStatus = "INTRODUCED"
	IntroductionStatusAwaitingResponse IntroductionStatus = "AWAITING_RESPONSE"
	IntroductionStatusConfirmed        IntroductionStatus = "CONFIRMED"
	IntroductionStatusDeclined         IntroductionStatus = "DECLINED"
	IntroductionStatusPlaced           IntroductionStatus = "PLACED"
	IntroductionStatusExpired          IntroductionStatus = "EXPIRED"
)

func (t *IntroductionStatus) UnmarshalJSON(b []byte) error {
	str, err := unquote(b)
	if err != nil {
		return errors.New("introduction status must be string")
	}
	statuses := map[string]IntroductionStatus{
		"INTRODUCED":        IntroductionStatusIntroduced,
		"AWAITING_RESPONSE": IntroductionStatusAwaitingResponse,
		"CONFIRMED":         IntroductionStatusConfirmed,
		"DECLINED":          IntroductionStatusDeclined,
		"PLACED":            IntroductionStatusPlaced,
		"EXPIRED":           IntroductionStatusExpired,
	}
	var ok bool
	*t, ok = statuses[str]
	if !ok {
		return errors.New("invalid introduction status")
	}
	return nil
}

// IsTerminal reports whether the introduction can still move. PLACED,
// DECLINED and EXPIRED close the lifecycle.
func (t IntroductionStatus) IsTerminal() bool {
	switch t {
	case IntroductionStatusPlaced, IntroductionStatusDeclined, IntroductionStatusExpired:
		return true
	}
	return false
}

// --- Check-in responses ---

type CheckInResponseType string

const (
	ResponseTypeHiredThroughPlatform CheckInResponseType = "hired_through_platform"
	ResponseTypeHiredExternally      CheckInResponseType = "hired_externally"
	ResponseTypeOfferPending         CheckInResponseType = "offer_pending"
	ResponseTypeInterviewing         CheckInResponseType = "interviewing"
	ResponseTypeNoChange             CheckInResponseType = "no_change"
	ResponseTypeNotHired             CheckInResponseType = "not_hired"
	ResponseTypeNoResponse           CheckInResponseType = "no_response"
)

func (t *CheckInResponseType) UnmarshalJSON(b []byte) error {
	str, err := unquote(b)
	if err != nil {
		return errors.New("response type must be string")
	}
	responseTypes := map[string]CheckInResponseType{
		"hired_through_platform": ResponseTypeHiredThroughPlatform,
		"hired_externally":       ResponseTypeHiredExternally,
		"offer_pending":          ResponseTypeOfferPending,
		"interviewing":           ResponseTypeInterviewing,
		"no_change":              ResponseTypeNoChange,
		"not_hired":              ResponseTypeNotHired,
		"no_response":            ResponseTypeNoResponse,
	}
	var ok bool
	*t, ok = responseTypes[str]
	if !ok {
		return errors.New("invalid response type")
	}
	return nil
}

// Hired reports whether the response says the candidate took the job,
// regardless of how the hire was routed.
func (t CheckInResponseType) Hired() bool {
	return t == ResponseTypeHiredThroughPlatform || t == ResponseTypeHiredExternally
}

type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "LOW"
	RiskLevelMedium RiskLevel = "MEDIUM"
	RiskLevelHigh   RiskLevel = "HIGH"
)

func (t *RiskLevel) UnmarshalJSON(b []byte) error {
	str, err := unquote(b)
	if err != nil {
		return errors.New("risk level must be string")
	}
	switch str {
	case "LOW":
		*t = RiskLevelLow
	case "MEDIUM":
		*t = RiskLevelMedium
	case "HIGH":
		*t = RiskLevelHigh
	default:
		return errors.New("invalid risk level")
	}
	return nil
}

// --- Circumvention flags ---

type DetectionMethod string

const (
	DetectionMethodLinkedinMatch   DetectionMethod = "LINKEDIN_MATCH"
	DetectionMethodCheckinResponse DetectionMethod = "CHECKIN_RESPONSE"
	DetectionMethodManual          DetectionMethod = "MANUAL"
)

func (t *DetectionMethod) UnmarshalJSON(b []byte) error {
	str, err := unquote(b)
	if err != nil {
		return errors.New("detection method must be string")
	}
	switch str {
	case "LINKEDIN_MATCH":
		*t = DetectionMethodLinkedinMatch
	case "CHECKIN_RESPONSE":
		*t = DetectionMethodCheckinResponse
	case "MANUAL":
		*t = DetectionMethodManual
	default:
		return errors.New("invalid detection method")
	}
	return nil
}

type CircumventionFlagStatus string

const (
	FlagStatusOpen          CircumventionFlagStatus = "OPEN"
	FlagStatusInvestigating CircumventionFlagStatus = "INVESTIGATING"
	FlagStatusInvoiceSent   CircumventionFlagStatus = "INVOICE_SENT"
	FlagStatusPaid          CircumventionFlagStatus = "PAID"
	FlagStatusDisputed      CircumventionFlagStatus = "DISPUTED"
	FlagStatusFalsePositive CircumventionFlagStatus = "FALSE_POSITIVE"
	FlagStatusWroteOff      CircumventionFlagStatus = "WROTE_OFF"
)

func (t *CircumventionFlagStatus) UnmarshalJSON(b []byte) error {
	str, err := unquote(b)
	if err != nil {
		return errors.New("flag status must be string")
	}
	statuses := map[string]CircumventionFlagStatus{
		"OPEN":           FlagStatusOpen,
		"INVESTIGATING":  FlagStatusInvestigating,
		"INVOICE_SENT":   FlagStatusInvoiceSent,
		"PAID":           FlagStatusPaid,
		"DISPUTED":       FlagStatusDisputed,
		"FALSE_POSITIVE": FlagStatusFalsePositive,
		"WROTE_OFF":      FlagStatusWroteOff,
	}
	var ok bool
	*t, ok = statuses[str]
	if !ok {
		return errors.New("invalid flag status")
	}
	return nil
}

// IsClosed reports whether the flag has reached a state that admits no
// further transitions. DISPUTED stays live until resolved.
func (t CircumventionFlagStatus) IsClosed() bool {
	switch t {
	case FlagStatusPaid, FlagStatusFalsePositive, FlagStatusWroteOff:
		return true
	}
	return false
}

// --- Placements ---

type PlacementStatus string

const (
	PlacementStatusPending     PlacementStatus = "PENDING"
	PlacementStatusUpfrontPaid PlacementStatus = "UPFRONT_PAID"
	PlacementStatusCompleted   PlacementStatus = "COMPLETED"
	PlacementStatusCancelled   PlacementStatus = "CANCELLED"
)

func (t *PlacementStatus) UnmarshalJSON(b []byte) error {
	str, err := unquote(b)
	if err != nil {
		return errors.New("placement status must be string")
	}
	switch str {
	case "PENDING":
		*t = PlacementStatusPending
	case "UPFRONT_PAID":
		*t = PlacementStatusUpfrontPaid
	case "COMPLETED":
		*t = PlacementStatusCompleted
	case "CANCELLED":
		*t = PlacementStatusCancelled
	default:
		return errors.New("invalid placement status")
	}
	return nil
}

// --- Identity ---

type UserRole string

const (
	UserRoleCandidate UserRole = "CANDIDATE"
	UserRoleEmployer  UserRole = "EMPLOYER"
	UserRoleAdmin     UserRole = "ADMIN"
)

func (t *UserRole) UnmarshalJSON(b []byte) error {
	str, err := unquote(b)
	if err != nil {
		return errors.New("user role must be string")
	}
	switch str {
	case "CANDIDATE":
		*t = UserRoleCandidate
	case "EMPLOYER":
		*t = UserRoleEmployer
	case "ADMIN":
		*t = UserRoleAdmin
	default:
		return errors.New("invalid user role")
	}
	return nil
}

// --- Jobs, applications, interviews ---

type JobStatus string

const (
	JobStatusOpen   JobStatus = "OPEN"
	JobStatusFilled JobStatus = "FILLED"
	JobStatusClosed JobStatus = "CLOSED"
)

func (t *JobStatus) UnmarshalJSON(b []byte) error {
	str, err := unquote(b)
	if err != nil {
		return errors.New("job status must be string")
	}
	switch str {
	case "OPEN":
		*t = JobStatusOpen
	case "FILLED":
		*t = JobStatusFilled
	case "CLOSED":
		*t = JobStatusClosed
	default:
		return errors.New("invalid job status")
	}
	return nil
}

type ApplicationStatus string

const (
	ApplicationStatusApplied      ApplicationStatus = "APPLIED"
	ApplicationStatusInReview     ApplicationStatus = "IN_REVIEW"
	ApplicationStatusInterviewing ApplicationStatus = "INTERVIEWING"
	ApplicationStatusOffered      ApplicationStatus = "OFFERED"
	ApplicationStatusHired        ApplicationStatus = "HIRED"
	ApplicationStatusRejected     ApplicationStatus = "REJECTED"
	ApplicationStatusWithdrawn    ApplicationStatus = "WITHDRAWN"
)

func (t *ApplicationStatus) UnmarshalJSON(b []byte) error {
	str, err := unquote(b)
	if err != nil {
		return errors.New("application status must be string")
	}
	statuses := map[string]ApplicationStatus{
		"APPLIED":      ApplicationStatusApplied,
		"IN_REVIEW":    ApplicationStatusInReview,
		"INTERVIEWING": ApplicationStatusInterviewing,
		"OFFERED":      ApplicationStatusOffered,
		"HIRED":        ApplicationStatusHired,
		"REJECTED":     ApplicationStatusRejected,
		"WITHDRAWN":    ApplicationStatusWithdrawn,
	}
	var ok bool
	*t, ok = statuses[str]
	if !ok {
		return errors.New("invalid application status")
	}
	return nil
}

type InterviewStatus string

const (
	InterviewStatusScheduled InterviewStatus = "SCHEDULED"
	InterviewStatusCompleted InterviewStatus = "COMPLETED"
	InterviewStatusCancelled InterviewStatus = "CANCELLED"
	InterviewStatusNoShow    InterviewStatus = "NO_SHOW"
)

func (t *InterviewStatus) UnmarshalJSON(b []byte) error {
	str, err := unquote(b)
	if err != nil {
		return errors.New("interview status must be string")
	}
	switch str {
	case "SCHEDULED":
		*t = InterviewStatusScheduled
	case "COMPLETED":
		*t = InterviewStatusCompleted
	case "CANCELLED":
		*t = InterviewStatusCancelled
	case "NO_SHOW":
		*t = InterviewStatusNoShow
	default:
		return errors.New("invalid interview status")
	}
	return nil
}

// --- Notifications ---

type NotificationKind string

const (
	NotificationKindCheckInRequest NotificationKind = "CHECKIN_REQUEST"
	NotificationKindIntroduction   NotificationKind = "INTRODUCTION"
	NotificationKindPlacement      NotificationKind = "PLACEMENT"
	NotificationKindSystem         NotificationKind = "SYSTEM"
)

// unquote strips the surrounding JSON quotes off a string literal.
func unquote(b []byte) (string, error) {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return "", fmt.Errorf("not a JSON string: %s", string(b))
	}
	return string(b[1 : len(b)-1]), nil
}
