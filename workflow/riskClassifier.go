package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sohaibtahir00/job-portal-backend-sub003/models"
	"github.com/sohaibtahir00/job-portal-backend-sub003/utils"
)

// ClassifierInput is everything the risk policy looks at. PlacementExists
// is resolved by the caller so the policy itself stays free of I/O.
type ClassifierInput struct {
	ResponseType    *models.CheckInResponseType
	ResponseRaw     string
	PlacementExists bool
}

type Classification struct {
	ResponseType   models.CheckInResponseType
	ResponseParsed string
	RiskLevel      models.RiskLevel
	RiskReason     string
}

// ClassifyResponse maps a check-in response to a risk level. Pure policy:
// a reported hire with no placement record is the circumvention signal; an
// offer still in motion is worth watching; everything else, including
// silence, is routine.
func ClassifyResponse(in ClassifierInput) Classification {
	var (
		responseType models.CheckInResponseType
		parsed       string
	)
	if in.ResponseType != nil {
		responseType = *in.ResponseType
	} else {
		responseType, parsed = parseRawResponse(in.ResponseRaw)
	}

	out := Classification{ResponseType: responseType, ResponseParsed: parsed}
	switch {
	case responseType.Hired() && !in.PlacementExists:
		out.RiskLevel = models.RiskLevelHigh
		out.RiskReason = "possible circumvention: candidate reports being hired but no placement record exists"
	case responseType.Hired():
		out.RiskLevel = models.RiskLevelLow
		out.RiskReason = "hire already has a placement record; the fee is tracked"
	case responseType == models.ResponseTypeOfferPending:
		out.RiskLevel = models.RiskLevelMedium
		out.RiskReason = "offer in progress; follow up before it closes off-platform"
	case responseType == models.ResponseTypeInterviewing:
		out.RiskLevel = models.RiskLevelLow
		out.RiskReason = "interview process ongoing"
	case responseType == models.ResponseTypeNotHired:
		out.RiskLevel = models.RiskLevelLow
		out.RiskReason = "employer passed on the candidate"
	case responseType == models.ResponseTypeNoResponse:
		out.RiskLevel = models.RiskLevelLow
		out.RiskReason = models.NoResponseRiskReason
	default:
		out.RiskLevel = models.RiskLevelLow
		out.RiskReason = "no change reported"
	}
	if parsed == "unclassified response" {
		out.RiskReason = "unclassified response"
	}
	return out
}

// parseRawResponse is the free-text fallback when no structured response
// type was submitted. Negations are checked before hire keywords so
// "not hired" never reads as a hire.
func parseRawResponse(raw string) (models.CheckInResponseType, string) {
	text := strings.ToLower(strings.TrimSpace(raw))

	containsAny := func(keywords ...string) string {
		for _, k := range keywords {
			if strings.Contains(text, k) {
				return k
			}
		}
		return ""
	}

	if k := containsAny("not hired", "didn't get", "did not get", "rejected", "turned down", "passed on me", "no longer in the process"); k != "" {
		return models.ResponseTypeNotHired, fmt.Sprintf("matched %q in free-text response", k)
	}
	if k := containsAny("hired", "got the job", "accepted the offer", "accepted an offer", "signed the offer", "start date", "started work"); k != "" {
		if elsewhere := containsAny("another company", "different company", "other company", "somewhere else", "elsewhere"); elsewhere != "" {
			return models.ResponseTypeHiredExternally, fmt.Sprintf("matched %q with %q in free-text response", k, elsewhere)
		}
		return models.ResponseTypeHiredThroughPlatform, fmt.Sprintf("matched %q in free-text response", k)
	}
	if k := containsAny("offer"); k != "" {
		return models.ResponseTypeOfferPending, fmt.Sprintf("matched %q in free-text response", k)
	}
	if k := containsAny("interview"); k != "" {
		return models.ResponseTypeInterviewing, fmt.Sprintf("matched %q in free-text response", k)
	}
	if k := containsAny("no change", "nothing new", "no update", "still waiting", "same as before"); k != "" {
		return models.ResponseTypeNoChange, fmt.Sprintf("matched %q in free-text response", k)
	}
	return models.ResponseTypeNoChange, "unclassified response"
}

// CheckInResponse is the public respond-endpoint body. Either a structured
// response type or free text must be present; the enum rejects unknown
// values at bind time.
type CheckInResponse struct {
	ResponseType *models.CheckInResponseType `json:"response_type"`
	ResponseRaw  string                      `json:"response_raw"`
}

// ProcessCheckInResponse records a candidate's answer to a check-in looked
// up by its response token. Tokens are single-use; a lapsed token finalizes
// the row as no_response before the caller is told the link is dead.
func ProcessCheckInResponse(ctx context.Context, db *gorm.DB, token string, input *CheckInResponse) (*models.CheckIn, error) {
	if input == nil || (input.ResponseType == nil && strings.TrimSpace(input.ResponseRaw) == "") {
		return nil, fmt.Errorf("%w: a response type or free-text response is required", utils.ErrorValidation)
	}

	checkIn, err := models.GetCheckInByToken(ctx, db, token)
	if err != nil {
		return nil, err
	}
	if checkIn.RespondedAt != nil {
		return nil, utils.ErrorTokenUsed
	}
	now := time.Now().UTC()
	if checkIn.TokenExpired(now) {
		if checkIn.ExpiredUnresponded(now) {
			if err := models.FinalizeExpiredCheckIn(ctx, db, checkIn); err != nil {
				return nil, err
			}
		}
		return nil, utils.ErrorTokenExpired
	}

	introduction := checkIn.Introduction
	if introduction == nil {
		return nil, utils.ErrorRecordNotFound
	}

	placements, err := utils.ResourceCountWhere[models.Placement](ctx, db, "introduction_id = ?", introduction.ID)
	if err != nil {
		return nil, err
	}

	classification := ClassifyResponse(ClassifierInput{
		ResponseType:    input.ResponseType,
		ResponseRaw:     input.ResponseRaw,
		PlacementExists: placements > 0,
	})
	flagged := classification.RiskLevel == models.RiskLevelHigh

	updates := map[string]interface{}{
		"responded_at":       now,
		"response_type":      classification.ResponseType,
		"response_raw":       utils.NilIfEmpty(input.ResponseRaw),
		"response_parsed":    utils.NilIfEmpty(classification.ResponseParsed),
		"risk_level":         classification.RiskLevel,
		"risk_reason":        classification.RiskReason,
		"flagged_for_review": flagged,
	}

	before := *checkIn
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(checkIn).Updates(updates).Error; err != nil {
			return err
		}
		if flagged {
			if _, err := models.UpsertCheckInFlag(ctx, tx, introduction, estimateFeeOwed(introduction)); err != nil {
				return err
			}
		}
		if next, ok := introductionMoveFor(classification.ResponseType); ok {
			if err := moveIntroduction(ctx, tx, introduction, next, now); err != nil {
				return err
			}
		}
		return models.PublishEvent(ctx, tx, now, checkIn.ID, models.EventReferenceTypeCheckIn, checkIn, before, models.EventActionUpdate)
	})
	if err != nil {
		return nil, err
	}

	return checkIn, nil
}

// introductionMoveFor maps a response to the introduction status it implies.
// Hired outcomes deliberately map to nothing: a legitimate hire resolves
// through placement creation and a suspect one through flag review.
func introductionMoveFor(responseType models.CheckInResponseType) (models.IntroductionStatus, bool) {
	switch responseType {
	case models.ResponseTypeInterviewing, models.ResponseTypeOfferPending:
		return models.IntroductionStatusConfirmed, true
	case models.ResponseTypeNotHired:
		return models.IntroductionStatusDeclined, true
	default:
		return "", false
	}
}

// moveIntroduction applies a response-driven status move. A move the
// transition table rejects is skipped, not an error: the response itself
// is always recorded.
func moveIntroduction(ctx context.Context, tx *gorm.DB, introduction *models.Introduction, next models.IntroductionStatus, now time.Time) error {
	if introduction.Status == next {
		return nil
	}
	if err := models.ValidateIntroductionTransition(introduction.Status, next); err != nil {
		return nil
	}
	before := *introduction
	if err := tx.Model(introduction).Update("status", next).Error; err != nil {
		return err
	}
	return models.PublishEvent(ctx, tx, now, introduction.ID, models.EventReferenceTypeIntroduction, introduction, before, models.EventActionUpdate)
}

// estimateFeeOwed derives the fee a circumvented hire would have owed.
// Salary comes from the job posting when known, else the candidate's
// desired salary; nil when neither is known.
func estimateFeeOwed(introduction *models.Introduction) *decimal.Decimal {
	var salary *decimal.Decimal
	var level models.ExperienceLevel

	if introduction.Job != nil {
		salary = introduction.Job.EstimatedSalary()
		if introduction.Job.ExperienceLevel != nil {
			level = *introduction.Job.ExperienceLevel
		}
	}
	if salary == nil && introduction.Candidate != nil {
		salary = introduction.Candidate.DesiredSalary
	}
	if level == "" && introduction.Candidate != nil {
		level = introduction.Candidate.ExperienceLevel
	}
	if salary == nil {
		return nil
	}
	breakdown := models.CalculatePlacementFee(*salary, level)
	return &breakdown.PlacementFee
}
