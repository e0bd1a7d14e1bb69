package workflow

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/sohaibtahir00/job-portal-backend-sub003/models"
)

func responseTypePtr(t models.CheckInResponseType) *models.CheckInResponseType {
	return &t
}

func TestClassifyResponse_StructuredTypes(t *testing.T) {
	cases := []struct {
		name            string
		responseType    models.CheckInResponseType
		placementExists bool
		expectedRisk    models.RiskLevel
	}{
		{"hired through platform, no placement", models.ResponseTypeHiredThroughPlatform, false, models.RiskLevelHigh},
		{"hired externally, no placement", models.ResponseTypeHiredExternally, false, models.RiskLevelHigh},
		{"hired through platform, placement recorded", models.ResponseTypeHiredThroughPlatform, true, models.RiskLevelLow},
		{"hired externally, placement recorded", models.ResponseTypeHiredExternally, true, models.RiskLevelLow},
		{"offer pending", models.ResponseTypeOfferPending, false, models.RiskLevelMedium},
		{"offer pending with placement", models.ResponseTypeOfferPending, true, models.RiskLevelMedium},
		{"interviewing", models.ResponseTypeInterviewing, false, models.RiskLevelLow},
		{"not hired", models.ResponseTypeNotHired, false, models.RiskLevelLow},
		{"no change", models.ResponseTypeNoChange, false, models.RiskLevelLow},
		{"no response", models.ResponseTypeNoResponse, false, models.RiskLevelLow},
	}

	for _, tc := range cases {
		got := ClassifyResponse(ClassifierInput{
			ResponseType:    responseTypePtr(tc.responseType),
			PlacementExists: tc.placementExists,
		})
		if got.RiskLevel != tc.expectedRisk {
			t.Fatalf("%s: expected %s, got %s (%s)", tc.name, tc.expectedRisk, got.RiskLevel, got.RiskReason)
		}
		if got.ResponseType != tc.responseType {
			t.Fatalf("%s: response type must pass through unchanged, got %s", tc.name, got.ResponseType)
		}
		if got.ResponseParsed != "" {
			t.Fatalf("%s: structured input must not record a parse note, got %q", tc.name, got.ResponseParsed)
		}
		if got.RiskReason == "" {
			t.Fatalf("%s: every classification carries a reason", tc.name)
		}
	}
}

func TestClassifyResponse_CircumventionReason(t *testing.T) {
	got := ClassifyResponse(ClassifierInput{
		ResponseType:    responseTypePtr(models.ResponseTypeHiredExternally),
		PlacementExists: false,
	})
	if got.RiskLevel != models.RiskLevelHigh {
		t.Fatalf("expected HIGH, got %s", got.RiskLevel)
	}
	if !strings.Contains(got.RiskReason, "possible circumvention") {
		t.Fatalf("reason should name the suspicion, got %q", got.RiskReason)
	}
}

func TestClassifyResponse_NoResponseReason(t *testing.T) {
	got := ClassifyResponse(ClassifierInput{
		ResponseType: responseTypePtr(models.ResponseTypeNoResponse),
	})
	if got.RiskReason != models.NoResponseRiskReason {
		t.Fatalf("expected the fixed expiry reason, got %q", got.RiskReason)
	}
}

func TestParseRawResponse_Keywords(t *testing.T) {
	cases := []struct {
		raw      string
		expected models.CheckInResponseType
	}{
		{"I was hired last month!", models.ResponseTypeHiredThroughPlatform},
		{"Got the job, starting Monday", models.ResponseTypeHiredThroughPlatform},
		{"I accepted an offer at another company", models.ResponseTypeHiredExternally},
		{"signed the offer, but somewhere else", models.ResponseTypeHiredExternally},
		{"They made me an offer, still thinking", models.ResponseTypeOfferPending},
		{"Second interview next week", models.ResponseTypeInterviewing},
		{"No update, still waiting to hear back", models.ResponseTypeNoChange},
		{"nothing new on my end", models.ResponseTypeNoChange},
		{"I was not hired", models.ResponseTypeNotHired},
		{"did not get the role unfortunately", models.ResponseTypeNotHired},
		{"they rejected my application", models.ResponseTypeNotHired},
	}
	for _, tc := range cases {
		got, note := parseRawResponse(tc.raw)
		if got != tc.expected {
			t.Fatalf("parseRawResponse(%q) expected %s, got %s (%s)", tc.raw, tc.expected, got, note)
		}
		if note == "" {
			t.Fatalf("parseRawResponse(%q) should explain the match", tc.raw)
		}
	}
}

func TestParseRawResponse_NegationBeatsHireKeyword(t *testing.T) {
	// "not hired" contains "hired"; the negation check must win.
	got, _ := parseRawResponse("Sadly I was not hired in the end")
	if got != models.ResponseTypeNotHired {
		t.Fatalf("expected not_hired, got %s", got)
	}
}

func TestParseRawResponse_Unclassified(t *testing.T) {
	got, note := parseRawResponse("the weather has been lovely")
	if got != models.ResponseTypeNoChange {
		t.Fatalf("unclassified text defaults to no_change, got %s", got)
	}
	if note != "unclassified response" {
		t.Fatalf("expected the unclassified note, got %q", note)
	}

	classified := ClassifyResponse(ClassifierInput{ResponseRaw: "the weather has been lovely"})
	if classified.RiskLevel != models.RiskLevelLow {
		t.Fatalf("unclassified text is LOW risk, got %s", classified.RiskLevel)
	}
	if classified.RiskReason != "unclassified response" {
		t.Fatalf("unclassified reason should replace the no-change one, got %q", classified.RiskReason)
	}
}

func TestClassifyResponse_FreeTextHireIsHighWithoutPlacement(t *testing.T) {
	got := ClassifyResponse(ClassifierInput{
		ResponseRaw:     "I was hired two weeks ago, nobody mentioned a fee",
		PlacementExists: false,
	})
	if got.ResponseType != models.ResponseTypeHiredThroughPlatform {
		t.Fatalf("expected hired_through_platform, got %s", got.ResponseType)
	}
	if got.RiskLevel != models.RiskLevelHigh {
		t.Fatalf("expected HIGH, got %s", got.RiskLevel)
	}
}

func TestEstimateFeeOwed(t *testing.T) {
	salaryMax := decimal.NewFromInt(10000000)
	senior := models.ExperienceLevelSenior

	intro := &models.Introduction{
		Job: &models.Job{
			SalaryMax:       &salaryMax,
			ExperienceLevel: &senior,
		},
	}
	fee := estimateFeeOwed(intro)
	if fee == nil {
		t.Fatal("expected an estimate when the posting has a salary")
	}
	if fee.String() != "1800000" {
		t.Fatalf("expected 1800000, got %s", fee.String())
	}

	// No posting salary: the candidate's desired salary stands in.
	desired := decimal.NewFromInt(5000000)
	intro = &models.Introduction{
		Candidate: &models.Candidate{
			DesiredSalary:   &desired,
			ExperienceLevel: models.ExperienceLevelEntry,
		},
	}
	fee = estimateFeeOwed(intro)
	if fee == nil {
		t.Fatal("expected an estimate from the candidate's desired salary")
	}
	if fee.String() != "750000" {
		t.Fatalf("expected 750000 at the entry rate, got %s", fee.String())
	}

	// No salary anywhere: no estimate rather than a made-up number.
	intro = &models.Introduction{Candidate: &models.Candidate{}}
	if fee := estimateFeeOwed(intro); fee != nil {
		t.Fatalf("expected nil without any salary signal, got %s", fee.String())
	}
}
