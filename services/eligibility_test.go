package services

import (
	"testing"
	"time"

	"github.com/placement-cell/placements-api/model"
)

func fp(v float64) *float64                          { return &v }
func ip(v int) *int                                  { return &v }
func tp(v model.OpportunityTier) *model.OpportunityTier { return &v }

// cleanProfile returns a student that passes every common threshold.
func cleanProfile() *model.StudentProfile {
	return &model.StudentProfile{
		Enrollment:      "23ucs001",
		Branch:          "CSE",
		CGPA:            fp(8.5),
		XPercentage:     fp(90),
		XIIPercentage:   fp(85),
		ActiveBacklogs:  0,
		DeadBacklogs:    0,
		HasYearGap:      false,
		PlacementStatus: model.PlacementUnplaced,
	}
}

func onCampus() EligibilityCriteria {
	return EligibilityCriteria{OnCampus: true}
}

var evalNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func expectEligible(t *testing.T, v Verdict) {
	t.Helper()
	if !v.Eligible {
		t.Fatalf("expected eligible, got %s", v.Reason)
	}
	if v.Reason != ReasonEligible {
		t.Fatalf("eligible verdict must carry ELIGIBLE reason, got %s", v.Reason)
	}
}

func expectReason(t *testing.T, v Verdict, want IneligibilityReason) {
	t.Helper()
	if v.Eligible {
		t.Fatalf("expected ineligible with %s, got eligible", want)
	}
	if v.Reason != want {
		t.Fatalf("expected reason %s, got %s", want, v.Reason)
	}
}

func TestEvaluateUnconstrainedPostingIsEligible(t *testing.T) {
	expectEligible(t, Evaluate(cleanProfile(), onCampus(), false, evalNow))
}

func TestEvaluateOffCampusIgnoresEverything(t *testing.T) {
	past := evalNow.Add(-time.Hour)
	criteria := EligibilityCriteria{
		OnCampus:         false,
		Deadline:         &past,
		EnrollmentPrefix: "99",
		MinCGPA:          fp(10),
		MaxActiveBacklog: ip(0),
		AllowedBranches:  map[string]bool{"ME": true},
		Tier:             tp(model.TierNormal),
	}
	profile := cleanProfile()
	profile.ActiveBacklogs = 9
	profile.PlacementStatus = model.PlacementDreamPlaced

	// Even a locked account sees off-campus postings.
	expectEligible(t, Evaluate(profile, criteria, true, evalNow))
}

func TestEvaluateAccountLocked(t *testing.T) {
	expectReason(t, Evaluate(cleanProfile(), onCampus(), true, evalNow), ReasonAccountLocked)
}

func TestEvaluateLockPrecedesDeadline(t *testing.T) {
	past := evalNow.Add(-time.Minute)
	criteria := onCampus()
	criteria.Deadline = &past
	expectReason(t, Evaluate(cleanProfile(), criteria, true, evalNow), ReasonAccountLocked)
}

func TestEvaluateDeadline(t *testing.T) {
	criteria := onCampus()

	past := evalNow.Add(-time.Second)
	criteria.Deadline = &past
	expectReason(t, Evaluate(cleanProfile(), criteria, false, evalNow), ReasonDeadlinePassed)

	// An exactly-at-deadline apply still goes through.
	at := evalNow
	criteria.Deadline = &at
	expectEligible(t, Evaluate(cleanProfile(), criteria, false, evalNow))

	future := evalNow.Add(time.Hour)
	criteria.Deadline = &future
	expectEligible(t, Evaluate(cleanProfile(), criteria, false, evalNow))
}

func TestEvaluateDeadlineDominatesLaterChecks(t *testing.T) {
	past := evalNow.Add(-time.Hour)
	criteria := onCampus()
	criteria.Deadline = &past
	criteria.MinCGPA = fp(10)
	criteria.AllowedBranches = map[string]bool{"ME": true}

	expectReason(t, Evaluate(cleanProfile(), criteria, false, evalNow), ReasonDeadlinePassed)
}

func TestEvaluateEnrollmentPrefix(t *testing.T) {
	criteria := onCampus()
	criteria.EnrollmentPrefix = "23u"
	expectEligible(t, Evaluate(cleanProfile(), criteria, false, evalNow))

	criteria.EnrollmentPrefix = "22u"
	expectReason(t, Evaluate(cleanProfile(), criteria, false, evalNow), ReasonEnrollmentPrefix)
}

func TestEvaluatePercentageThresholds(t *testing.T) {
	criteria := onCampus()
	criteria.MinXPercent = fp(95)
	expectReason(t, Evaluate(cleanProfile(), criteria, false, evalNow), ReasonXPercentage)

	criteria = onCampus()
	criteria.MinXIIPercent = fp(90)
	expectReason(t, Evaluate(cleanProfile(), criteria, false, evalNow), ReasonXIIPercentage)

	// Equal to the threshold passes.
	criteria = onCampus()
	criteria.MinXPercent = fp(90)
	criteria.MinXIIPercent = fp(85)
	expectEligible(t, Evaluate(cleanProfile(), criteria, false, evalNow))
}

func TestEvaluateAbsentNumericsCountAsZero(t *testing.T) {
	profile := cleanProfile()
	profile.CGPA = nil
	profile.XPercentage = nil
	profile.XIIPercentage = nil

	criteria := onCampus()
	criteria.MinCGPA = fp(0.1)
	expectReason(t, Evaluate(profile, criteria, false, evalNow), ReasonCGPA)

	criteria = onCampus()
	criteria.MinXPercent = fp(0.1)
	expectReason(t, Evaluate(profile, criteria, false, evalNow), ReasonXPercentage)

	// A zero threshold is satisfiable even with no reported marks.
	criteria = onCampus()
	criteria.MinCGPA = fp(0)
	criteria.MinXPercent = fp(0)
	criteria.MinXIIPercent = fp(0)
	expectEligible(t, Evaluate(profile, criteria, false, evalNow))
}

func TestEvaluateBacklogBoundaries(t *testing.T) {
	profile := cleanProfile()
	profile.ActiveBacklogs = 2

	criteria := onCampus()
	criteria.MaxActiveBacklog = ip(2)
	expectEligible(t, Evaluate(profile, criteria, false, evalNow))

	criteria.MaxActiveBacklog = ip(1)
	expectReason(t, Evaluate(profile, criteria, false, evalNow), ReasonActiveBacklogs)

	profile = cleanProfile()
	profile.DeadBacklogs = 3
	criteria = onCampus()
	criteria.MaxDeadBacklog = ip(3)
	expectEligible(t, Evaluate(profile, criteria, false, evalNow))

	criteria.MaxDeadBacklog = ip(2)
	expectReason(t, Evaluate(profile, criteria, false, evalNow), ReasonDeadBacklogs)
}

func TestEvaluateBranchFilter(t *testing.T) {
	criteria := onCampus()
	criteria.AllowedBranches = ParseBranchList("cse, ece")

	profile := cleanProfile()
	profile.Branch = "cse" // stored casing must not matter
	expectEligible(t, Evaluate(profile, criteria, false, evalNow))

	profile.Branch = "EE"
	expectReason(t, Evaluate(profile, criteria, false, evalNow), ReasonBranch)

	// Empty filter admits every branch.
	criteria.AllowedBranches = ParseBranchList("")
	expectEligible(t, Evaluate(profile, criteria, false, evalNow))
}

func TestEvaluateYearGap(t *testing.T) {
	criteria := onCampus()
	criteria.MaxGapYears = ip(0)

	// hasYearGap=false neutralizes a stale stored duration.
	profile := cleanProfile()
	profile.HasYearGap = false
	profile.YearGapDuration = ip(2)
	expectEligible(t, Evaluate(profile, criteria, false, evalNow))

	profile.HasYearGap = true
	expectReason(t, Evaluate(profile, criteria, false, evalNow), ReasonYearGap)

	criteria.MaxGapYears = ip(2)
	expectEligible(t, Evaluate(profile, criteria, false, evalNow))
}

func TestEvaluateTierTable(t *testing.T) {
	cases := []struct {
		status model.PlacementStatus
		tier   *model.OpportunityTier
		want   IneligibilityReason // ReasonEligible means allowed
	}{
		{model.PlacementUnplaced, tp(model.TierDream), ReasonEligible},
		{model.PlacementUnplaced, tp(model.TierStandard), ReasonEligible},
		{model.PlacementUnplaced, tp(model.TierNormal), ReasonEligible},
		{model.PlacementUnplaced, nil, ReasonEligible},

		{model.PlacementNormalPlaced, tp(model.TierDream), ReasonEligible},
		{model.PlacementNormalPlaced, tp(model.TierStandard), ReasonEligible},
		{model.PlacementNormalPlaced, tp(model.TierNormal), ReasonTierRestricted},
		{model.PlacementNormalPlaced, nil, ReasonEligible},

		{model.PlacementStandardPlaced, tp(model.TierDream), ReasonEligible},
		{model.PlacementStandardPlaced, tp(model.TierStandard), ReasonTierRestricted},
		{model.PlacementStandardPlaced, tp(model.TierNormal), ReasonTierRestricted},
		{model.PlacementStandardPlaced, nil, ReasonEligible},

		{model.PlacementDreamPlaced, tp(model.TierDream), ReasonAlreadyDreamPlaced},
		{model.PlacementDreamPlaced, tp(model.TierStandard), ReasonAlreadyDreamPlaced},
		{model.PlacementDreamPlaced, tp(model.TierNormal), ReasonAlreadyDreamPlaced},
		{model.PlacementDreamPlaced, nil, ReasonEligible},
	}

	for _, tc := range cases {
		profile := cleanProfile()
		profile.PlacementStatus = tc.status
		criteria := onCampus()
		criteria.Tier = tc.tier

		verdict := Evaluate(profile, criteria, false, evalNow)
		tierName := "untiered"
		if tc.tier != nil {
			tierName = string(*tc.tier)
		}
		if tc.want == ReasonEligible {
			if !verdict.Eligible {
				t.Errorf("%s applying to %s: expected eligible, got %s", tc.status, tierName, verdict.Reason)
			}
		} else if verdict.Eligible || verdict.Reason != tc.want {
			t.Errorf("%s applying to %s: expected %s, got %+v", tc.status, tierName, tc.want, verdict)
		}
	}
}

func TestEvaluateReportsFirstFailureInOrder(t *testing.T) {
	// Fails prefix, CGPA, branch and tier at once; the prefix check runs
	// first and must win.
	criteria := onCampus()
	criteria.EnrollmentPrefix = "99"
	criteria.MinCGPA = fp(10)
	criteria.AllowedBranches = map[string]bool{"ME": true}
	criteria.Tier = tp(model.TierNormal)

	profile := cleanProfile()
	profile.PlacementStatus = model.PlacementNormalPlaced

	expectReason(t, Evaluate(profile, criteria, false, evalNow), ReasonEnrollmentPrefix)
}

func TestCriteriaForNormalizesBranchOnce(t *testing.T) {
	branch := " cse ,ECE,, me "
	opp := &model.Opportunity{
		Category:          model.CategoryOnCampus,
		EligibilityBranch: &branch,
	}
	criteria := CriteriaFor(opp)

	want := map[string]bool{"CSE": true, "ECE": true, "ME": true}
	if len(criteria.AllowedBranches) != len(want) {
		t.Fatalf("expected %d branches, got %v", len(want), criteria.AllowedBranches)
	}
	for b := range want {
		if !criteria.AllowedBranches[b] {
			t.Errorf("branch %s missing from %v", b, criteria.AllowedBranches)
		}
	}
}

func TestIneligibilityReasonMessages(t *testing.T) {
	known := []IneligibilityReason{
		ReasonEligible, ReasonAccountLocked, ReasonDeadlinePassed,
		ReasonEnrollmentPrefix, ReasonXPercentage, ReasonXIIPercentage,
		ReasonActiveBacklogs, ReasonDeadBacklogs, ReasonCGPA,
		ReasonBranch, ReasonYearGap, ReasonAlreadyDreamPlaced,
		ReasonTierRestricted,
	}
	for _, r := range known {
		if r.Message() == string(r) {
			t.Errorf("reason %s has no human message", r)
		}
	}
	if got := IneligibilityReason("UNKNOWN").Message(); got != "UNKNOWN" {
		t.Errorf("unknown reason should echo its code, got %q", got)
	}
}
