package services

import (
	"strings"
	"time"

	"github.com/placement-cell/placements-api/model"
)

// IneligibilityReason enumerates every cause the evaluator can report.
// The student UI shows Message(), so each reason stays specific.
type IneligibilityReason string

const (
	ReasonEligible IneligibilityReason = "ELIGIBLE"

	ReasonAccountLocked      IneligibilityReason = "ACCOUNT_LOCKED"
	ReasonDeadlinePassed     IneligibilityReason = "DEADLINE_PASSED"
	ReasonEnrollmentPrefix   IneligibilityReason = "ENROLLMENT_NOT_ELIGIBLE"
	ReasonXPercentage        IneligibilityReason = "X_PERCENTAGE_NOT_ELIGIBLE"
	ReasonXIIPercentage      IneligibilityReason = "XII_PERCENTAGE_NOT_ELIGIBLE"
	ReasonActiveBacklogs     IneligibilityReason = "TOO_MANY_ACTIVE_BACKLOGS"
	ReasonDeadBacklogs       IneligibilityReason = "TOO_MANY_DEAD_BACKLOGS"
	ReasonCGPA               IneligibilityReason = "CGPA_NOT_ELIGIBLE"
	ReasonBranch             IneligibilityReason = "BRANCH_NOT_ELIGIBLE"
	ReasonYearGap            IneligibilityReason = "YEAR_GAP_EXCEEDED"
	ReasonAlreadyDreamPlaced IneligibilityReason = "ALREADY_DREAM_PLACED"
	ReasonTierRestricted     IneligibilityReason = "TIER_RESTRICTED"
)

var reasonMessages = map[IneligibilityReason]string{
	ReasonEligible:           "Eligible",
	ReasonAccountLocked:      "Locked by admin",
	ReasonDeadlinePassed:     "Deadline passed",
	ReasonEnrollmentPrefix:   "Enrollment not eligible",
	ReasonXPercentage:        "X percentage not eligible",
	ReasonXIIPercentage:      "XII percentage not eligible",
	ReasonActiveBacklogs:     "Too many active backlogs",
	ReasonDeadBacklogs:       "Too many dead backlogs",
	ReasonCGPA:               "CGPA not eligible",
	ReasonBranch:             "Branch not eligible",
	ReasonYearGap:            "Year gap exceeds allowed",
	ReasonAlreadyDreamPlaced: "Already dream placed",
	ReasonTierRestricted:     "Placement tier not eligible",
}

// Message returns the student-facing explanation for the reason.
func (r IneligibilityReason) Message() string {
	if msg, ok := reasonMessages[r]; ok {
		return msg
	}
	return string(r)
}

// Verdict is the evaluator's result. Reason is ReasonEligible when
// Eligible is true.
type Verdict struct {
	Eligible bool
	Reason   IneligibilityReason
}

func ineligible(reason IneligibilityReason) Verdict {
	return Verdict{Eligible: false, Reason: reason}
}

var eligibleVerdict = Verdict{Eligible: true, Reason: ReasonEligible}

// EligibilityCriteria is the normalized, parse-once form of an
// opportunity's screening rules. Nil thresholds place no constraint on
// their axis. Build it with CriteriaFor so the branch list is split and
// uppercased exactly once, outside the evaluation path.
type EligibilityCriteria struct {
	OnCampus         bool
	Deadline         *time.Time
	EnrollmentPrefix string
	MinXPercent      *float64
	MinXIIPercent    *float64
	MaxActiveBacklog *int
	MaxDeadBacklog   *int
	MinCGPA          *float64
	AllowedBranches  map[string]bool // uppercase tokens; empty = all branches
	MaxGapYears      *int
	Tier             *model.OpportunityTier
}

// CriteriaFor builds the normalized criteria from a posting record.
func CriteriaFor(opp *model.Opportunity) EligibilityCriteria {
	c := EligibilityCriteria{
		OnCampus:         opp.Category == model.CategoryOnCampus,
		Deadline:         opp.Deadline,
		MinXPercent:      opp.EligibilityXPercent,
		MinXIIPercent:    opp.EligibilityXIIPercent,
		MaxActiveBacklog: opp.EligibilityActiveBacklogs,
		MaxDeadBacklog:   opp.EligibilityDeadBacklogs,
		MinCGPA:          opp.EligibilityCGPA,
		MaxGapYears:      opp.EligibilityMaxGapYears,
		Tier:             opp.Tier,
	}
	if opp.EligibilityEnrollmentPrefix != nil {
		c.EnrollmentPrefix = strings.TrimSpace(*opp.EligibilityEnrollmentPrefix)
	}
	if opp.EligibilityBranch != nil {
		c.AllowedBranches = ParseBranchList(*opp.EligibilityBranch)
	}
	return c
}

// ParseBranchList splits a comma-separated branch filter into a set of
// normalized uppercase tokens. Blank entries are dropped; an empty
// result means every branch is allowed.
func ParseBranchList(raw string) map[string]bool {
	branches := make(map[string]bool)
	for _, token := range strings.Split(raw, ",") {
		token = strings.ToUpper(strings.TrimSpace(token))
		if token != "" {
			branches[token] = true
		}
	}
	return branches
}

// floatOrZero treats a missing student value as 0 for minimum checks.
// Missing data fails minimums; this matches how existing records are
// screened and must not change.
func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Evaluate decides whether a student may apply to a posting. Pure: the
// same inputs always yield the same verdict, and nothing is mutated.
//
// Checks run in a fixed order and short-circuit on the first failure:
// category, account lock, deadline, enrollment prefix, X %, XII %,
// active backlogs, dead backlogs, CGPA, branch, year gap, placement
// tier.
func Evaluate(profile *model.StudentProfile, criteria EligibilityCriteria, accountLocked bool, now time.Time) Verdict {
	// Off-campus postings carry no gating at all.
	if !criteria.OnCampus {
		return eligibleVerdict
	}

	if accountLocked {
		return ineligible(ReasonAccountLocked)
	}

	if criteria.Deadline != nil && now.After(*criteria.Deadline) {
		return ineligible(ReasonDeadlinePassed)
	}

	if criteria.EnrollmentPrefix != "" && !strings.HasPrefix(profile.Enrollment, criteria.EnrollmentPrefix) {
		return ineligible(ReasonEnrollmentPrefix)
	}

	if criteria.MinXPercent != nil && floatOrZero(profile.XPercentage) < *criteria.MinXPercent {
		return ineligible(ReasonXPercentage)
	}

	if criteria.MinXIIPercent != nil && floatOrZero(profile.XIIPercentage) < *criteria.MinXIIPercent {
		return ineligible(ReasonXIIPercentage)
	}

	if criteria.MaxActiveBacklog != nil && profile.ActiveBacklogs > *criteria.MaxActiveBacklog {
		return ineligible(ReasonActiveBacklogs)
	}

	if criteria.MaxDeadBacklog != nil && profile.DeadBacklogs > *criteria.MaxDeadBacklog {
		return ineligible(ReasonDeadBacklogs)
	}

	if criteria.MinCGPA != nil && floatOrZero(profile.CGPA) < *criteria.MinCGPA {
		return ineligible(ReasonCGPA)
	}

	if len(criteria.AllowedBranches) > 0 && !criteria.AllowedBranches[strings.ToUpper(profile.Branch)] {
		return ineligible(ReasonBranch)
	}

	if criteria.MaxGapYears != nil {
		// A student without a year gap has an effective gap of 0 even
		// when a stale duration is stored.
		gap := 0
		if profile.HasYearGap && profile.YearGapDuration != nil {
			gap = *profile.YearGapDuration
		}
		if gap > *criteria.MaxGapYears {
			return ineligible(ReasonYearGap)
		}
	}

	if criteria.Tier != nil {
		switch profile.PlacementStatus {
		case model.PlacementDreamPlaced:
			// Dream-placed students are done with tiered hiring.
			return ineligible(ReasonAlreadyDreamPlaced)
		case model.PlacementStandardPlaced:
			if *criteria.Tier != model.TierDream {
				return ineligible(ReasonTierRestricted)
			}
		case model.PlacementNormalPlaced:
			if *criteria.Tier == model.TierNormal {
				return ineligible(ReasonTierRestricted)
			}
		}
	}

	return eligibleVerdict
}
