package services

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/placement-cell/placements-api/database"
	"github.com/placement-cell/placements-api/model"
	"gorm.io/gorm"
)

// setupIntegrationDB connects to the test database. Requires a running
// PostgreSQL configured through the usual DB_* environment variables.
func setupIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()
	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping integration test. Set RUN_INTEGRATION_TESTS=true to run")
	}

	store, err := database.StartGORM()
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	if err := store.Init(); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}
	return store.GetDB()
}

// fixtures creates a fresh student (user + profile), coordinator and
// posting for one test run. Unique suffixes keep runs independent.
func fixtures(t *testing.T, db *gorm.DB) (*model.User, *model.StudentProfile, *model.User, *model.Opportunity) {
	t.Helper()
	suffix := fmt.Sprintf("%d", time.Now().UnixNano())

	student := &model.User{
		LoginID:      "it-student-" + suffix,
		PasswordHash: "x",
		Role:         model.RoleStudent,
	}
	if err := db.Create(student).Error; err != nil {
		t.Fatalf("create student user: %v", err)
	}

	cv1 := "https://cv.example/" + suffix + "-1.pdf"
	cv2 := "https://cv.example/" + suffix + "-2.pdf"
	profile := &model.StudentProfile{
		UserID:          student.ID,
		Enrollment:      "it" + suffix,
		Branch:          "CSE",
		CGPA:            fp(8),
		XPercentage:     fp(90),
		XIIPercentage:   fp(90),
		CV1URL:          &cv1,
		CV2URL:          &cv2,
		PlacementStatus: model.PlacementUnplaced,
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("create profile: %v", err)
	}

	coordinator := &model.User{
		LoginID:      "it-coord-" + suffix,
		PasswordHash: "x",
		Role:         model.RoleCoordinator,
	}
	if err := db.Create(coordinator).Error; err != nil {
		t.Fatalf("create coordinator: %v", err)
	}

	posting := &model.Opportunity{
		Category:      model.CategoryOnCampus,
		CompanyName:   "Integration Co",
		JobRole:       "SDE",
		CoordinatorID: coordinator.ID,
	}
	if err := db.Create(posting).Error; err != nil {
		t.Fatalf("create posting: %v", err)
	}

	t.Cleanup(func() {
		db.Where("opportunity_id = ?", posting.ID).Delete(&model.Application{})
		db.Delete(posting)
		db.Where("user_id IN ?", []uint{student.ID, coordinator.ID}).Delete(&model.Notification{})
		db.Delete(profile)
		db.Delete(student)
		db.Delete(coordinator)
	})

	return student, profile, coordinator, posting
}

func TestApplySupersedesPriorApplication(t *testing.T) {
	db := setupIntegrationDB(t)
	student, profile, coordinator, posting := fixtures(t, db)
	ctx := context.Background()

	apps := NewApplicationService(db)
	roundsSvc := NewRoundService(db)

	first, err := apps.Apply(ctx, student.ID, posting.ID, model.CVSlot1)
	if err != nil {
		t.Fatalf("first apply: %v", err)
	}

	_, err = roundsSvc.RecordRounds(ctx, posting.ID, coordinator.ID, 1, RoundLogistics{},
		[]RoundResult{{ApplicationID: first.ID, Status: model.RoundStatusSelected}})
	if err != nil {
		t.Fatalf("record round: %v", err)
	}

	second, err := apps.Apply(ctx, student.ID, posting.ID, model.CVSlot2)
	if err != nil {
		t.Fatalf("re-apply: %v", err)
	}
	if second.ID == first.ID {
		t.Fatal("re-apply must create a new application row")
	}
	if second.SelectedCV != *profile.CV2URL {
		t.Fatalf("surviving application must carry the second apply's CV, got %q", second.SelectedCV)
	}

	var count int64
	db.Model(&model.Application{}).
		Where("student_id = ? AND opportunity_id = ?", profile.ID, posting.ID).
		Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly one live application, got %d", count)
	}

	// The superseded application's round history must be gone.
	var roundCount int64
	db.Model(&model.ApplicationRound{}).
		Where("application_id IN ?", []uint{first.ID, second.ID}).
		Count(&roundCount)
	if roundCount != 0 {
		t.Fatalf("expected superseded rounds deleted, found %d", roundCount)
	}
}

func TestUpdatePostingPurgesNewlyIneligible(t *testing.T) {
	db := setupIntegrationDB(t)
	student, _, coordinator, posting := fixtures(t, db)
	ctx := context.Background()

	apps := NewApplicationService(db)
	opps := NewOpportunityService(db)

	if _, err := apps.Apply(ctx, student.ID, posting.ID, model.CVSlot1); err != nil {
		t.Fatalf("apply: %v", err)
	}

	// Raise the CGPA bar above the student's 8.
	updated, purged, err := opps.UpdatePosting(ctx, posting.ID, coordinator.ID, PostingInput{
		Category:        posting.Category,
		CompanyName:     posting.CompanyName,
		JobRole:         posting.JobRole,
		EligibilityCGPA: fp(9.5),
	})
	if err != nil {
		t.Fatalf("update posting: %v", err)
	}
	if purged != 1 {
		t.Fatalf("expected 1 purged application, got %d", purged)
	}
	if updated.EligibilityCGPA == nil || *updated.EligibilityCGPA != 9.5 {
		t.Fatalf("criteria change not persisted: %+v", updated.EligibilityCGPA)
	}

	var count int64
	db.Model(&model.Application{}).Where("opportunity_id = ?", posting.ID).Count(&count)
	if count != 0 {
		t.Fatalf("expected purged applications gone, found %d", count)
	}
}

func TestRecordRoundsUpsertsAndNotifies(t *testing.T) {
	db := setupIntegrationDB(t)
	student, _, coordinator, posting := fixtures(t, db)
	ctx := context.Background()

	apps := NewApplicationService(db)
	roundsSvc := NewRoundService(db)

	application, err := apps.Apply(ctx, student.ID, posting.ID, model.CVSlot1)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	var before int64
	db.Model(&model.Notification{}).Where("user_id = ?", student.ID).Count(&before)

	results := []RoundResult{{ApplicationID: application.ID, Status: model.RoundStatusSelected}}
	if _, err := roundsSvc.RecordRounds(ctx, posting.ID, coordinator.ID, 1, RoundLogistics{}, results); err != nil {
		t.Fatalf("first record: %v", err)
	}

	// Re-announcing the same round replaces the row instead of adding one.
	results[0].Status = model.RoundStatusRejected
	if _, err := roundsSvc.RecordRounds(ctx, posting.ID, coordinator.ID, 1, RoundLogistics{}, results); err != nil {
		t.Fatalf("second record: %v", err)
	}

	var rounds []model.ApplicationRound
	db.Where("application_id = ?", application.ID).Find(&rounds)
	if len(rounds) != 1 {
		t.Fatalf("expected one round row after upsert, got %d", len(rounds))
	}
	if rounds[0].Status != model.RoundStatusRejected {
		t.Fatalf("expected status updated to REJECTED, got %s", rounds[0].Status)
	}

	// A rejected round never removes the application.
	var appCount int64
	db.Model(&model.Application{}).Where("id = ?", application.ID).Count(&appCount)
	if appCount != 1 {
		t.Fatal("application must survive a REJECTED round")
	}

	var after int64
	db.Model(&model.Notification{}).Where("user_id = ?", student.ID).Count(&after)
	if after-before != 2 {
		t.Fatalf("expected one notification per record call, got %d new", after-before)
	}
}

func TestApplyRejectsIneligibleWithReasonMessage(t *testing.T) {
	db := setupIntegrationDB(t)
	student, _, _, posting := fixtures(t, db)
	ctx := context.Background()

	if err := db.Model(&model.Opportunity{}).Where("id = ?", posting.ID).
		Update("eligibility_cgpa", 9.9).Error; err != nil {
		t.Fatalf("tighten criteria: %v", err)
	}

	apps := NewApplicationService(db)
	_, err := apps.Apply(ctx, student.ID, posting.ID, model.CVSlot1)
	if err == nil {
		t.Fatal("expected ineligible apply to fail")
	}
	if KindOf(err) != KindIneligible {
		t.Fatalf("expected INELIGIBLE kind, got %s", KindOf(err))
	}
	if err.Error() != ReasonCGPA.Message() {
		t.Fatalf("expected %q, got %q", ReasonCGPA.Message(), err.Error())
	}
}
