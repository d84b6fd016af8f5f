package services

import (
	"testing"

	"github.com/lib/pq"
	"github.com/placement-cell/placements-api/model"
)

func exportOpportunity(shared ...string) *model.Opportunity {
	return &model.Opportunity{
		ID:           7,
		Category:     model.CategoryOnCampus,
		CompanyName:  "Acme",
		JobRole:      "SDE",
		SharedFields: pq.StringArray(shared),
	}
}

func TestExportColumnsAppendSelectedCVLast(t *testing.T) {
	opp := exportOpportunity("name", "cgpa", "branch")
	columns := ExportColumns(opp)

	want := []string{"name", "cgpa", "branch", "selectedCv"}
	if len(columns) != len(want) {
		t.Fatalf("expected %v, got %v", want, columns)
	}
	for i := range want {
		if columns[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, columns)
		}
	}
}

func TestExportColumnsWithNoSharedFields(t *testing.T) {
	columns := ExportColumns(exportOpportunity())
	if len(columns) != 1 || columns[0] != "selectedCv" {
		t.Fatalf("expected only selectedCv, got %v", columns)
	}
}

func TestBuildExportRows(t *testing.T) {
	opp := exportOpportunity("name", "cgpa", "activeBacklogs", "hasYearGap", "cv2Url", "nonsense")

	applications := []model.Application{
		{
			SelectedCV: "https://cv.example/alice-cv1.pdf",
			Student: model.StudentProfile{
				Name:           "Alice",
				CGPA:           fp(8.75),
				ActiveBacklogs: 1,
				HasYearGap:     true,
				CV2URL:         nil,
			},
		},
		{
			SelectedCV: "https://cv.example/bob-cv3.pdf",
			Student: model.StudentProfile{
				Name:   "Bob",
				CGPA:   nil,
				CV2URL: strPtrTest("https://cv.example/bob-cv2.pdf"),
			},
		},
	}

	rows := BuildExportRows(opp, applications)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	alice := rows[0]
	if alice["name"] != "Alice" || alice["cgpa"] != "8.75" {
		t.Errorf("unexpected alice row: %v", alice)
	}
	if alice["activeBacklogs"] != "1" || alice["hasYearGap"] != "true" {
		t.Errorf("unexpected alice row: %v", alice)
	}
	if alice["cv2Url"] != "" {
		t.Errorf("nil profile CV must render blank, got %q", alice["cv2Url"])
	}
	// selectedCv is the application's resolved URL, never a profile field.
	if alice["selectedCv"] != "https://cv.example/alice-cv1.pdf" {
		t.Errorf("unexpected selectedCv: %q", alice["selectedCv"])
	}
	if alice["nonsense"] != "" {
		t.Errorf("unknown keys must render blank, got %q", alice["nonsense"])
	}

	bob := rows[1]
	if bob["cgpa"] != "" {
		t.Errorf("nil cgpa must render blank, got %q", bob["cgpa"])
	}
	if bob["cv2Url"] != "https://cv.example/bob-cv2.pdf" {
		t.Errorf("unexpected bob cv2Url: %q", bob["cv2Url"])
	}
	if bob["selectedCv"] != "https://cv.example/bob-cv3.pdf" {
		t.Errorf("unexpected bob selectedCv: %q", bob["selectedCv"])
	}
}

func TestProfileFieldValueContactsAndStatus(t *testing.T) {
	p := &model.StudentProfile{
		TPOName:         "tpo",
		TNPEmail:        "tnp@nita.ac.in",
		ICMobile:        "1234567890",
		PlacementStatus: model.PlacementStandardPlaced,
		YearGapDuration: ip(2),
	}
	checks := map[string]string{
		"tpoName":         "tpo",
		"tnpEmail":        "tnp@nita.ac.in",
		"icMobile":        "1234567890",
		"placementStatus": "STANDARD_PLACED",
		"yearGapDuration": "2",
	}
	for key, want := range checks {
		if got := profileFieldValue(p, key); got != want {
			t.Errorf("%s: expected %q, got %q", key, want, got)
		}
	}
}

func TestExportFilename(t *testing.T) {
	if got := ExportFilename(42); got != "opportunity-42-applications.csv" {
		t.Errorf("unexpected filename %q", got)
	}
}

func strPtrTest(s string) *string { return &s }
