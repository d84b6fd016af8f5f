package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/placement-cell/placements-api/model"
	"gorm.io/gorm"
)

// ExportService renders a posting's applicants as tabular data limited
// to the posting's shared-field keys. The resolved CV URL is always the
// terminal column, regardless of the requested keys.
type ExportService struct {
	db *gorm.DB
}

// NewExportService creates a new export service
func NewExportService(db *gorm.DB) *ExportService {
	return &ExportService{db: db}
}

// The selectedCv column comes from the application, not the profile.
const exportCVColumn = "selectedCv"

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatIntPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatStringPtr(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// profileFieldValue resolves a shared-field key against a student
// profile. Keys match the original export vocabulary; unknown keys
// render blank rather than failing the whole export.
func profileFieldValue(p *model.StudentProfile, key string) string {
	switch key {
	case "name":
		return p.Name
	case "email":
		return p.Email
	case "mobile":
		return p.Mobile
	case "enrollment":
		return p.Enrollment
	case "branch":
		return p.Branch
	case "photoUrl":
		return p.PhotoURL
	case "cgpa":
		return formatFloatPtr(p.CGPA)
	case "xPercentage":
		return formatFloatPtr(p.XPercentage)
	case "xiiPercentage":
		return formatFloatPtr(p.XIIPercentage)
	case "sgpaSem1":
		return formatFloatPtr(p.SgpaSem1)
	case "sgpaSem2":
		return formatFloatPtr(p.SgpaSem2)
	case "sgpaSem3":
		return formatFloatPtr(p.SgpaSem3)
	case "sgpaSem4":
		return formatFloatPtr(p.SgpaSem4)
	case "sgpaSem5":
		return formatFloatPtr(p.SgpaSem5)
	case "sgpaSem6":
		return formatFloatPtr(p.SgpaSem6)
	case "sgpaSem7":
		return formatFloatPtr(p.SgpaSem7)
	case "sgpaSem8":
		return formatFloatPtr(p.SgpaSem8)
	case "activeBacklogs":
		return strconv.Itoa(p.ActiveBacklogs)
	case "deadBacklogs":
		return strconv.Itoa(p.DeadBacklogs)
	case "hasYearGap":
		return strconv.FormatBool(p.HasYearGap)
	case "yearGapDuration":
		return formatIntPtr(p.YearGapDuration)
	case "placementStatus":
		return string(p.PlacementStatus)
	case "cv1Url":
		return formatStringPtr(p.CV1URL)
	case "cv2Url":
		return formatStringPtr(p.CV2URL)
	case "cv3Url":
		return formatStringPtr(p.CV3URL)
	case "tpoName":
		return p.TPOName
	case "tpoEmail":
		return p.TPOEmail
	case "tpoMobile":
		return p.TPOMobile
	case "tnpName":
		return p.TNPName
	case "tnpEmail":
		return p.TNPEmail
	case "tnpMobile":
		return p.TNPMobile
	case "icName":
		return p.ICName
	case "icEmail":
		return p.ICEmail
	case "icMobile":
		return p.ICMobile
	default:
		return ""
	}
}

// ExportColumns returns the shared-field keys with selectedCv appended
// as the final column.
func ExportColumns(opp *model.Opportunity) []string {
	columns := make([]string, 0, len(opp.SharedFields)+1)
	columns = append(columns, opp.SharedFields...)
	return append(columns, exportCVColumn)
}

// BuildExportRows maps applications onto the posting's export columns.
func BuildExportRows(opp *model.Opportunity, applications []model.Application) []map[string]string {
	columns := ExportColumns(opp)
	rows := make([]map[string]string, 0, len(applications))
	for i := range applications {
		app := &applications[i]
		row := make(map[string]string, len(columns))
		for _, key := range columns {
			if key == exportCVColumn {
				row[key] = app.SelectedCV
				continue
			}
			row[key] = profileFieldValue(&app.Student, key)
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteCSV streams the applicant table for a posting the coordinator
// owns. Callers pass the response body writer.
func (s *ExportService) WriteCSV(ctx context.Context, opp *model.Opportunity, w io.Writer) error {
	var applications []model.Application
	err := s.db.WithContext(ctx).Preload("Student").
		Where("opportunity_id = ?", opp.ID).
		Find(&applications).Error
	if err != nil {
		return wrapError(KindInternal, "failed to fetch applications", err)
	}

	columns := ExportColumns(opp)
	writer := csv.NewWriter(w)
	if err := writer.Write(columns); err != nil {
		return wrapError(KindInternal, "failed to write export header", err)
	}
	for _, row := range BuildExportRows(opp, applications) {
		record := make([]string, len(columns))
		for i, key := range columns {
			record[i] = row[key]
		}
		if err := writer.Write(record); err != nil {
			return wrapError(KindInternal, "failed to write export row", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return wrapError(KindInternal, "failed to flush export", err)
	}
	return nil
}

// ExportFilename names the CSV download for a posting.
func ExportFilename(opportunityID uint) string {
	return fmt.Sprintf("opportunity-%d-applications.csv", opportunityID)
}
