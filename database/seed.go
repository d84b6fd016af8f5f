package database

import (
	"errors"
	"fmt"
	"log"

	"github.com/placement-cell/placements-api/model"
	"github.com/placement-cell/placements-api/utils/auth"
	"gorm.io/gorm"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
func strPtr(v string) *string     { return &v }

// seedUser creates the account if the login id is free and leaves it
// untouched otherwise, so reseeding is safe.
func seedUser(db *gorm.DB, loginID, password, role string) (*model.User, error) {
	var user model.User
	err := db.Where("login_id = ?", loginID).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user = model.User{
		LoginID:      loginID,
		PasswordHash: passwordHash,
		Role:         role,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func seedProfile(db *gorm.DB, profile model.StudentProfile) error {
	var existing model.StudentProfile
	err := db.Where("user_id = ?", profile.UserID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return db.Create(&profile).Error
}

// RunSeeds populates development accounts: four students spread across
// branches and placement statuses, one coordinator and the CCD staff.
func RunSeeds(db *gorm.DB) error {
	type studentSeed struct {
		loginID string
		profile model.StudentProfile
	}

	seeds := []studentSeed{
		{
			loginID: "23ucs001",
			profile: model.StudentProfile{
				PhotoURL: "photo", Email: "a@nita.ac.in", Mobile: "1234567890",
				Enrollment: "23ucs001", Branch: "CSE",
				SgpaSem1: floatPtr(8), SgpaSem2: floatPtr(8), SgpaSem3: floatPtr(8),
				SgpaSem4: floatPtr(8), SgpaSem5: floatPtr(8),
				SgpaSem6: floatPtr(0), SgpaSem7: floatPtr(0), SgpaSem8: floatPtr(0),
				CGPA: floatPtr(8), XPercentage: floatPtr(95), XIIPercentage: floatPtr(90),
				HasYearGap: false, YearGapDuration: intPtr(0),
				CV1URL:  strPtr("acv.com"),
				TPOName: "csetpo", TPOEmail: "csetnp@nita.ac.in", TPOMobile: "1234567890",
				TNPName: "csetnp", TNPEmail: "csetnp@nita.ac.in", TNPMobile: "1234567890",
				ICName: "cseic", ICEmail: "csetnp@nita.ac.in", ICMobile: "1234567890",
				PlacementStatus: model.PlacementDreamPlaced,
			},
		},
		{
			loginID: "23uec001",
			profile: model.StudentProfile{
				PhotoURL: "photo", Email: "b@nita.ac.in", Mobile: "1234567890",
				Enrollment: "23uec001", Branch: "ECE",
				SgpaSem1: floatPtr(8), SgpaSem2: floatPtr(8), SgpaSem3: floatPtr(8),
				SgpaSem4: floatPtr(8), SgpaSem5: floatPtr(8),
				CGPA: floatPtr(8.5), XPercentage: floatPtr(95), XIIPercentage: floatPtr(90),
				HasYearGap: true, YearGapDuration: intPtr(1),
				CV1URL:  strPtr("bcv.com"),
				TPOName: "ecetpo", TPOEmail: "ecetnp@nita.ac.in", TPOMobile: "1234567890",
				TNPName: "ecetnp", TNPEmail: "ecetnp@nita.ac.in", TNPMobile: "1234567890",
				ICName: "eceic", ICEmail: "ecetnp@nita.ac.in", ICMobile: "1234567890",
				PlacementStatus: model.PlacementNormalPlaced,
			},
		},
		{
			loginID: "23uee001",
			profile: model.StudentProfile{
				PhotoURL: "photo", Email: "c@nita.ac.in", Mobile: "1234567890",
				Enrollment: "23uee001", Branch: "EE",
				SgpaSem1: floatPtr(8), SgpaSem2: floatPtr(8), SgpaSem3: floatPtr(8),
				SgpaSem4: floatPtr(8), SgpaSem5: floatPtr(8),
				CGPA: floatPtr(9), XPercentage: floatPtr(95), XIIPercentage: floatPtr(90),
				HasYearGap: false, YearGapDuration: intPtr(0),
				CV1URL:  strPtr("ccv.com"),
				TPOName: "eetpo", TPOEmail: "eetnp@nita.ac.in", TPOMobile: "1234567890",
				TNPName: "eetnp", TNPEmail: "eetnp@nita.ac.in", TNPMobile: "1234567890",
				ICName: "eeic", ICEmail: "eetnp@nita.ac.in", ICMobile: "1234567890",
				PlacementStatus: model.PlacementStandardPlaced,
			},
		},
		{
			loginID: "23uics001",
			profile: model.StudentProfile{
				PhotoURL: "photo", Email: "d@nita.ac.in", Mobile: "1234567890",
				Enrollment: "23uics001", Branch: "CSE",
				SgpaSem1: floatPtr(8), SgpaSem2: floatPtr(8), SgpaSem3: floatPtr(8),
				SgpaSem4: floatPtr(8), SgpaSem5: floatPtr(8),
				CGPA: floatPtr(9.5), XPercentage: floatPtr(95), XIIPercentage: floatPtr(90),
				HasYearGap: false, YearGapDuration: intPtr(0),
				CV1URL:  strPtr("dcv.com"),
				TPOName: "icsetpo", TPOEmail: "icsetnp@nita.ac.in", TPOMobile: "1234567890",
				TNPName: "icsetnp", TNPEmail: "icsetnp@nita.ac.in", TNPMobile: "1234567890",
				ICName: "icseic", ICEmail: "icsetnp@nita.ac.in", ICMobile: "1234567890",
				PlacementStatus: model.PlacementUnplaced,
			},
		},
	}

	for _, s := range seeds {
		user, err := seedUser(db, s.loginID, "student1", model.RoleStudent)
		if err != nil {
			return fmt.Errorf("seed student %s: %w", s.loginID, err)
		}
		s.profile.UserID = user.ID
		if err := seedProfile(db, s.profile); err != nil {
			return fmt.Errorf("seed profile %s: %w", s.loginID, err)
		}
		log.Printf("Seeded student %s", s.loginID)
	}

	// Coordinator & CCD accounts
	if _, err := seedUser(db, "tnp", "password", model.RoleCoordinator); err != nil {
		return err
	}
	if _, err := seedUser(db, "admin1", "password", model.RoleCCDAdmin); err != nil {
		return err
	}
	if _, err := seedUser(db, "ccd1", "password", model.RoleCCDMember); err != nil {
		return err
	}

	return nil
}
