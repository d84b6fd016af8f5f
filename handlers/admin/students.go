package admin

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/placement-cell/placements-api/model"
	"github.com/placement-cell/placements-api/utils/auth"
	"github.com/placement-cell/placements-api/utils/response"
	"gorm.io/gorm"
)

// StudentProfileFields are the admin-editable profile attributes,
// shared by the single-student and bulk upsert requests.
type StudentProfileFields struct {
	Name            string   `json:"name" validate:"omitempty,max=255"`
	Email           string   `json:"email" validate:"omitempty,email"`
	Mobile          string   `json:"mobile" validate:"omitempty,max=20"`
	Branch          string   `json:"branch" validate:"omitempty,max=50"`
	PhotoURL        string   `json:"photoUrl" validate:"omitempty,max=500"`
	CGPA            *float64 `json:"cgpa" validate:"omitempty,gte=0,lte=10"`
	XPercentage     *float64 `json:"xPercentage" validate:"omitempty,gte=0,lte=100"`
	XIIPercentage   *float64 `json:"xiiPercentage" validate:"omitempty,gte=0,lte=100"`
	SgpaSem1        *float64 `json:"sgpaSem1" validate:"omitempty,gte=0,lte=10"`
	SgpaSem2        *float64 `json:"sgpaSem2" validate:"omitempty,gte=0,lte=10"`
	SgpaSem3        *float64 `json:"sgpaSem3" validate:"omitempty,gte=0,lte=10"`
	SgpaSem4        *float64 `json:"sgpaSem4" validate:"omitempty,gte=0,lte=10"`
	SgpaSem5        *float64 `json:"sgpaSem5" validate:"omitempty,gte=0,lte=10"`
	SgpaSem6        *float64 `json:"sgpaSem6" validate:"omitempty,gte=0,lte=10"`
	SgpaSem7        *float64 `json:"sgpaSem7" validate:"omitempty,gte=0,lte=10"`
	SgpaSem8        *float64 `json:"sgpaSem8" validate:"omitempty,gte=0,lte=10"`
	ActiveBacklogs  int      `json:"activeBacklogs" validate:"gte=0"`
	DeadBacklogs    int      `json:"deadBacklogs" validate:"gte=0"`
	HasYearGap      bool     `json:"hasYearGap"`
	YearGapDuration *int     `json:"yearGapDuration" validate:"omitempty,gte=0"`
	CV1URL          *string  `json:"cv1Url" validate:"omitempty,max=500"`
	CV2URL          *string  `json:"cv2Url" validate:"omitempty,max=500"`
	CV3URL          *string  `json:"cv3Url" validate:"omitempty,max=500"`
	TPOName         string   `json:"tpoName" validate:"omitempty,max=255"`
	TPOEmail        string   `json:"tpoEmail" validate:"omitempty,email"`
	TPOMobile       string   `json:"tpoMobile" validate:"omitempty,max=20"`
	TNPName         string   `json:"tnpName" validate:"omitempty,max=255"`
	TNPEmail        string   `json:"tnpEmail" validate:"omitempty,email"`
	TNPMobile       string   `json:"tnpMobile" validate:"omitempty,max=20"`
	ICName          string   `json:"icName" validate:"omitempty,max=255"`
	ICEmail         string   `json:"icEmail" validate:"omitempty,email"`
	ICMobile        string   `json:"icMobile" validate:"omitempty,max=20"`
	PlacementStatus string   `json:"placementStatus" validate:"omitempty,oneof=UNPLACED NORMAL_PLACED STANDARD_PLACED DREAM_PLACED"`
}

func (f *StudentProfileFields) applyTo(profile *model.StudentProfile) {
	profile.Name = f.Name
	profile.Email = f.Email
	profile.Mobile = f.Mobile
	profile.PhotoURL = f.PhotoURL
	if f.Branch != "" {
		profile.Branch = f.Branch
	}
	profile.CGPA = f.CGPA
	profile.XPercentage = f.XPercentage
	profile.XIIPercentage = f.XIIPercentage
	profile.SgpaSem1 = f.SgpaSem1
	profile.SgpaSem2 = f.SgpaSem2
	profile.SgpaSem3 = f.SgpaSem3
	profile.SgpaSem4 = f.SgpaSem4
	profile.SgpaSem5 = f.SgpaSem5
	profile.SgpaSem6 = f.SgpaSem6
	profile.SgpaSem7 = f.SgpaSem7
	profile.SgpaSem8 = f.SgpaSem8
	profile.ActiveBacklogs = f.ActiveBacklogs
	profile.DeadBacklogs = f.DeadBacklogs
	profile.HasYearGap = f.HasYearGap
	profile.YearGapDuration = f.YearGapDuration
	profile.CV1URL = f.CV1URL
	profile.CV2URL = f.CV2URL
	profile.CV3URL = f.CV3URL
	profile.TPOName = f.TPOName
	profile.TPOEmail = f.TPOEmail
	profile.TPOMobile = f.TPOMobile
	profile.TNPName = f.TNPName
	profile.TNPEmail = f.TNPEmail
	profile.TNPMobile = f.TNPMobile
	profile.ICName = f.ICName
	profile.ICEmail = f.ICEmail
	profile.ICMobile = f.ICMobile
	if f.PlacementStatus != "" {
		profile.PlacementStatus = model.PlacementStatus(f.PlacementStatus)
	}
}

// UpsertStudentRequest provisions a student account with its profile,
// keyed by enrollment.
type UpsertStudentRequest struct {
	LoginID    string `json:"loginId" validate:"required,min=1,max=100"`
	Password   string `json:"password" validate:"required,min=8,max=200"`
	Enrollment string `json:"enrollment" validate:"required,min=1,max=50"`
	StudentProfileFields
}

// StudentSummary is the admin listing row for a student account.
type StudentSummary struct {
	UserID     uint   `json:"userId"`
	LoginID    string `json:"loginId"`
	Enrollment string `json:"enrollment"`
	Branch     string `json:"branch"`
	Email      string `json:"email"`
	IsLocked   bool   `json:"isLocked"`
}

// LockStudentRequest locks or unlocks a student account by enrollment.
type LockStudentRequest struct {
	Enrollment string `json:"enrollment" validate:"required,min=1,max=50"`
	Locked     bool   `json:"locked"`
}

// upsertStudent creates or updates the user + profile pair inside one
// transaction. Enrollment is the upsert key and stays immutable.
func (h *AdminHandler) upsertStudent(req *UpsertStudentRequest) (*model.StudentProfile, error) {
	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	var profile model.StudentProfile
	err = h.db.Transaction(func(tx *gorm.DB) error {
		var user model.User
		err := tx.Where("login_id = ?", req.LoginID).First(&user).Error
		switch {
		case err == nil:
			if user.Role != model.RoleStudent {
				return errors.New("login id belongs to a non-student account")
			}
			user.PasswordHash = passwordHash
			if err := tx.Save(&user).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			user = model.User{
				LoginID:      req.LoginID,
				PasswordHash: passwordHash,
				Role:         model.RoleStudent,
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
		default:
			return err
		}

		err = tx.Where("enrollment = ?", req.Enrollment).First(&profile).Error
		switch {
		case err == nil:
			req.applyTo(&profile)
			return tx.Save(&profile).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			profile = model.StudentProfile{
				UserID:     user.ID,
				Enrollment: req.Enrollment,
			}
			req.applyTo(&profile)
			return tx.Create(&profile).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpsertStudent handles POST /api/v1/ccd/students
func (h *AdminHandler) UpsertStudent(c *fiber.Ctx) error {
	actor, ok := c.Locals("user").(*model.User)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req UpsertStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	profile, err := h.upsertStudent(&req)
	if err != nil {
		return response.Conflict(c, "Could not create student: login id or enrollment already in use")
	}

	h.audit(actor.ID, model.AuditUpsertStudent, fiber.Map{"enrollment": req.Enrollment})
	return response.Created(c, profile)
}

// ListStudents handles GET /api/v1/ccd/students
func (h *AdminHandler) ListStudents(c *fiber.Ctx) error {
	var users []model.User
	err := h.db.Preload("StudentProfile").
		Where("role = ?", model.RoleStudent).
		Order("id ASC").
		Find(&users).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch students")
	}

	summaries := make([]StudentSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, summarize(&users[i]))
	}
	return response.Success(c, summaries)
}

// ListLockedStudents handles GET /api/v1/ccd/students/locked
func (h *AdminHandler) ListLockedStudents(c *fiber.Ctx) error {
	var users []model.User
	err := h.db.Preload("StudentProfile").
		Where("role = ? AND is_locked = true", model.RoleStudent).
		Order("id ASC").
		Find(&users).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch students")
	}

	summaries := make([]StudentSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, summarize(&users[i]))
	}
	return response.Success(c, summaries)
}

func summarize(user *model.User) StudentSummary {
	s := StudentSummary{
		UserID:     user.ID,
		LoginID:    user.LoginID,
		Enrollment: "N/A",
		Branch:     "N/A",
		Email:      "N/A",
		IsLocked:   user.IsLocked,
	}
	if p := user.StudentProfile; p != nil {
		s.Enrollment = p.Enrollment
		s.Branch = p.Branch
		s.Email = p.Email
	}
	return s
}

// SearchStudent handles GET /api/v1/ccd/students/search
func (h *AdminHandler) SearchStudent(c *fiber.Ctx) error {
	enrollment := c.Query("enrollment")
	loginID := c.Query("loginId")
	if enrollment == "" && loginID == "" {
		return response.BadRequest(c, "Please provide either enrollment or loginId")
	}

	var user model.User
	var err error
	if enrollment != "" {
		var profile model.StudentProfile
		if err = h.db.Where("enrollment = ?", enrollment).First(&profile).Error; err == nil {
			err = h.db.First(&user, profile.UserID).Error
		}
	} else {
		err = h.db.Where("login_id = ?", loginID).First(&user).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Student not found")
		}
		return response.InternalServerError(c, "Failed to search students")
	}

	if user.Role != model.RoleStudent {
		return response.BadRequest(c, "User is not a student")
	}

	var profile model.StudentProfile
	if err := h.db.Where("user_id = ?", user.ID).First(&profile).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return response.InternalServerError(c, "Failed to load profile")
	}

	return response.Success(c, fiber.Map{
		"userId":  user.ID,
		"loginId": user.LoginID,
		"profile": profile,
	})
}

// LockStudent handles POST /api/v1/ccd/students/lock. A locked student
// fails every eligibility check until unlocked.
func (h *AdminHandler) LockStudent(c *fiber.Ctx) error {
	actor, ok := c.Locals("user").(*model.User)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req LockStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var profile model.StudentProfile
	if err := h.db.Preload("User").Where("enrollment = ?", req.Enrollment).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Student not found with this enrollment number")
		}
		return response.InternalServerError(c, "Failed to load student")
	}

	if profile.User.Role != model.RoleStudent {
		return response.BadRequest(c, "User is not a student")
	}

	if err := h.db.Model(&model.User{}).Where("id = ?", profile.UserID).
		Update("is_locked", req.Locked).Error; err != nil {
		return response.InternalServerError(c, "Failed to update lock state")
	}

	action := model.AuditUnlockStudent
	if req.Locked {
		action = model.AuditLockStudent
	}
	h.audit(actor.ID, action, fiber.Map{"userId": profile.UserID, "enrollment": req.Enrollment})

	return response.SuccessWithMessage(c, "Lock state updated", fiber.Map{
		"userId":   profile.UserID,
		"isLocked": req.Locked,
	})
}

// GetStudentProfile handles GET /api/v1/ccd/students/:userId/profile
func (h *AdminHandler) GetStudentProfile(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("userId"), 10, 32)
	if err != nil || userID == 0 {
		return response.BadRequest(c, "Invalid user ID")
	}

	var user model.User
	if err := h.db.First(&user, uint(userID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to load user")
	}
	if user.Role != model.RoleStudent {
		return response.BadRequest(c, "User is not a student")
	}

	var profile model.StudentProfile
	if err := h.db.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Student profile not found for this user")
		}
		return response.InternalServerError(c, "Failed to load profile")
	}

	return response.Success(c, profile)
}

// UpdateStudentProfile handles PUT /api/v1/ccd/students/:userId/profile.
// Every profile field except the enrollment number is editable here.
func (h *AdminHandler) UpdateStudentProfile(c *fiber.Ctx) error {
	actor, ok := c.Locals("user").(*model.User)
	if !ok {
		return response.Unauthorized(c, "")
	}

	userID, err := strconv.ParseUint(c.Params("userId"), 10, 32)
	if err != nil || userID == 0 {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req StudentProfileFields
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var profile model.StudentProfile
	if err := h.db.Where("user_id = ?", uint(userID)).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Student profile not found")
		}
		return response.InternalServerError(c, "Failed to load profile")
	}

	req.applyTo(&profile)
	if err := h.db.Save(&profile).Error; err != nil {
		return response.InternalServerError(c, "Failed to update profile")
	}

	h.audit(actor.ID, model.AuditUpdateStudentProfile, fiber.Map{"userId": userID})
	return response.Success(c, profile)
}
