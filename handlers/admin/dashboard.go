package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/placement-cell/placements-api/model"
	"github.com/placement-cell/placements-api/utils/response"
)

type statusCount struct {
	PlacementStatus model.PlacementStatus `json:"placementStatus"`
	Count           int64                 `json:"count"`
}

type branchCount struct {
	Branch string `json:"branch"`
	Count  int64  `json:"count"`
}

var placedStatuses = []model.PlacementStatus{
	model.PlacementDreamPlaced,
	model.PlacementStandardPlaced,
	model.PlacementNormalPlaced,
}

// Dashboard handles GET /api/v1/ccd/dashboard with placement-cell wide
// statistics. Open to both CCD admins and members.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	var totalStudents int64
	if err := h.db.Model(&model.StudentProfile{}).Count(&totalStudents).Error; err != nil {
		return response.InternalServerError(c, "Failed to compute statistics")
	}

	var placedStudents int64
	if err := h.db.Model(&model.StudentProfile{}).
		Where("placement_status IN ?", placedStatuses).
		Count(&placedStudents).Error; err != nil {
		return response.InternalServerError(c, "Failed to compute statistics")
	}

	var placedCounts []statusCount
	if err := h.db.Model(&model.StudentProfile{}).
		Select("placement_status, COUNT(*) as count").
		Group("placement_status").
		Scan(&placedCounts).Error; err != nil {
		return response.InternalServerError(c, "Failed to compute statistics")
	}

	var branchPlacedCounts []branchCount
	if err := h.db.Model(&model.StudentProfile{}).
		Select("branch, COUNT(*) as count").
		Where("placement_status IN ?", placedStatuses).
		Group("branch").
		Scan(&branchPlacedCounts).Error; err != nil {
		return response.InternalServerError(c, "Failed to compute statistics")
	}

	var branchTotalCounts []branchCount
	if err := h.db.Model(&model.StudentProfile{}).
		Select("branch, COUNT(*) as count").
		Group("branch").
		Scan(&branchTotalCounts).Error; err != nil {
		return response.InternalServerError(c, "Failed to compute statistics")
	}

	var lockedStudentsCount int64
	if err := h.db.Model(&model.User{}).
		Where("role = ? AND is_locked = true", model.RoleStudent).
		Count(&lockedStudentsCount).Error; err != nil {
		return response.InternalServerError(c, "Failed to compute statistics")
	}

	return response.Success(c, fiber.Map{
		"totalStudents":       totalStudents,
		"placedStudents":      placedStudents,
		"placedCounts":        placedCounts,
		"branchPlacedCounts":  branchPlacedCounts,
		"branchTotalCounts":   branchTotalCounts,
		"lockedStudentsCount": lockedStudentsCount,
	})
}
