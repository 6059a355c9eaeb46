package dto

import "github.com/ajmalakeel/tuition-center-api/internal/models"

// RemarkListResponse bundles the full remark log with the leaderboard
// of most-remarked students.
type RemarkListResponse struct {
	Remarks     []models.RemarkDetail `json:"remarks"`
	Leaderboard []models.RemarkCount  `json:"leaderboard"`
}
