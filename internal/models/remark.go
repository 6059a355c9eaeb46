package models

import (
	"sort"
	"time"
)

// Remark is an append-only behavioural note on a student. Remarks are
// never updated or deleted; the creation timestamp is server-assigned.
type Remark struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	Body      string    `db:"body" json:"body"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// RemarkDetail is a remark with the owning student's name denormalized
// at the read boundary.
type RemarkDetail struct {
	Remark
	StudentName string `db:"student_name" json:"student_name"`
}

// RemarkCount is the per-student remark tally used for the leaderboard.
type RemarkCount struct {
	StudentID   string `db:"student_id" json:"student_id"`
	StudentName string `db:"student_name" json:"student_name"`
	Count       int    `db:"remark_count" json:"count"`
}

// RankRemarks produces the leaderboard: students with at least one
// remark, sorted by count descending with student name ascending as the
// tie-break, truncated to limit. The tie-break makes the ordering
// deterministic; the source data has no documented secondary key.
func RankRemarks(counts []RemarkCount, limit int) []RemarkCount {
	ranked := make([]RemarkCount, 0, len(counts))
	for _, c := range counts {
		if c.Count > 0 {
			ranked = append(ranked, c)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].StudentName < ranked[j].StudentName
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
