package course

import (
	"sort"
	"strings"

	"github.com/trezcool/darasa/core/user"
)

// IsStudentRole reports whether role belongs to the student family.
func IsStudentRole(role string) bool {
	return strings.HasPrefix(role, user.RoleStudent)
}

// isStaffRole reports whether role grants full curriculum access (authoring/preview).
func isStaffRole(role string) bool {
	return strings.HasPrefix(role, user.RoleInstructor) || strings.HasPrefix(role, user.RoleAdmin)
}

// SortLectures sorts lectures by their structural Order, ascending.
func SortLectures(lectures []Lecture) {
	sort.SliceStable(lectures, func(i, j int) bool { return lectures[i].Order < lectures[j].Order })
}

// IsUnlocked reports whether the lecture at position idx of lectures (sorted
// by Order ascending; the caller owns fetching and sorting) is accessible.
//
// Instructors and admins always have full access. For students the first
// lecture is always open; any other lecture opens only once its immediate
// predecessor has a completion entry. Unlocking is deliberately not computed
// transitively from position 0: only the adjacent predecessor matters.
func IsUnlocked(idx int, lectures []Lecture, completedIDs map[string]bool, role string) bool {
	if isStaffRole(role) {
		return true
	}
	if idx < 0 || idx >= len(lectures) {
		return false
	}
	if idx == 0 {
		return true
	}
	return completedIDs[lectures[idx-1].ID]
}

// LectureInfo is a gate-annotated lecture summary for course detail listings.
// It intentionally carries no content and no questions.
type LectureInfo struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Type      string `json:"type"`
	Order     int    `json:"order"`
	Completed bool   `json:"completed"`
	Unlocked  bool   `json:"unlocked"`
}

// AnnotateLectures builds gate-annotated summaries for the given lectures,
// sorted by Order ascending.
func AnnotateLectures(lectures []Lecture, completedIDs map[string]bool, role string) []LectureInfo {
	SortLectures(lectures)
	infos := make([]LectureInfo, 0, len(lectures))
	for i, lec := range lectures {
		infos = append(infos, LectureInfo{
			ID:        lec.ID,
			Title:     lec.Title,
			Type:      lec.Type,
			Order:     lec.Order,
			Completed: completedIDs[lec.ID],
			Unlocked:  IsUnlocked(i, lectures, completedIDs, role),
		})
	}
	return infos
}
