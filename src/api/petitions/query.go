package petitions

import (
	"strings"
	"time"

	"github.com/armandouv/petitions-backend/src/api/types"
	"gorm.io/gorm"
)

type OrderBy string

const (
	MostRecent    OrderBy = "MOST_RECENT"
	Oldest        OrderBy = "OLDEST"
	NumberOfVotes OrderBy = "NUMBER_OF_VOTES"
	Relevance     OrderBy = "RELEVANCE"
)

// QueryParams is the validated listing input. Show and Search are optional;
// empty means "no filter". Validation (page >= 1, year >= FirstValidYear,
// enum values) happens at the HTTP boundary before this package is reached.
type QueryParams struct {
	Page    int
	OrderBy OrderBy
	Year    int
	School  string
	Show    types.PetitionStatus
	Search  string
}

// Query assembles the filtered, ordered petition listing query. Each step
// derives a new statement from the previous one; nothing touches the
// database until the pager materializes the result. The same now must be
// used here and in StatusOf so both sides agree on deadline boundaries.
func Query(db *gorm.DB, p QueryParams, now time.Time) *gorm.DB {
	// year(created_at) = p.Year, expressed as a half-open range so it is
	// portable across MySQL and SQLite and can use the created_at index.
	yearStart := time.Date(p.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	q := db.Model(&types.Petition{}).
		Where("petitions.campus = ?", p.School).
		Where("petitions.created_at >= ? AND petitions.created_at < ?",
			yearStart, yearStart.AddDate(1, 0, 0))

	if p.Show != "" {
		q = statusScope(q, p.Show, now)
	}

	if p.Search != "" {
		// Both title and description must contain the term.
		term := "%" + strings.ToLower(p.Search) + "%"
		q = q.Where("LOWER(petitions.title) LIKE ?", term).
			Where("LOWER(petitions.description) LIKE ?", term)
	}

	switch p.OrderBy {
	case Oldest:
		q = q.Order("petitions.id ASC")
	case NumberOfVotes:
		q = q.Joins("LEFT JOIN petition_votes ON petition_votes.petition_id = petitions.id").
			Group("petitions.id").
			Order("COUNT(petition_votes.petition_id) DESC").
			Order("petitions.id DESC")
	case Relevance:
		// Unresolved petitions still inside their deadline come first.
		// Only meaningful without a status filter; the filter would pin
		// every row to the same relevance anyway.
		if p.Show == "" {
			q = q.Joins("LEFT JOIN resolutions ON resolutions.petition_id = petitions.id").
				Select("petitions.*, CASE WHEN resolutions.resolution_text IS NULL AND resolutions.deadline >= ? THEN 1 ELSE 2 END AS relevance", now).
				Order("relevance ASC")
		}
		q = q.Order("petitions.id DESC")
	default: // MostRecent
		q = q.Order("petitions.id DESC")
	}

	return q
}

// statusScope adds the predicate matching exactly the petitions StatusOf
// would classify as status at the given instant. The deadline comparisons
// mirror StatusOf: deadline >= now is still in progress, deadline < now is
// overdue.
func statusScope(q *gorm.DB, status types.PetitionStatus, now time.Time) *gorm.DB {
	switch status {
	case types.NoResolution:
		return q.Joins("LEFT JOIN resolutions ON resolutions.petition_id = petitions.id").
			Where("resolutions.id IS NULL")
	case types.InProgress:
		return q.Joins("INNER JOIN resolutions ON resolutions.petition_id = petitions.id").
			Where("resolutions.resolution_text IS NULL").
			Where("resolutions.deadline >= ?", now)
	case types.Overdue:
		return q.Joins("INNER JOIN resolutions ON resolutions.petition_id = petitions.id").
			Where("resolutions.resolution_text IS NULL").
			Where("resolutions.deadline < ?", now)
	case types.Terminated:
		return q.Joins("INNER JOIN resolutions ON resolutions.petition_id = petitions.id").
			Where("resolutions.resolution_text IS NOT NULL")
	default:
		return q
	}
}
