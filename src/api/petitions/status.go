package petitions

import (
	"time"

	"github.com/armandouv/petitions-backend/src/api/types"
)

// StatusOf derives a petition's lifecycle status from its resolution row, or
// nil when the petition never reached the resolution threshold. It is the
// single source of truth for status; the query-level filters in query.go are
// derived from it and tested against it.
//
// A petition exactly at its deadline is still IN_PROGRESS.
func StatusOf(res *types.Resolution, now time.Time) types.PetitionStatus {
	switch {
	case res == nil:
		return types.NoResolution
	case res.ResolutionText != nil:
		return types.Terminated
	case !now.After(res.Deadline):
		return types.InProgress
	default:
		return types.Overdue
	}
}
