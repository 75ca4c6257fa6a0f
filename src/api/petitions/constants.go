package petitions

import "time"

const (
	// PageSize is the fixed number of elements per listing page.
	PageSize = 12

	// FirstValidYear is the earliest year petitions exist for; the listing
	// boundary rejects anything older.
	FirstValidYear = 2020

	// MinPetitionVotes is the vote count at which a petition gets a
	// resolution opened with a deadline of ResolutionWindow from now.
	MinPetitionVotes = 100

	// MinResolutionVotes is the vote count at which an overdue resolution
	// escalates (handled by the notification pipeline, outside this service).
	MinResolutionVotes = 50

	// ResolutionWindow is how long the school has to answer once a
	// resolution is opened.
	ResolutionWindow = 30 * 24 * time.Hour
)
