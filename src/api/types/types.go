package types

import "time"

// Users
type User struct {
	ID        uint64 `gorm:"primaryKey"`
	Email     string `gorm:"size:256;unique;not null"`
	Name      string `gorm:"size:128;not null"`
	Campus    string `gorm:"size:64;index;not null"`
	Admin     bool   `gorm:"default:false"`
	CreatedAt time.Time
}

// Petitions
type Petition struct {
	ID          uint64 `gorm:"primaryKey"`
	Campus      string `gorm:"size:64;index;not null"`
	Title       string `gorm:"size:255;not null"`
	Description string `gorm:"type:text;not null"`
	UserID      uint64 `gorm:"index;not null"`
	CreatedAt   time.Time
	User        User              `gorm:"foreignKey:UserID"`
	Resolution  *Resolution       `gorm:"foreignKey:PetitionID"`
	Comments    []PetitionComment `gorm:"foreignKey:PetitionID"`
}

// Resolutions; at most one per petition. ResolutionText and ResolvedAt are
// set together when a petition is terminated.
type Resolution struct {
	ID             uint64    `gorm:"primaryKey"`
	PetitionID     uint64    `gorm:"uniqueIndex;not null"`
	Deadline       time.Time `gorm:"not null"`
	ResolvedAt     *time.Time
	ResolutionText *string `gorm:"type:text"`
}

// Comments on petitions
type PetitionComment struct {
	ID         uint64 `gorm:"primaryKey"`
	PetitionID uint64 `gorm:"index;not null"`
	UserID     uint64 `gorm:"index;not null"`
	Text       string `gorm:"type:text;not null"`
	CreatedAt  time.Time
}

// Relation rows. The composite unique index enforces at most one row per
// (user, target) pair; existence of the row is the relation.
type PetitionVote struct {
	ID         uint64 `gorm:"primaryKey"`
	PetitionID uint64 `gorm:"uniqueIndex:uniq_petition_vote;not null"`
	UserID     uint64 `gorm:"uniqueIndex:uniq_petition_vote;not null"`
	CreatedAt  time.Time
}

type PetitionSave struct {
	ID         uint64 `gorm:"primaryKey"`
	PetitionID uint64 `gorm:"uniqueIndex:uniq_petition_save;not null"`
	UserID     uint64 `gorm:"uniqueIndex:uniq_petition_save;not null"`
	CreatedAt  time.Time
}

type CommentLike struct {
	ID        uint64 `gorm:"primaryKey"`
	CommentID uint64 `gorm:"uniqueIndex:uniq_comment_like;not null"`
	UserID    uint64 `gorm:"uniqueIndex:uniq_comment_like;not null"`
	CreatedAt time.Time
}

// PetitionStatus is never stored; it is derived from the petition's
// resolution row (or its absence) at read time.
type PetitionStatus string

const (
	NoResolution PetitionStatus = "NO_RESOLUTION"
	InProgress   PetitionStatus = "IN_PROGRESS"
	Overdue      PetitionStatus = "OVERDUE"
	Terminated   PetitionStatus = "TERMINATED"
)

// View models. The Did* flags are only populated when the request carries a
// viewer identity; nil means "not applicable", not "false".
type PetitionInfo struct {
	ID          uint64         `json:"id"`
	Title       string         `json:"title"`
	Date        time.Time      `json:"date"`
	Status      PetitionStatus `json:"status"`
	NumVotes    int64          `json:"numVotes"`
	NumComments int64          `json:"numComments"`
	Description string         `json:"description,omitempty"`
	DidVote     *bool          `json:"didVote,omitempty"`
	DidSave     *bool          `json:"didSave,omitempty"`
}

type CommentInfo struct {
	ID       uint64    `json:"id"`
	Date     time.Time `json:"date"`
	Text     string    `json:"text"`
	NumLikes int64     `json:"numLikes"`
	DidLike  *bool     `json:"didLike,omitempty"`
}

// Page is a 1-indexed slice of an ordered result set.
type Page[T any] struct {
	PageElements []T `json:"pageElements"`
	TotalPages   int `json:"totalPages"`
}

// AllModels drives migration at startup and in tests.
var AllModels = []interface{}{
	&User{}, &Petition{}, &Resolution{}, &PetitionComment{},
	&PetitionVote{}, &PetitionSave{}, &CommentLike{},
}
