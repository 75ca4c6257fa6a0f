package petitions

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/armandouv/petitions-backend/src/api/types"
)

func TestListPageAnonymous(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewService(db)

	owner := seedUser(t, db, "owner@school.edu", "north")
	voter := seedUser(t, db, "voter@school.edu", "north")
	created := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)

	pet := seedPetition(t, db, owner.ID, "north", "fix the gym", "new equipment", created)
	seedResolution(t, db, pet.ID, time.Now().UTC().Add(10*24*time.Hour), "", time.Time{})
	require.NoError(t, svc.Vote(ctx, pet.ID, voter.ID))
	seedComment(t, db, pet.ID, voter.ID, "agreed")
	seedComment(t, db, pet.ID, owner.ID, "thanks")

	page, err := svc.ListPage(ctx, QueryParams{
		Page: 1, OrderBy: MostRecent, Year: 2026, School: "north",
	}, 0)
	require.NoError(t, err)
	require.Len(t, page.PageElements, 1)
	assert.Equal(t, 1, page.TotalPages)

	info := page.PageElements[0]
	assert.Equal(t, pet.ID, info.ID)
	assert.Equal(t, "fix the gym", info.Title)
	assert.Equal(t, types.InProgress, info.Status)
	assert.Equal(t, int64(1), info.NumVotes)
	assert.Equal(t, int64(2), info.NumComments)

	// Anonymous pages carry no viewer flags, and summaries no description.
	assert.Nil(t, info.DidVote)
	assert.Nil(t, info.DidSave)
	assert.Empty(t, info.Description)
}

func TestListPagePersonalized(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewService(db)

	owner := seedUser(t, db, "owner@school.edu", "north")
	viewer := seedUser(t, db, "viewer@school.edu", "north")
	created := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)

	voted := seedPetition(t, db, owner.ID, "north", "voted one", "d", created)
	saved := seedPetition(t, db, owner.ID, "north", "saved one", "d", created)
	plain := seedPetition(t, db, owner.ID, "north", "plain one", "d", created)
	require.NoError(t, svc.Vote(ctx, voted.ID, viewer.ID))
	require.NoError(t, svc.Save(ctx, saved.ID, viewer.ID))

	page, err := svc.ListPage(ctx, QueryParams{
		Page: 1, OrderBy: Oldest, Year: 2026, School: "north",
	}, viewer.ID)
	require.NoError(t, err)
	require.Len(t, page.PageElements, 3)

	byID := map[uint64]types.PetitionInfo{}
	for _, info := range page.PageElements {
		byID[info.ID] = info
	}

	require.NotNil(t, byID[voted.ID].DidVote)
	assert.True(t, *byID[voted.ID].DidVote)
	assert.False(t, *byID[voted.ID].DidSave)

	assert.True(t, *byID[saved.ID].DidSave)
	assert.False(t, *byID[saved.ID].DidVote)

	assert.False(t, *byID[plain.ID].DidVote)
	assert.False(t, *byID[plain.ID].DidSave)
}

func TestListPagePreservesQueryOrder(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewService(db)

	owner := seedUser(t, db, "owner@school.edu", "north")
	created := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)

	// Vote counts chosen so the vote ordering differs from id order.
	var pets []types.Petition
	votes := []int{2, 5, 0, 3}
	for i, n := range votes {
		pet := seedPetition(t, db, owner.ID, "north", fmt.Sprintf("petition %d", i), "d", created)
		for j := 0; j < n; j++ {
			voter := seedUser(t, db, fmt.Sprintf("voter%d_%d@school.edu", i, j), "north")
			require.NoError(t, db.Create(&types.PetitionVote{PetitionID: pet.ID, UserID: voter.ID}).Error)
		}
		pets = append(pets, pet)
	}

	page, err := svc.ListPage(ctx, QueryParams{
		Page: 1, OrderBy: NumberOfVotes, Year: 2026, School: "north",
	}, 0)
	require.NoError(t, err)
	require.Len(t, page.PageElements, 4)

	wantOrder := []uint64{pets[1].ID, pets[3].ID, pets[0].ID, pets[2].ID}
	var gotOrder []uint64
	for _, info := range page.PageElements {
		gotOrder = append(gotOrder, info.ID)
	}
	assert.Equal(t, wantOrder, gotOrder)

	assert.Equal(t, int64(5), page.PageElements[0].NumVotes)
	assert.Equal(t, int64(0), page.PageElements[3].NumVotes)
}

func TestPetitionDetail(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewService(db)

	owner := seedUser(t, db, "owner@school.edu", "north")
	viewer := seedUser(t, db, "viewer@school.edu", "north")
	pet := seedPetition(t, db, owner.ID, "north", "detail me", "the full description", testTime())
	require.NoError(t, svc.Save(ctx, pet.ID, viewer.ID))

	info, err := svc.PetitionDetail(ctx, pet.ID, viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, "detail me", info.Title)
	assert.Equal(t, "the full description", info.Description)
	assert.Equal(t, types.NoResolution, info.Status)
	require.NotNil(t, info.DidSave)
	assert.True(t, *info.DidSave)

	_, err = svc.PetitionDetail(ctx, 99999, 0)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestStatusSurfacesAgree(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewService(db)

	owner := seedUser(t, db, "owner@school.edu", "north")
	pet := seedPetition(t, db, owner.ID, "north", "t", "d", testTime())
	seedResolution(t, db, pet.ID, time.Now().UTC().Add(-24*time.Hour), "", time.Time{})

	// Detail and listing must report the same derived status.
	info, err := svc.PetitionDetail(ctx, pet.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, types.Overdue, info.Status)

	page, err := svc.ListPage(ctx, QueryParams{
		Page: 1, OrderBy: MostRecent, Year: testTime().Year(), School: "north",
	}, 0)
	require.NoError(t, err)
	require.Len(t, page.PageElements, 1)
	assert.Equal(t, types.Overdue, page.PageElements[0].Status)
}

func TestCommentsPage(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewService(db)

	owner := seedUser(t, db, "owner@school.edu", "north")
	viewer := seedUser(t, db, "viewer@school.edu", "north")
	pet := seedPetition(t, db, owner.ID, "north", "t", "d", testTime())

	first := seedComment(t, db, pet.ID, owner.ID, "first")
	second := seedComment(t, db, pet.ID, viewer.ID, "second")
	require.NoError(t, svc.LikeComment(ctx, first.ID, viewer.ID))

	page, err := svc.CommentsPage(ctx, pet.ID, 1, viewer.ID)
	require.NoError(t, err)
	require.Len(t, page.PageElements, 2)
	assert.Equal(t, 1, page.TotalPages)

	// Newest first.
	assert.Equal(t, second.ID, page.PageElements[0].ID)
	assert.Equal(t, first.ID, page.PageElements[1].ID)

	assert.Equal(t, int64(1), page.PageElements[1].NumLikes)
	require.NotNil(t, page.PageElements[1].DidLike)
	assert.True(t, *page.PageElements[1].DidLike)
	assert.False(t, *page.PageElements[0].DidLike)

	_, err = svc.CommentsPage(ctx, 99999, 1, 0)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSavedPage(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewService(db)

	owner := seedUser(t, db, "owner@school.edu", "north")
	viewer := seedUser(t, db, "viewer@school.edu", "north")

	one := seedPetition(t, db, owner.ID, "north", "one", "d", testTime())
	two := seedPetition(t, db, owner.ID, "south", "two", "d", testTime())
	seedPetition(t, db, owner.ID, "north", "not saved", "d", testTime())
	require.NoError(t, svc.Save(ctx, one.ID, viewer.ID))
	require.NoError(t, svc.Save(ctx, two.ID, viewer.ID))

	page, err := svc.SavedPage(ctx, viewer.ID, 1)
	require.NoError(t, err)
	require.Len(t, page.PageElements, 2)
	assert.Equal(t, 1, page.TotalPages)

	// Saved listings span campuses and come back newest first.
	assert.Equal(t, two.ID, page.PageElements[0].ID)
	assert.Equal(t, one.ID, page.PageElements[1].ID)
	assert.True(t, *page.PageElements[0].DidSave)
}
