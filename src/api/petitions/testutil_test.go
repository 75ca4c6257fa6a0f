package petitions

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/armandouv/petitions-backend/src/api/types"
)

var testDBSeq atomic.Int64

// setupTestDB opens a private in-memory database per test. cache=shared lets
// the pooled connections gorm opens see the same database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:petitions_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Discard,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(types.AllModels...))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, campus string) types.User {
	t.Helper()
	user := types.User{Email: email, Name: "Test User", Campus: campus}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedPetition(t *testing.T, db *gorm.DB, userID uint64, campus, title, description string, created time.Time) types.Petition {
	t.Helper()
	pet := types.Petition{
		Campus:      campus,
		Title:       title,
		Description: description,
		UserID:      userID,
		CreatedAt:   created,
	}
	require.NoError(t, db.Create(&pet).Error)
	return pet
}

func seedResolution(t *testing.T, db *gorm.DB, petitionID uint64, deadline time.Time, text string, resolvedAt time.Time) types.Resolution {
	t.Helper()
	res := types.Resolution{PetitionID: petitionID, Deadline: deadline}
	if text != "" {
		res.ResolutionText = &text
		res.ResolvedAt = &resolvedAt
	}
	require.NoError(t, db.Create(&res).Error)
	return res
}

func seedComment(t *testing.T, db *gorm.DB, petitionID, userID uint64, text string) types.PetitionComment {
	t.Helper()
	cm := types.PetitionComment{PetitionID: petitionID, UserID: userID, Text: text}
	require.NoError(t, db.Create(&cm).Error)
	return cm
}

func resultIDs(pets []types.Petition) []uint64 {
	ids := make([]uint64, len(pets))
	for i, p := range pets {
		ids[i] = p.ID
	}
	return ids
}

// testTime returns a fixed whole-second UTC instant; whole seconds keep the
// serialized form comparable across drivers.
func testTime() time.Time {
	return time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
}
