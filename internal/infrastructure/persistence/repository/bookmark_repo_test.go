package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rohitpai/travel-desk/internal/domain/entity"
)

func testBookmark(id, employeeID, fromCity, toCity string) *entity.RouteBookmark {
	return &entity.RouteBookmark{
		BookmarkID:  id,
		EmployeeID:  employeeID,
		FromCity:    fromCity,
		FromCountry: "India",
		ToCity:      toCity,
		ToCountry:   "India",
		CreatedAt:   time.Now().UTC(),
	}
}

func TestBookmarkRepository_InsertAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBookmarkRepository(db, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, testBookmark("RT-1", "EMP100", "Pune", "Bengaluru")))

	// Lookup is normalized, stored casing is not.
	found, err := repo.FindByRoute(ctx, "EMP100", "pune", "bengaluru")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "RT-1", found.BookmarkID)
	assert.Equal(t, "Pune", found.FromCity)

	found, err = repo.FindByRoute(ctx, "EMP100", "pune", "chennai")
	require.NoError(t, err)
	assert.Nil(t, found)

	// Bookmarks are employee-scoped.
	found, err = repo.FindByRoute(ctx, "EMP101", "pune", "bengaluru")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestBookmarkRepository_TouchOrdersListing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBookmarkRepository(db, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, testBookmark("RT-1", "EMP100", "Pune", "Bengaluru")))
	require.NoError(t, repo.Insert(ctx, testBookmark("RT-2", "EMP100", "Pune", "Chennai")))

	touched, err := repo.Touch(ctx, "EMP100", "RT-2")
	require.NoError(t, err)
	assert.True(t, touched)

	bookmarks, err := repo.ListByEmployee(ctx, "EMP100")
	require.NoError(t, err)
	require.Len(t, bookmarks, 2)
	assert.Equal(t, "RT-2", bookmarks[0].BookmarkID)
	assert.Equal(t, 1, bookmarks[0].TimesUsed)
	require.NotNil(t, bookmarks[0].LastUsedAt)
	assert.Nil(t, bookmarks[1].LastUsedAt)

	touched, err = repo.Touch(ctx, "EMP100", "RT-NONE")
	require.NoError(t, err)
	assert.False(t, touched)
}

func TestBookmarkRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBookmarkRepository(db, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, testBookmark("RT-1", "EMP100", "Pune", "Bengaluru")))

	// Another employee cannot delete it.
	deleted, err := repo.Delete(ctx, "EMP101", "RT-1")
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = repo.Delete(ctx, "EMP100", "RT-1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, "EMP100", "RT-1")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestHotelRepository_FindByCity(t *testing.T) {
	db := setupTestDB(t)
	_, err := db.Exec(`
		INSERT INTO tied_up_hotels (name, city, rate, grade_eligibility, is_active) VALUES
			('Grand Mercure', 'Bengaluru', 6500, 'E5,E6,M1,M2', 1),
			('Ibis City Centre', 'Bengaluru', 4200, NULL, 1),
			('Leela Palace', 'Bengaluru', 15000, 'M1,M2', 1),
			('Shutdown Inn', 'Bengaluru', 3000, NULL, 0),
			('Taj Deccan', 'Hyderabad', 7000, NULL, 1)
	`)
	require.NoError(t, err)

	repo := NewHotelRepository(db, zap.NewNop())
	hotels, err := repo.FindByCity(context.Background(), "bengaluru", 10)
	require.NoError(t, err)
	require.Len(t, hotels, 3)

	// Cheapest first; inactive rows excluded.
	assert.Equal(t, "Ibis City Centre", hotels[0].Name)
	assert.Equal(t, "Grand Mercure", hotels[1].Name)
	assert.Equal(t, "Leela Palace", hotels[2].Name)

	assert.True(t, hotels[0].EligibleFor("E4"))
	assert.True(t, hotels[1].EligibleFor("E5"))
	assert.False(t, hotels[2].EligibleFor("E5"))
}
