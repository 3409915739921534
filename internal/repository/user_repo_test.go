package repository

import (
	"testing"

	"github.com/badgeworks/affiliates/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user, created, err := repo.GetOrCreate(testCtx(), "100001")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, model.UnrankedPosition, user.LeaderboardPosition)

	again, created, err := repo.GetOrCreate(testCtx(), "100001")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, user.ID, again.ID)
}

func TestTopUsers_ExcludesUnranked(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	first := createTestUser(t, db, "1")
	first.LeaderboardPosition = 1
	require.NoError(t, repo.Save(testCtx(), first))

	// Unranked, regardless of how the others are ordered.
	unranked := createTestUser(t, db, "2")
	unranked.Country = "fr"
	require.NoError(t, repo.Save(testCtx(), unranked))

	third := createTestUser(t, db, "3")
	third.LeaderboardPosition = 2
	require.NoError(t, repo.Save(testCtx(), third))

	top, err := repo.TopUsers(testCtx(), "", 0)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "1", top[0].ID)
	assert.Equal(t, "3", top[1].ID)
}

func TestTopUsers_CountryFilter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	us := createTestUser(t, db, "1")
	us.LeaderboardPosition = 1
	us.Country = "us"
	require.NoError(t, repo.Save(testCtx(), us))

	fr := createTestUser(t, db, "2")
	fr.LeaderboardPosition = 2
	fr.Country = "fr"
	require.NoError(t, repo.Save(testCtx(), fr))

	top, err := repo.TopUsers(testCtx(), "us", 0)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "1", top[0].ID)
}

func TestDelete_CascadesToUserData(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	statsRepo := NewStatsRepository(db)

	user := createTestUser(t, db, "100001")
	banner := createTestBanner(t, db, "banner", "en-us")
	instance := createTestInstance(t, db, banner.ID, user.ID)
	require.NoError(t, statsRepo.RecordClick(testCtx(), instance.ID, user.ID, testClickTime))

	account := &model.Account{Email: "owner@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(account).Error)
	link := &model.AccountLink{FacebookUserID: user.ID, AccountID: account.ID}
	require.NoError(t, db.Create(link).Error)

	require.NoError(t, repo.Delete(testCtx(), user.ID))

	var instances, links, stats int64
	db.Model(&model.BannerInstance{}).Where("user_id = ?", user.ID).Count(&instances)
	db.Model(&model.AccountLink{}).Where("facebook_user_id = ?", user.ID).Count(&links)
	db.Model(&model.ClickStats{}).Count(&stats)
	assert.Zero(t, instances)
	assert.Zero(t, links)
	assert.Zero(t, stats)

	// The banner template itself survives.
	var banners int64
	db.Model(&model.Banner{}).Count(&banners)
	assert.EqualValues(t, 1, banners)
}

func TestIsNew(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user := createTestUser(t, db, "100001")
	banner := createTestBanner(t, db, "banner", "en-us")

	isNew, err := repo.IsNew(testCtx(), user.ID)
	require.NoError(t, err)
	assert.True(t, isNew)

	// An unprocessed instance doesn't count yet.
	instance := createTestInstance(t, db, banner.ID, user.ID)
	isNew, err = repo.IsNew(testCtx(), user.ID)
	require.NoError(t, err)
	assert.True(t, isNew)

	instanceRepo := NewInstanceRepository(db)
	require.NoError(t, instanceRepo.MarkProcessed(testCtx(), instance.ID, ""))

	isNew, err = repo.IsNew(testCtx(), user.ID)
	require.NoError(t, err)
	assert.False(t, isNew)
}
