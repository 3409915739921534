package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testClickTime = time.Date(2013, time.March, 15, 10, 30, 0, 0, time.UTC)

func TestRecordClick_SameHourAggregates(t *testing.T) {
	db := setupTestDB(t)
	statsRepo := NewStatsRepository(db)

	user := createTestUser(t, db, "100001")
	banner := createTestBanner(t, db, "banner", "en-us")
	instance := createTestInstance(t, db, banner.ID, user.ID)

	require.NoError(t, statsRepo.RecordClick(testCtx(), instance.ID, user.ID, testClickTime))
	require.NoError(t, statsRepo.RecordClick(testCtx(), instance.ID, user.ID, testClickTime.Add(20*time.Minute)))
	require.NoError(t, statsRepo.RecordClick(testCtx(), instance.ID, user.ID, testClickTime.Add(2*time.Hour)))

	total, err := statsRepo.TotalForUser(testCtx(), user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)

	// Two clicks within the same hour share one bucket.
	var buckets int64
	db.Table("click_stats").Count(&buckets)
	assert.EqualValues(t, 2, buckets)
}

func TestRecordClick_KeepsRunningTotalInStep(t *testing.T) {
	db := setupTestDB(t)
	statsRepo := NewStatsRepository(db)
	userRepo := NewUserRepository(db)

	user := createTestUser(t, db, "100001")
	banner := createTestBanner(t, db, "banner", "en-us")
	instance := createTestInstance(t, db, banner.ID, user.ID)

	require.NoError(t, statsRepo.RecordClick(testCtx(), instance.ID, user.ID, testClickTime))
	require.NoError(t, statsRepo.RecordClick(testCtx(), instance.ID, user.ID, testClickTime))

	got, err := userRepo.FindByID(testCtx(), user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.TotalClicks)

	bucketSum, err := statsRepo.TotalForUser(testCtx(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, got.TotalClicks, bucketSum)
}

func TestTotalForMonth(t *testing.T) {
	db := setupTestDB(t)
	statsRepo := NewStatsRepository(db)

	user := createTestUser(t, db, "100001")
	banner := createTestBanner(t, db, "banner", "en-us")
	instance := createTestInstance(t, db, banner.ID, user.ID)

	require.NoError(t, statsRepo.RecordClick(testCtx(), instance.ID, user.ID, testClickTime))
	require.NoError(t, statsRepo.RecordClick(testCtx(), instance.ID, user.ID, testClickTime.AddDate(0, 0, 3)))
	// Different month, must not count.
	require.NoError(t, statsRepo.RecordClick(testCtx(), instance.ID, user.ID, testClickTime.AddDate(0, 1, 0)))

	total, err := statsRepo.TotalForMonth(testCtx(), user.ID, 2013, time.March)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestTotalForMonth_OtherUsersExcluded(t *testing.T) {
	db := setupTestDB(t)
	statsRepo := NewStatsRepository(db)

	banner := createTestBanner(t, db, "banner", "en-us")

	user := createTestUser(t, db, "100001")
	instance := createTestInstance(t, db, banner.ID, user.ID)
	require.NoError(t, statsRepo.RecordClick(testCtx(), instance.ID, user.ID, testClickTime))

	other := createTestUser(t, db, "100002")
	otherInstance := createTestInstance(t, db, banner.ID, other.ID)
	require.NoError(t, statsRepo.RecordClick(testCtx(), otherInstance.ID, other.ID, testClickTime))

	total, err := statsRepo.TotalForMonth(testCtx(), user.ID, 2013, time.March)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestTotalForMonth_NoClicksIsZero(t *testing.T) {
	db := setupTestDB(t)
	statsRepo := NewStatsRepository(db)

	user := createTestUser(t, db, "100001")

	total, err := statsRepo.TotalForMonth(testCtx(), user.ID, 2013, time.March)
	require.NoError(t, err)
	assert.Zero(t, total)
}
