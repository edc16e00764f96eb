package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sutthiphatchuenban/nisio-portfolio/internal/models"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/testutil"
)

const testUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

func track(t *testing.T, svc *Service, path, session string) {
	t.Helper()
	_, err := svc.Track(&TrackDTO{PagePath: path, SessionID: session}, "198.51.100.7", testUA)
	require.NoError(t, err)
}

func TestOverview(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := NewService(db, nil)

	require.NoError(t, db.Create(&models.BlogPostModel{Title: "A", Slug: "a", Published: true, ViewCount: 5}).Error)
	require.NoError(t, db.Create(&models.BlogPostModel{Title: "B", Slug: "b", Published: false}).Error)
	require.NoError(t, db.Create(&models.ProjectModel{Title: "P", Status: models.StatusPublished}).Error)
	require.NoError(t, db.Create(&models.SkillModel{Name: "Go", Category: "Backend", Proficiency: 90}).Error)
	require.NoError(t, db.Create(&models.ContactModel{Name: "C", Email: "c@example.com", Message: "hi", Status: models.ContactPending}).Error)

	track(t, svc, "/", "s1")
	track(t, svc, "/", "s1")
	track(t, svc, "/blog", "s2")

	o, err := svc.Overview()
	require.NoError(t, err)
	assert.EqualValues(t, 1, o.PublishedPosts)
	assert.EqualValues(t, 1, o.DraftPosts)
	assert.EqualValues(t, 1, o.Projects)
	assert.EqualValues(t, 1, o.Skills)
	assert.EqualValues(t, 1, o.PendingContacts)
	assert.EqualValues(t, 5, o.TotalPostViews)
	assert.EqualValues(t, 3, o.TotalPageViews)
	assert.EqualValues(t, 2, o.UniqueSessions)
}

func TestTopPages(t *testing.T) {
	svc := NewService(testutil.OpenTestDB(t), nil)

	track(t, svc, "/blog/hello", "s1")
	track(t, svc, "/blog/hello", "s2")
	track(t, svc, "/", "s1")

	rows, err := svc.TopPages(30)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "/blog/hello", rows[0].PagePath)
	assert.EqualValues(t, 2, rows[0].Views)
}

func TestTimeseriesBucketsPerDay(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := NewService(db, nil)

	track(t, svc, "/", "s1")
	track(t, svc, "/", "s2")

	// a view from outside the window must not appear
	old := models.AnalyticsModel{PagePath: "/old"}
	require.NoError(t, db.Create(&old).Error)
	require.NoError(t, db.Model(&old).
		UpdateColumn("created_at", time.Now().AddDate(0, 0, -40)).Error)

	rows, err := svc.Timeseries(7)
	require.NoError(t, err)
	require.Len(t, rows, 7)

	today := time.Now().Format("2006-01-02")
	last := rows[len(rows)-1]
	assert.Equal(t, today, last.Date)
	assert.EqualValues(t, 2, last.Views)

	var total int64
	for _, row := range rows {
		total += row.Views
	}
	assert.EqualValues(t, 2, total)
}

func TestDevices(t *testing.T) {
	svc := NewService(testutil.OpenTestDB(t), nil)

	track(t, svc, "/", "s1")
	_, err := svc.Track(&TrackDTO{PagePath: "/m", SessionID: "s2"}, "",
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1")
	require.NoError(t, err)

	out, err := svc.Devices(30)
	require.NoError(t, err)

	devices := out["devices"]
	counts := map[string]int{}
	for _, d := range devices {
		counts[d.Name] = d.Count
	}
	assert.Equal(t, 1, counts["Desktop"])
	assert.Equal(t, 1, counts["Mobile"])
	assert.NotEmpty(t, out["browsers"])
}

func TestNormalizeRangeClampsDays(t *testing.T) {
	assert.Equal(t, 7, normalizeRange(7))
	assert.Equal(t, defaultRangeDays, normalizeRange(0))
	assert.Equal(t, defaultRangeDays, normalizeRange(-5))
	assert.Equal(t, defaultRangeDays, normalizeRange(10000))

	assert.True(t, rangeCutoff(7).After(time.Now().AddDate(0, 0, -8)))
}

func TestTimeseriesToleratesOutOfRangeWindow(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := NewService(db, nil)
	_, err := svc.Track(&TrackDTO{PagePath: "/"}, "", "")
	require.NoError(t, err)

	for _, days := range []int{-5, 0, 10000} {
		rows, err := svc.Timeseries(days)
		require.NoError(t, err)
		require.Len(t, rows, defaultRangeDays)
		assert.EqualValues(t, 1, rows[len(rows)-1].Views)
	}
}
