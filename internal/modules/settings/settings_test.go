package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sutthiphatchuenban/nisio-portfolio/internal/config"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/models"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/testutil"
)

func newTestService(t *testing.T) *Service {
	site := config.Site{
		Name:        "NISIO PORTFOLIO",
		Title:       "NISIO PORTFOLIO",
		Description: "Personal portfolio and blog",
	}
	return NewService(testutil.OpenTestDB(t), site)
}

func TestGetCreatesSingletonOnFirstRead(t *testing.T) {
	svc := newTestService(t)

	row, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, models.SettingsID, row.ID)
	assert.Equal(t, "NISIO PORTFOLIO", row.SiteName)
	assert.Equal(t, "NISIO PORTFOLIO", row.Title)

	// a second read returns the same row, not a new one
	var count int64
	require.NoError(t, svc.db.Model(&models.SiteSettingsModel{}).Count(&count).Error)
	_, err = svc.Get()
	require.NoError(t, err)
	var after int64
	require.NoError(t, svc.db.Model(&models.SiteSettingsModel{}).Count(&after).Error)
	assert.Equal(t, count, after)
}

func TestEnsureExistsIsIdempotent(t *testing.T) {
	svc := newTestService(t)

	require.NoError(t, svc.EnsureExists())
	require.NoError(t, svc.EnsureExists())

	var count int64
	require.NoError(t, svc.db.Model(&models.SiteSettingsModel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpdatePartial(t *testing.T) {
	svc := newTestService(t)

	name := "Sutthiphat"
	bio := "I build things."
	row, err := svc.Update(&UpdateSettingsDTO{Name: &name, Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "Sutthiphat", row.Name)
	assert.Equal(t, "I build things.", row.Bio)

	// untouched fields keep their defaults
	got, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "NISIO PORTFOLIO", got.SiteName)
	assert.Equal(t, "Sutthiphat", got.Name)
}
