package contact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sutthiphatchuenban/nisio-portfolio/internal/models"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/pkg/pagination"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/testutil"
)

func TestCreateStoresRequestMeta(t *testing.T) {
	svc := NewService(testutil.OpenTestDB(t), nil)

	m, err := svc.Create(&CreateContactDTO{
		Name:    "Visitor",
		Email:   "visitor@example.com",
		Subject: "Hi",
		Message: "Nice site",
	}, "203.0.113.9", "Mozilla/5.0")
	require.NoError(t, err)
	assert.Equal(t, models.ContactPending, m.Status)
	assert.Equal(t, "203.0.113.9", m.IPAddress)
	assert.Equal(t, "Mozilla/5.0", m.UserAgent)
}

func TestUnreadCountTracksStatus(t *testing.T) {
	svc := NewService(testutil.OpenTestDB(t), nil)

	first, err := svc.Create(&CreateContactDTO{Name: "A", Email: "a@example.com", Message: "one"}, "", "")
	require.NoError(t, err)
	_, err = svc.Create(&CreateContactDTO{Name: "B", Email: "b@example.com", Message: "two"}, "", "")
	require.NoError(t, err)

	count, err := svc.UnreadCount()
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	m, err := svc.UpdateStatus(first.ID, models.ContactRead)
	require.NoError(t, err)
	assert.Equal(t, models.ContactRead, m.Status)

	count, err = svc.UnreadCount()
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestListFiltersByStatus(t *testing.T) {
	svc := NewService(testutil.OpenTestDB(t), nil)

	a, err := svc.Create(&CreateContactDTO{Name: "A", Email: "a@example.com", Message: "one"}, "", "")
	require.NoError(t, err)
	_, err = svc.Create(&CreateContactDTO{Name: "B", Email: "b@example.com", Message: "two"}, "", "")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(a.ID, models.ContactReplied)
	require.NoError(t, err)

	q := pagination.Query{Page: 1, Size: 10}
	items, pag, err := svc.List(q, models.ContactReplied)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.EqualValues(t, 1, pag.Total)
	assert.Equal(t, "A", items[0].Name)

	items, _, err = svc.List(q, "")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestUpdateStatusMissing(t *testing.T) {
	svc := NewService(testutil.OpenTestDB(t), nil)

	m, err := svc.UpdateStatus("no-such-id", models.ContactRead)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestDelete(t *testing.T) {
	svc := NewService(testutil.OpenTestDB(t), nil)

	m, err := svc.Create(&CreateContactDTO{Name: "A", Email: "a@example.com", Message: "bye"}, "", "")
	require.NoError(t, err)

	deleted, err := svc.Delete(m.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.Delete(m.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
