package skill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sutthiphatchuenban/nisio-portfolio/internal/testutil"
)

func TestListOrdering(t *testing.T) {
	svc := NewService(testutil.OpenTestDB(t))

	_, err := svc.Create(&CreateSkillDTO{Name: "PostgreSQL", Category: "Database", Proficiency: 70, OrderIndex: 2})
	require.NoError(t, err)
	_, err = svc.Create(&CreateSkillDTO{Name: "MySQL", Category: "Database", Proficiency: 80, OrderIndex: 1})
	require.NoError(t, err)
	_, err = svc.Create(&CreateSkillDTO{Name: "Go", Category: "Backend", Proficiency: 90, OrderIndex: 1})
	require.NoError(t, err)

	items, err := svc.List("")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Go", items[0].Name)
	assert.Equal(t, "MySQL", items[1].Name)
	assert.Equal(t, "PostgreSQL", items[2].Name)

	items, err = svc.List("Database")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestCategories(t *testing.T) {
	svc := NewService(testutil.OpenTestDB(t))

	for _, dto := range []CreateSkillDTO{
		{Name: "Go", Category: "Backend", Proficiency: 90},
		{Name: "Gin", Category: "Backend", Proficiency: 85},
		{Name: "React", Category: "Frontend", Proficiency: 75},
	} {
		d := dto
		_, err := svc.Create(&d)
		require.NoError(t, err)
	}

	categories, err := svc.Categories()
	require.NoError(t, err)
	assert.Equal(t, []string{"Backend", "Frontend"}, categories)
}

func TestUpdateProficiency(t *testing.T) {
	svc := NewService(testutil.OpenTestDB(t))

	sk, err := svc.Create(&CreateSkillDTO{Name: "Go", Category: "Backend", Proficiency: 50})
	require.NoError(t, err)

	next := 95
	updated, err := svc.Update(sk.ID, &UpdateSkillDTO{Proficiency: &next})
	require.NoError(t, err)
	assert.Equal(t, 95, updated.Proficiency)

	missing, err := svc.Update("no-such-id", &UpdateSkillDTO{Proficiency: &next})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDelete(t *testing.T) {
	svc := NewService(testutil.OpenTestDB(t))

	sk, err := svc.Create(&CreateSkillDTO{Name: "Go", Category: "Backend", Proficiency: 90})
	require.NoError(t, err)

	deleted, err := svc.Delete(sk.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.Delete(sk.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
