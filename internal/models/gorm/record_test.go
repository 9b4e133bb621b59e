package gorm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infinite-experiment/contactimport/internal/models/dtos"
	models "infinite-experiment/contactimport/internal/models/gorm"
)

func TestContactFromRow(t *testing.T) {
	row := dtos.Row{
		"идентификатор":     "3F2504E0-4F89-41D3-9A0C-0305E82C3301",
		"имя":               "  Иван ",
		"электронная_почта": "ivan@example.com",
		"день_рождения":     "1990-05-17",
		"рейтинг":           5,
		"любимый_цвет":      "синий",
		"фамилия":           nil,
	}

	c := models.ContactFromRow(row)

	assert.Equal(t, "3f2504e0-4f89-41d3-9a0c-0305e82c3301", c.ID)
	require.NotNil(t, c.FirstName)
	assert.Equal(t, "Иван", *c.FirstName)
	assert.Nil(t, c.LastName)
	require.NotNil(t, c.Rating)
	assert.Equal(t, "5", *c.Rating)
	require.NotNil(t, c.Birthday)
	assert.Equal(t, 1990, c.Birthday.Year())
	require.NotNil(t, c.Source)
	assert.Equal(t, models.DefaultContactSource, *c.Source)
	assert.Equal(t, models.JSONB{"любимый_цвет": "синий"}, c.Extra)

	out := c.ToRow()
	assert.Equal(t, "1990-05-17", out["день_рождения"])
	assert.Equal(t, "синий", out["любимый_цвет"])
	assert.Equal(t, "ivan@example.com", out["электронная_почта"])
	assert.NotContains(t, out, "фамилия")
}

func TestContactFromRow_BadDateKeptInExtra(t *testing.T) {
	c := models.ContactFromRow(dtos.Row{"день_рождения": "когда-то"})

	assert.Nil(t, c.Birthday)
	assert.Equal(t, "когда-то", c.Extra["день_рождения"])
	assert.NotEmpty(t, c.ID)
}

func TestUserFromRow(t *testing.T) {
	u := models.UserFromRow(dtos.Row{
		"идентификатор":     "not-a-uuid",
		"электронная_почта": " anna@example.com ",
		"био":               "Инженер",
		"создано_в":         "2024-01-02T03:04:05Z",
	})

	assert.NotEqual(t, "not-a-uuid", u.ID)
	assert.Len(t, u.ID, 36)
	require.NotNil(t, u.Email)
	assert.Equal(t, "anna@example.com", *u.Email)
	require.NotNil(t, u.Bio)
	assert.Equal(t, 2024, u.CreatedAt.Year())
	assert.Nil(t, u.Extra)
	assert.Equal(t, "anna@example.com", u.ToRow()["электронная_почта"])
}

func TestUserFromRow_BlankEmailStaysNil(t *testing.T) {
	for _, v := range []interface{}{nil, "", "   "} {
		u := models.UserFromRow(dtos.Row{"электронная_почта": v, "имя": "Анна"})
		assert.Nil(t, u.Email)
		assert.NotContains(t, u.ToRow(), "электронная_почта")
	}

	u := models.UserFromRow(dtos.Row{"имя": "Анна"})
	assert.Nil(t, u.Email)
}

func TestJSONB_ScanValue(t *testing.T) {
	var j models.JSONB
	require.NoError(t, j.Scan(`{"a":"b"}`))
	assert.Equal(t, "b", j["a"])

	require.NoError(t, j.Scan([]byte(`{"c":1}`)))
	assert.EqualValues(t, 1, j["c"])

	require.NoError(t, j.Scan(nil))
	assert.Empty(t, j)
	assert.Error(t, j.Scan(42))

	v, err := models.JSONB{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = models.JSONB{"x": "y"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `{"x":"y"}`, v)
}

func TestRunStatus(t *testing.T) {
	assert.Equal(t, models.RunStatusCompleted, models.RunStatus(10, 0))
	assert.Equal(t, models.RunStatusPartial, models.RunStatus(5, 5))
	assert.Equal(t, models.RunStatusFailed, models.RunStatus(0, 5))
}
