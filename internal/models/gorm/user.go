package gorm

import (
	"time"

	"infinite-experiment/contactimport/internal/models/dtos"
)

// User is one row of the пользователи table
type User struct {
	ID        string    `gorm:"column:идентификатор;primaryKey;type:uuid"`
	Email     *string   `gorm:"column:электронная_почта;uniqueIndex;not null"`
	FirstName *string   `gorm:"column:имя"`
	LastName  *string   `gorm:"column:фамилия"`
	Phone     *string   `gorm:"column:телефон"`
	Company   *string   `gorm:"column:компания"`
	Position  *string   `gorm:"column:должность"`
	Telegram  *string   `gorm:"column:телеграмма;type:varchar(100)"`
	AvatarURL *string   `gorm:"column:аватар_url;type:text"`
	Bio       *string   `gorm:"column:био;type:text"`
	Notes     *string   `gorm:"column:примечания;type:text"`
	Extra     JSONB     `gorm:"column:extra;type:jsonb"`
	CreatedAt time.Time `gorm:"column:создано_в;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:обновлено_в;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "пользователи"
}

func (u *User) columns() textColumns {
	return textColumns{
		"электронная_почта": &u.Email,
		"имя":               &u.FirstName,
		"фамилия":           &u.LastName,
		"телефон":           &u.Phone,
		"компания":          &u.Company,
		"должность":         &u.Position,
		"телеграмма":        &u.Telegram,
		"аватар_url":        &u.AvatarURL,
		"био":               &u.Bio,
		"примечания":        &u.Notes,
	}
}

// UserFromRow converts a validated row into a User. A blank email stays nil so
// the not null constraint rejects the row instead of storing "".
func UserFromRow(row dtos.Row) *User {
	u := &User{ID: takeID(row)}
	extra := JSONB{}

	work := make(dtos.Row, len(row))
	for k, v := range row {
		if k != IDColumn {
			work[k] = v
		}
	}
	u.columns().fill(work, extra)

	if t := takeTime(extra, "создано_в"); t != nil {
		u.CreatedAt = *t
	}
	if t := takeTime(extra, "обновлено_в"); t != nil {
		u.UpdatedAt = *t
	}
	if len(extra) > 0 {
		u.Extra = extra
	}
	return u
}

func (u *User) ToRow() dtos.Row {
	row := dtos.Row{
		IDColumn:      u.ID,
		"создано_в":   u.CreatedAt.UTC().Format(time.RFC3339),
		"обновлено_в": u.UpdatedAt.UTC().Format(time.RFC3339),
	}
	u.columns().dump(row)
	mergeExtra(row, u.Extra)
	return row
}
