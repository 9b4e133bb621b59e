package gorm

import (
	"time"

	"infinite-experiment/contactimport/internal/models/dtos"
)

// DefaultContactSource marks contacts created by an import
const DefaultContactSource = "excel_import"

// Contact is one row of the контакты table. Keys without a typed column land in Extra.
type Contact struct {
	ID          string     `gorm:"column:идентификатор;primaryKey;type:uuid"`
	FirstName   *string    `gorm:"column:имя"`
	LastName    *string    `gorm:"column:фамилия"`
	Company     *string    `gorm:"column:компания"`
	Position    *string    `gorm:"column:должность"`
	Notes       *string    `gorm:"column:примечания;type:text"`
	Email       *string    `gorm:"column:электронная_почта;index"`
	Phone       *string    `gorm:"column:телефон"`
	LinkedInURL *string    `gorm:"column:linkedin_url;type:text"`
	Telegram    *string    `gorm:"column:телеграмма;type:varchar(100)"`
	Website     *string    `gorm:"column:website;type:text"`
	Country     *string    `gorm:"column:страна;type:varchar(100)"`
	Rating      *string    `gorm:"column:рейтинг"`
	Network     *string    `gorm:"column:сеть"`
	Birthday    *time.Time `gorm:"column:день_рождения;type:date"`
	Source      *string    `gorm:"column:источник"`
	Extra       JSONB      `gorm:"column:extra;type:jsonb"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Contact) TableName() string {
	return "контакты"
}

func (c *Contact) columns() textColumns {
	return textColumns{
		"имя":               &c.FirstName,
		"фамилия":           &c.LastName,
		"компания":          &c.Company,
		"должность":         &c.Position,
		"примечания":        &c.Notes,
		"электронная_почта": &c.Email,
		"телефон":           &c.Phone,
		"linkedin_url":      &c.LinkedInURL,
		"телеграмма":        &c.Telegram,
		"website":           &c.Website,
		"страна":            &c.Country,
		"рейтинг":           &c.Rating,
		"сеть":              &c.Network,
		"источник":          &c.Source,
	}
}

// ContactFromRow converts a validated row into a Contact
func ContactFromRow(row dtos.Row) *Contact {
	c := &Contact{ID: takeID(row)}
	extra := JSONB{}

	work := make(dtos.Row, len(row))
	for k, v := range row {
		if k != IDColumn {
			work[k] = v
		}
	}
	c.columns().fill(work, extra)
	c.Birthday = takeTime(extra, "день_рождения")

	if c.Source == nil {
		src := DefaultContactSource
		c.Source = &src
	}
	if len(extra) > 0 {
		c.Extra = extra
	}
	return c
}

// ToRow flattens the contact back into a destination row
func (c *Contact) ToRow() dtos.Row {
	row := dtos.Row{IDColumn: c.ID}
	c.columns().dump(row)
	if c.Birthday != nil {
		row["день_рождения"] = c.Birthday.Format(dateLayout)
	}
	mergeExtra(row, c.Extra)
	return row
}
