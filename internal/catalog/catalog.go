// Package catalog declares the destination tables rows can be imported into,
// together with the validation rules that guard each of them.
package catalog

import (
	"errors"
	"fmt"

	"infinite-experiment/contactimport/internal/models/dtos"
)

const (
	TableUsers    = "пользователи"
	TableContacts = "контакты"
)

var ErrUnknownTable = errors.New("unknown destination table")

// Table is one destination schema with its rule set
type Table struct {
	Schema dtos.TableSchema
	Rules  []dtos.ValidationRule
}

// Catalog is read-only once built
type Catalog struct {
	tables map[string]Table
	order  []string
}

// RuleRegistrar receives the rule set of every table
type RuleRegistrar interface {
	AddTableRules(table string, rules []dtos.ValidationRule)
}

func New(tables ...Table) *Catalog {
	c := &Catalog{tables: make(map[string]Table)}
	for _, t := range tables {
		c.put(t)
	}
	return c
}

// Default returns the built-in destination tables
func Default() *Catalog {
	return New(usersTable(), contactsTable())
}

func (c *Catalog) put(t Table) {
	name := t.Schema.TableName
	if _, ok := c.tables[name]; !ok {
		c.order = append(c.order, name)
	}
	c.tables[name] = t
}

// Schema returns a copy of the named destination schema
func (c *Catalog) Schema(name string) (*dtos.TableSchema, error) {
	t, ok := c.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, name)
	}
	schema := t.Schema
	schema.Columns = append([]dtos.ColumnInfo(nil), t.Schema.Columns...)
	return &schema, nil
}

func (c *Catalog) Rules(name string) []dtos.ValidationRule {
	return c.tables[name].Rules
}

// Tables lists every schema in registration order
func (c *Catalog) Tables() []dtos.TableSchema {
	out := make([]dtos.TableSchema, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.tables[name].Schema)
	}
	return out
}

// Fields returns the column names of a table, used to whitelist hint keys
func (c *Catalog) Fields(name string) ([]string, error) {
	schema, err := c.Schema(name)
	if err != nil {
		return nil, err
	}
	return schema.ColumnNames(), nil
}

// RegisterRules hands every table's rules to r
func (c *Catalog) RegisterRules(r RuleRegistrar) {
	for _, name := range c.order {
		r.AddTableRules(name, c.tables[name].Rules)
	}
}

func column(name string, t dtos.ColumnType, nullable bool) dtos.ColumnInfo {
	return dtos.ColumnInfo{Name: name, Type: t, Nullable: nullable}
}

func notesColumn(name string) dtos.ColumnInfo {
	return dtos.ColumnInfo{Name: name, Type: dtos.TypeText, Nullable: true, Overflow: true}
}

func usersTable() Table {
	return Table{
		Schema: dtos.TableSchema{
			TableName: TableUsers,
			Columns: []dtos.ColumnInfo{
				column("идентификатор", dtos.TypeUUID, false),
				column("электронная_почта", dtos.TypeVarchar, false),
				column("имя", dtos.TypeVarchar, true),
				column("фамилия", dtos.TypeVarchar, true),
				column("телефон", dtos.TypeVarchar, true),
				column("компания", dtos.TypeVarchar, true),
				column("должность", dtos.TypeVarchar, true),
				column("телеграмма", dtos.TypeVarchar, true),
				column("аватар_url", dtos.TypeText, true),
				column("био", dtos.TypeText, true),
				notesColumn("примечания"),
				column("создано_в", dtos.TypeTimestampTZ, false),
				column("обновлено_в", dtos.TypeTimestampTZ, false),
			},
		},
		Rules: []dtos.ValidationRule{
			{Field: "электронная_почта", Required: true, Type: "email", Unique: true},
			{Field: "имя", Type: "string"},
			{Field: "фамилия", Type: "string"},
			{Field: "телефон", Type: "phone"},
			{Field: "компания", Type: "string"},
			{Field: "должность", Type: "string"},
			{Field: "телеграмма", Type: "string", MaxLength: 100},
			{Field: "аватар_url", Type: "url"},
			{Field: "идентификатор", Type: "uuid"},
		},
	}
}

func contactsTable() Table {
	return Table{
		Schema: dtos.TableSchema{
			TableName: TableContacts,
			Columns: []dtos.ColumnInfo{
				column("имя", dtos.TypeVarchar, true),
				column("фамилия", dtos.TypeVarchar, true),
				column("компания", dtos.TypeVarchar, true),
				column("должность", dtos.TypeVarchar, true),
				notesColumn("примечания"),
				column("электронная_почта", dtos.TypeVarchar, true),
				column("телефон", dtos.TypeVarchar, true),
				column("linkedin_url", dtos.TypeText, true),
				column("телеграмма", dtos.TypeVarchar, true),
				column("website", dtos.TypeText, true),
				column("страна", dtos.TypeVarchar, true),
				column("рейтинг", dtos.TypeVarchar, true),
				column("сеть", dtos.TypeVarchar, true),
				column("день_рождения", dtos.TypeDate, true),
				column("источник", dtos.TypeVarchar, true),
			},
		},
		Rules: []dtos.ValidationRule{
			{Field: "имя", Type: "string"},
			{Field: "фамилия", Type: "string"},
			{Field: "компания", Type: "string"},
			{Field: "должность", Type: "string"},
			{Field: "электронная_почта", Type: "email"},
			{Field: "телефон", Type: "phone"},
			{Field: "linkedin_url", Type: "url"},
			{Field: "website", Type: "url"},
			{Field: "телеграмма", Type: "string", MaxLength: 100},
			{Field: "страна", Type: "string", MaxLength: 100},
			{Field: "день_рождения", Type: "date"},
		},
	}
}
