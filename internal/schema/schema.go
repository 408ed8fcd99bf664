// Package schema builds CREATE TABLE statements from typed descriptions.
// Identifiers are always quoted by the target dialect and values are never
// spliced into SQL text.
package schema

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrInvalidIdentifier = errors.New("schema: invalid identifier")
	ErrNoColumns         = errors.New("schema: table has no columns")
)

// ColumnType is a portable column type.
type ColumnType int

const (
	Integer ColumnType = iota
	Real
	Text
)

var typeNames = map[string]map[ColumnType]string{
	"sqlite":   {Integer: "INTEGER", Real: "REAL", Text: "TEXT"},
	"postgres": {Integer: "BIGINT", Real: "DOUBLE PRECISION", Text: "TEXT"},
	"mysql":    {Integer: "BIGINT", Real: "DOUBLE", Text: "VARCHAR(255)"},
}

// Column is one table column.
type Column struct {
	Name    string
	Type    ColumnType
	NotNull bool
}

// Check bounds a numeric column to [Min, Max].
type Check struct {
	Column   string
	Min, Max float64
}

// ForeignKey references a column of another table.
type ForeignKey struct {
	Column    string
	RefTable  string
	RefColumn string
}

// Table describes a table to create.
type Table struct {
	Name        string
	Columns     []Column
	PrimaryKey  []string
	Checks      []Check
	ForeignKeys []ForeignKey
	IfNotExists bool
}

// ValidIdentifier reports whether name can be quoted safely.
func ValidIdentifier(name string) error {
	if name == "" || strings.ContainsAny(name, "`\"'\x00;.") {
		return fmt.Errorf("%q: %w", name, ErrInvalidIdentifier)
	}
	return nil
}

func quote(d gorm.Dialector, name string) (string, error) {
	if err := ValidIdentifier(name); err != nil {
		return "", err
	}
	var b strings.Builder
	d.QuoteTo(&b, name)
	return b.String(), nil
}

func typeName(d gorm.Dialector, t ColumnType) string {
	names, ok := typeNames[d.Name()]
	if !ok {
		names = typeNames["sqlite"]
	}
	return names[t]
}

// SQL renders the CREATE TABLE statement for dialect d.
func (t Table) SQL(d gorm.Dialector) (string, error) {
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("%s: %w", t.Name, ErrNoColumns)
	}
	name, err := quote(d, t.Name)
	if err != nil {
		return "", err
	}

	var defs []string
	for _, c := range t.Columns {
		q, err := quote(d, c.Name)
		if err != nil {
			return "", err
		}
		def := q + " " + typeName(d, c.Type)
		if c.NotNull {
			def += " NOT NULL"
		}
		defs = append(defs, def)
	}

	if len(t.PrimaryKey) > 0 {
		keys := make([]string, len(t.PrimaryKey))
		for i, k := range t.PrimaryKey {
			if keys[i], err = quote(d, k); err != nil {
				return "", err
			}
		}
		defs = append(defs, "PRIMARY KEY ("+strings.Join(keys, ", ")+")")
	}

	for _, c := range t.Checks {
		q, err := quote(d, c.Column)
		if err != nil {
			return "", err
		}
		defs = append(defs, fmt.Sprintf("CHECK (%s >= %s AND %s <= %s)",
			q, formatBound(c.Min), q, formatBound(c.Max)))
	}

	for _, fk := range t.ForeignKeys {
		col, err := quote(d, fk.Column)
		if err != nil {
			return "", err
		}
		ref, err := quote(d, fk.RefTable)
		if err != nil {
			return "", err
		}
		refCol, err := quote(d, fk.RefColumn)
		if err != nil {
			return "", err
		}
		defs = append(defs, fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s (%s)", col, ref, refCol))
	}

	create := "CREATE TABLE "
	if t.IfNotExists {
		create += "IF NOT EXISTS "
	}
	return create + name + " (" + strings.Join(defs, ", ") + ")", nil
}

// formatBound renders a numeric literal; bounds come from code, not input.
func formatBound(v float64) string {
	s := fmt.Sprintf("%g", v)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// Create executes the statement on db.
func (t Table) Create(ctx context.Context, db *gorm.DB) error {
	stmt, err := t.SQL(db.Dialector)
	if err != nil {
		return err
	}
	if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
		return fmt.Errorf("create table %s: %w", t.Name, err)
	}
	return nil
}

// DesignTable describes a hypercube design table: an integer key followed by
// one real column per variable, each checked to lie in [-1, 1].
func DesignTable(name, key string, vars []string) Table {
	t := Table{
		Name:       name,
		Columns:    []Column{{Name: key, Type: Integer, NotNull: true}},
		PrimaryKey: []string{key},
	}
	for _, v := range vars {
		t.Columns = append(t.Columns, Column{Name: v, Type: Real, NotNull: true})
		t.Checks = append(t.Checks, Check{Column: v, Min: -1, Max: 1})
	}
	return t
}

// Wide table key columns.
const (
	KeyDesign = "design_index"
	KeyRepeat = "repeat"
	KeyDay    = "day"
	KeyWard   = "ward"
)

// WideKeys lists the wide table key columns in order.
var WideKeys = []string{KeyDesign, KeyRepeat, KeyDay, KeyWard}

// WideTable describes a per-ward output table keyed by design, repeat, day
// and ward, with one integer column per output channel.
func WideTable(name string, channels []string) Table {
	t := Table{Name: name, IfNotExists: true, PrimaryKey: WideKeys}
	for _, k := range WideKeys {
		t.Columns = append(t.Columns, Column{Name: k, Type: Integer, NotNull: true})
	}
	for _, c := range channels {
		t.Columns = append(t.Columns, Column{Name: c, Type: Integer})
	}
	return t
}
