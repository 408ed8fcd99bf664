package schema

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func openMemory(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func TestDesignTable_SQL(t *testing.T) {
	stmt, err := DesignTable("design", "design_index", []string{"beta", "incubation"}).SQL(sqlite.Open(":memory:"))
	require.NoError(t, err)
	assert.Equal(t,
		"CREATE TABLE `design` (`design_index` INTEGER NOT NULL, `beta` REAL NOT NULL, `incubation` REAL NOT NULL, "+
			"PRIMARY KEY (`design_index`), CHECK (`beta` >= -1.0 AND `beta` <= 1.0), "+
			"CHECK (`incubation` >= -1.0 AND `incubation` <= 1.0))",
		stmt)
}

func TestTable_PostgresDialect(t *testing.T) {
	tbl := Table{
		Name:        "run",
		Columns:     []Column{{Name: "id", Type: Integer, NotNull: true}, {Name: "design_index", Type: Integer}, {Name: "score", Type: Real}},
		PrimaryKey:  []string{"id"},
		ForeignKeys: []ForeignKey{{Column: "design_index", RefTable: "design", RefColumn: "design_index"}},
	}
	stmt, err := tbl.SQL(postgres.New(postgres.Config{DSN: "host=localhost"}))
	require.NoError(t, err)
	assert.Contains(t, stmt, `"score" DOUBLE PRECISION`)
	assert.Contains(t, stmt, `FOREIGN KEY ("design_index") REFERENCES "design" ("design_index")`)
}

func TestTable_RejectsBadIdentifiers(t *testing.T) {
	for _, name := range []string{"", `x"; DROP TABLE design; --`, "a`b", "it's", "main.design"} {
		_, err := DesignTable("design", "design_index", []string{name}).SQL(sqlite.Open(":memory:"))
		assert.ErrorIs(t, err, ErrInvalidIdentifier, name)
	}
	_, err := Table{Name: "empty"}.SQL(sqlite.Open(":memory:"))
	assert.ErrorIs(t, err, ErrNoColumns)
}

func TestDesignTable_CreateEnforcesBounds(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()
	require.NoError(t, DesignTable("design", "design_index", []string{"beta"}).Create(ctx, db))

	require.NoError(t, db.Exec("INSERT INTO design (design_index, beta) VALUES (?, ?)", 0, 0.5).Error)
	assert.Error(t, db.Exec("INSERT INTO design (design_index, beta) VALUES (?, ?)", 1, 1.5).Error)

	var n int64
	require.NoError(t, db.Table("design").Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestWideTable_IfNotExists(t *testing.T) {
	db := openMemory(t)
	tbl := WideTable("wide", []string{"asymp_2", "genpop_0"})
	require.NoError(t, tbl.Create(context.Background(), db))
	require.NoError(t, tbl.Create(context.Background(), db))
	assert.True(t, db.Migrator().HasColumn("wide", "asymp_2"))
}
