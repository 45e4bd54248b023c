// Package migrator reads the Oracle data dictionary through a session's raw
// query path.
package migrator

import (
	"context"
	"fmt"

	"gorm.io/oci"
	"gorm.io/oci/dialect"
	"gorm.io/oci/types"
)

const tableTypeSQL = "SELECT SYS_CONTEXT('USERENV', 'CURRENT_SCHEMA'), t.TABLE_NAME, c.COMMENTS " +
	"FROM USER_TABLES t LEFT JOIN USER_TAB_COMMENTS c ON c.TABLE_NAME = t.TABLE_NAME WHERE t.TABLE_NAME = ?"

// Querier runs raw queries with ? placeholders; *oci.Session implements it
type Querier interface {
	Raw(ctx context.Context, sql string, args ...interface{}) (*oci.Rows, error)
}

// Migrator migrator struct
type Migrator struct {
	Querier Querier
}

// New returns a migrator reading the catalog through q
func New(q Querier) Migrator {
	return Migrator{Querier: q}
}

// CurrentDatabase returns the database name
func (m Migrator) CurrentDatabase(ctx context.Context) (string, error) {
	var name string
	err := m.queryRow(ctx, func(row []types.Value) error {
		var err error
		name, err = row[0].Text()
		return err
	}, "SELECT ORA_DATABASE_NAME FROM DUAL")
	return name, err
}

// HasTable reports whether the current schema owns table
func (m Migrator) HasTable(ctx context.Context, table string) (bool, error) {
	return m.exists(ctx, "SELECT COUNT(*) FROM USER_TABLES WHERE TABLE_NAME = ?", dialect.CatalogName(table))
}

// HasColumn reports whether table has column
func (m Migrator) HasColumn(ctx context.Context, table, column string) (bool, error) {
	return m.exists(ctx, "SELECT COUNT(*) FROM USER_TAB_COLUMNS WHERE TABLE_NAME = ? AND COLUMN_NAME = ?",
		dialect.CatalogName(table), dialect.CatalogName(column))
}

// HasIndex reports whether table has the index name
func (m Migrator) HasIndex(ctx context.Context, table, name string) (bool, error) {
	return m.exists(ctx, "SELECT COUNT(*) FROM USER_INDEXES WHERE TABLE_NAME = ? AND INDEX_NAME = ?",
		dialect.CatalogName(table), dialect.CatalogName(name))
}

// HasConstraint reports whether table has the constraint name, of any kind
func (m Migrator) HasConstraint(ctx context.Context, table, name string) (bool, error) {
	return m.exists(ctx, "SELECT COUNT(*) FROM USER_CONSTRAINTS WHERE TABLE_NAME = ? AND CONSTRAINT_NAME = ?",
		dialect.CatalogName(table), dialect.CatalogName(name))
}

// HasForeignKey reports whether table has the foreign key name
func (m Migrator) HasForeignKey(ctx context.Context, table, name string) (bool, error) {
	return m.exists(ctx, "SELECT COUNT(*) FROM USER_CONSTRAINTS WHERE CONSTRAINT_TYPE = 'R' AND TABLE_NAME = ? AND CONSTRAINT_NAME = ?",
		dialect.CatalogName(table), dialect.CatalogName(name))
}

// GetTables lists the tables of the current schema by name
func (m Migrator) GetTables(ctx context.Context) ([]string, error) {
	var tables []string
	err := m.query(ctx, func(row []types.Value) error {
		name, err := row[0].Text()
		tables = append(tables, name)
		return err
	}, "SELECT TABLE_NAME FROM USER_TABLES ORDER BY TABLE_NAME")
	return tables, err
}

// TableType describes table, or returns oci.ErrNoData when it does not exist
func (m Migrator) TableType(ctx context.Context, table string) (TableType, error) {
	var tableType TableType
	err := m.queryRow(ctx, func(row []types.Value) (err error) {
		if tableType.SchemaValue, err = row[0].Text(); err != nil {
			return err
		}
		if tableType.NameValue, err = row[1].Text(); err != nil {
			return err
		}
		tableType.TypeValue = "TABLE"
		tableType.CommentValue, err = nullString(row[2])
		return err
	}, tableTypeSQL, dialect.CatalogName(table))
	return tableType, err
}

func (m Migrator) exists(ctx context.Context, sql string, args ...interface{}) (bool, error) {
	var count int64
	err := m.queryRow(ctx, func(row []types.Value) error {
		count = row[0].Int64()
		return nil
	}, sql, args...)
	return count > 0, err
}

// queryRow scans the first row, failing with oci.ErrNoData when there is none
func (m Migrator) queryRow(ctx context.Context, scan func([]types.Value) error, sql string, args ...interface{}) error {
	found := false
	err := m.query(ctx, func(row []types.Value) error {
		if found {
			return nil
		}
		found = true
		return scan(row)
	}, sql, args...)
	if err == nil && !found {
		err = fmt.Errorf("%w: %s", oci.ErrNoData, sql)
	}
	return err
}

func (m Migrator) query(ctx context.Context, scan func([]types.Value) error, sql string, args ...interface{}) error {
	rows, err := m.Querier.Raw(ctx, sql, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows.Values()); err != nil {
			return err
		}
	}
	return rows.Err()
}
