package migrator

import (
	"context"
	"database/sql"

	"gorm.io/oci/dialect"
	"gorm.io/oci/types"
)

const indexesSQL = "SELECT i.INDEX_NAME, i.UNIQUENESS, i.INDEX_TYPE, c.COLUMN_NAME, k.CONSTRAINT_TYPE " +
	"FROM USER_INDEXES i JOIN USER_IND_COLUMNS c ON c.INDEX_NAME = i.INDEX_NAME " +
	"LEFT JOIN USER_CONSTRAINTS k ON k.INDEX_NAME = i.INDEX_NAME AND k.CONSTRAINT_TYPE = 'P' " +
	"WHERE i.TABLE_NAME = ? ORDER BY i.INDEX_NAME, c.COLUMN_POSITION"

// Index is one index of a table
type Index struct {
	TableName       string
	NameValue       string
	ColumnList      []string
	PrimaryKeyValue sql.NullBool
	UniqueValue     sql.NullBool
	// OptionValue is the Oracle index type, like NORMAL or BITMAP
	OptionValue string
}

// Table return the table name of the index.
func (idx Index) Table() string {
	return idx.TableName
}

// Name return the name  of the index.
func (idx Index) Name() string {
	return idx.NameValue
}

// Columns return the columns fo the index
func (idx Index) Columns() []string {
	return idx.ColumnList
}

// PrimaryKey returns the index is primary key or not.
func (idx Index) PrimaryKey() (isPrimaryKey bool, ok bool) {
	return idx.PrimaryKeyValue.Bool, idx.PrimaryKeyValue.Valid
}

// Unique returns whether the index is unique or not.
func (idx Index) Unique() (unique bool, ok bool) {
	return idx.UniqueValue.Bool, idx.UniqueValue.Valid
}

// Option return the optional attribute fo the index
func (idx Index) Option() string {
	return idx.OptionValue
}

// GetIndexes lists the indexes of table with their columns in key order
func (m Migrator) GetIndexes(ctx context.Context, table string) ([]Index, error) {
	name := dialect.CatalogName(table)

	var indexes []Index
	err := m.query(ctx, func(row []types.Value) error {
		text := make([]string, 4)
		for i := range text {
			var err error
			if text[i], err = row[i].Text(); err != nil {
				return err
			}
		}

		if n := len(indexes); n == 0 || indexes[n-1].NameValue != text[0] {
			indexes = append(indexes, Index{
				TableName:       name,
				NameValue:       text[0],
				UniqueValue:     sql.NullBool{Bool: text[1] == "UNIQUE", Valid: true},
				PrimaryKeyValue: sql.NullBool{Bool: !row[4].IsNull(), Valid: true},
				OptionValue:     text[2],
			})
		}
		last := &indexes[len(indexes)-1]
		last.ColumnList = append(last.ColumnList, text[3])
		return nil
	}, indexesSQL, name)
	return indexes, err
}
