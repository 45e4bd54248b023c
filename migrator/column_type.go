package migrator

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/oci/codec"
	"gorm.io/oci/dialect"
	"gorm.io/oci/types"
)

const columnTypesSQL = "SELECT c.COLUMN_NAME, c.DATA_TYPE, c.DATA_LENGTH, c.CHAR_LENGTH, c.DATA_PRECISION, c.DATA_SCALE, " +
	"c.NULLABLE, c.IDENTITY_COLUMN, c.DATA_DEFAULT, m.COMMENTS " +
	"FROM USER_TAB_COLUMNS c LEFT JOIN USER_COL_COMMENTS m ON m.TABLE_NAME = c.TABLE_NAME AND m.COLUMN_NAME = c.COLUMN_NAME " +
	"WHERE c.TABLE_NAME = ? ORDER BY c.COLUMN_ID"

const columnKeysSQL = "SELECT cc.COLUMN_NAME, k.CONSTRAINT_TYPE " +
	"FROM USER_CONSTRAINTS k JOIN USER_CONS_COLUMNS cc ON cc.CONSTRAINT_NAME = k.CONSTRAINT_NAME " +
	"WHERE k.TABLE_NAME = ? AND k.CONSTRAINT_TYPE IN ('P', 'U')"

// ColumnType is one column of a table as the data dictionary describes it
type ColumnType struct {
	NameValue          string
	DataTypeValue      string
	ColumnTypeValue    string
	PrimaryKeyValue    sql.NullBool
	UniqueValue        sql.NullBool
	AutoIncrementValue sql.NullBool
	LengthValue        sql.NullInt64
	DecimalSizeValue   sql.NullInt64
	ScaleValue         sql.NullInt64
	NullableValue      sql.NullBool
	CommentValue       sql.NullString
	DefaultValueValue  sql.NullString
}

// Name returns the name of the column.
func (ct ColumnType) Name() string {
	return ct.NameValue
}

// DatabaseTypeName returns the Oracle type name without length, like VARCHAR2
func (ct ColumnType) DatabaseTypeName() string {
	return ct.DataTypeValue
}

// ColumnType returns the full column type, like VARCHAR2(40 CHAR)
func (ct ColumnType) ColumnType() (columnType string, ok bool) {
	return ct.ColumnTypeValue, ct.ColumnTypeValue != ""
}

// Tag returns the value type the column decodes to
func (ct ColumnType) Tag() types.TypeTag {
	return codec.TagForDatabaseType(ct.DataTypeValue)
}

// PrimaryKey returns the column is primary key or not.
func (ct ColumnType) PrimaryKey() (isPrimaryKey bool, ok bool) {
	return ct.PrimaryKeyValue.Bool, ct.PrimaryKeyValue.Valid
}

// AutoIncrement reports an identity column.
func (ct ColumnType) AutoIncrement() (isAutoIncrement bool, ok bool) {
	return ct.AutoIncrementValue.Bool, ct.AutoIncrementValue.Valid
}

// Length returns the column type length for variable length column types
func (ct ColumnType) Length() (length int64, ok bool) {
	return ct.LengthValue.Int64, ct.LengthValue.Valid
}

// DecimalSize returns the scale and precision of a NUMBER column.
func (ct ColumnType) DecimalSize() (precision int64, scale int64, ok bool) {
	return ct.DecimalSizeValue.Int64, ct.ScaleValue.Int64, ct.DecimalSizeValue.Valid
}

// Nullable reports whether the column may be null.
func (ct ColumnType) Nullable() (nullable bool, ok bool) {
	return ct.NullableValue.Bool, ct.NullableValue.Valid
}

// Unique reports whether the column belongs to a unique constraint.
func (ct ColumnType) Unique() (unique bool, ok bool) {
	return ct.UniqueValue.Bool, ct.UniqueValue.Valid
}

// Comment returns the comment of current column.
func (ct ColumnType) Comment() (value string, ok bool) {
	return ct.CommentValue.String, ct.CommentValue.Valid
}

// DefaultValue returns the default value of current column.
func (ct ColumnType) DefaultValue() (value string, ok bool) {
	return ct.DefaultValueValue.String, ct.DefaultValueValue.Valid
}

// ColumnTypes describes the columns of table in column order
func (m Migrator) ColumnTypes(ctx context.Context, table string) ([]ColumnType, error) {
	name := dialect.CatalogName(table)

	var columns []ColumnType
	err := m.query(ctx, func(row []types.Value) error {
		column, err := scanColumnType(row)
		columns = append(columns, column)
		return err
	}, columnTypesSQL, name)
	if err != nil {
		return nil, err
	}

	keys := map[string][]string{}
	err = m.query(ctx, func(row []types.Value) error {
		column, err := row[0].Text()
		if err != nil {
			return err
		}
		kind, err := row[1].Text()
		keys[column] = append(keys[column], kind)
		return err
	}, columnKeysSQL, name)
	if err != nil {
		return nil, err
	}

	for idx := range columns {
		column := &columns[idx]
		column.PrimaryKeyValue = sql.NullBool{Valid: true}
		column.UniqueValue = sql.NullBool{Valid: true}
		for _, kind := range keys[column.NameValue] {
			switch kind {
			case "P":
				column.PrimaryKeyValue.Bool = true
			case "U":
				column.UniqueValue.Bool = true
			}
		}
	}
	return columns, nil
}

func scanColumnType(row []types.Value) (ColumnType, error) {
	var (
		ct  ColumnType
		err error
	)
	if ct.NameValue, err = row[0].Text(); err != nil {
		return ct, err
	}
	if ct.DataTypeValue, err = row[1].Text(); err != nil {
		return ct, err
	}

	dataLength, charLength := nullInt(row[2]), nullInt(row[3])
	ct.DecimalSizeValue, ct.ScaleValue = nullInt(row[4]), nullInt(row[5])
	switch ct.DataTypeValue {
	case "VARCHAR2", "NVARCHAR2", "CHAR", "NCHAR":
		ct.LengthValue = charLength
		ct.ColumnTypeValue = fmt.Sprintf("%s(%d CHAR)", ct.DataTypeValue, charLength.Int64)
	case "RAW":
		ct.LengthValue = dataLength
		ct.ColumnTypeValue = fmt.Sprintf("RAW(%d)", dataLength.Int64)
	case "NUMBER":
		switch {
		case !ct.DecimalSizeValue.Valid:
			ct.ColumnTypeValue = "NUMBER"
		case ct.ScaleValue.Int64 != 0:
			ct.ColumnTypeValue = fmt.Sprintf("NUMBER(%d,%d)", ct.DecimalSizeValue.Int64, ct.ScaleValue.Int64)
		default:
			ct.ColumnTypeValue = fmt.Sprintf("NUMBER(%d)", ct.DecimalSizeValue.Int64)
		}
	default:
		ct.ColumnTypeValue = ct.DataTypeValue
	}

	nullable, err := row[6].Text()
	if err != nil {
		return ct, err
	}
	ct.NullableValue = sql.NullBool{Bool: nullable == "Y", Valid: true}

	identity, err := nullString(row[7])
	if err != nil {
		return ct, err
	}
	ct.AutoIncrementValue = sql.NullBool{Bool: identity.String == "YES", Valid: identity.Valid}

	if ct.DefaultValueValue, err = nullString(row[8]); err != nil {
		return ct, err
	}
	ct.CommentValue, err = nullString(row[9])
	return ct, err
}

func nullString(v types.Value) (sql.NullString, error) {
	if v.IsNull() {
		return sql.NullString{}, nil
	}
	s, err := v.Text()
	return sql.NullString{String: s, Valid: err == nil}, err
}

func nullInt(v types.Value) sql.NullInt64 {
	if v.IsNull() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: v.Int64(), Valid: true}
}
