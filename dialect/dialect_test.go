package dialect_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gorm.io/oci/clause"
	"gorm.io/oci/dialect"
	"gorm.io/oci/types"
)

var (
	users   = clause.From{Tables: []clause.Table{{Name: "users"}}}
	testDay = time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
)

func build(t *testing.T, q clause.Query) *dialect.Statement {
	t.Helper()
	stmt, err := dialect.Oracle{}.Build(q)
	require.NoError(t, err)
	return stmt
}

func TestBuildSelect(t *testing.T) {
	results := []struct {
		Query  clause.Query
		Result string
		Vars   []types.Value
	}{
		{
			clause.SelectQuery{From: users},
			"SELECT * FROM users", nil,
		},
		{
			clause.SelectQuery{Select: clause.Select{Columns: []clause.Column{{Name: "1", Raw: true}}}},
			"SELECT 1 FROM DUAL", nil,
		},
		{
			clause.SelectQuery{
				Select: clause.Select{Distinct: true, Columns: []clause.Column{{Table: "u", Name: "UserId"}, {Name: "level", Alias: "lvl"}}},
				From:   clause.From{Tables: []clause.Table{{Name: "app.users", Alias: "u"}}},
			},
			`SELECT DISTINCT u."UserId","LEVEL" AS lvl FROM app.users u`, nil,
		},
		{
			clause.SelectQuery{
				From: users,
				Where: clause.Where{Exprs: []clause.Expression{
					clause.Eq{Column: clause.Column{Name: "name"}, Value: "jinzhu"},
					clause.Gt{Column: clause.Column{Name: "age"}, Value: types.IntegerValue(18)},
					clause.Or(clause.Eq{Column: clause.Column{Name: "deleted_at"}, Value: nil}),
				}},
				OrderBy: clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "age"}, Desc: true, NullsLast: true}}},
			},
			"SELECT * FROM users WHERE name = :1 AND age > :2 OR deleted_at IS NULL ORDER BY age DESC NULLS LAST",
			[]types.Value{types.TextValue("jinzhu"), types.IntegerValue(18)},
		},
		{
			clause.SelectQuery{
				Select:  clause.Select{Columns: []clause.Column{{Name: "dept"}}, Expression: clause.CommaExpression{Exprs: []clause.Expression{clause.Expr{SQL: "dept"}, clause.Count{Alias: "total"}}}},
				From:    users,
				GroupBy: clause.GroupBy{Columns: []clause.Column{{Name: "dept"}}, Having: []clause.Expression{clause.Expr{SQL: "COUNT(*) > ?", Vars: []interface{}{types.BigIntValue(2)}}}},
			},
			"SELECT dept, COUNT(*) AS total FROM users GROUP BY dept HAVING COUNT(*) > :1",
			[]types.Value{types.BigIntValue(2)},
		},
		{
			clause.SelectQuery{
				From: clause.From{
					Tables: []clause.Table{{Name: "users", Alias: "u"}},
					Joins: []clause.Join{{
						Type:  clause.LeftJoin,
						Table: clause.Table{Name: "orders", Alias: "o"},
						ON:    clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "o.user_id = u.id"}}},
					}},
				},
				Locking: &clause.Locking{Strength: clause.LockingStrengthUpdate, Options: clause.LockingOptionsNoWait},
			},
			"SELECT * FROM users u LEFT JOIN orders o ON o.user_id = u.id FOR UPDATE NOWAIT", nil,
		},
		{
			clause.SelectQuery{
				Select: clause.Select{Columns: []clause.Column{{Name: "name"}}},
				From:   users,
				Where: clause.Where{Exprs: []clause.Expression{
					clause.Not(clause.IN{Column: clause.Column{Name: "id"}, Values: []interface{}{1, 2}}),
					clause.Like{Column: clause.Column{Name: "name"}, Value: "a%"},
				}},
			},
			"SELECT name FROM users WHERE id NOT IN (:1,:2) AND name LIKE :3",
			[]types.Value{types.BigIntValue(1), types.BigIntValue(2), types.TextValue("a%")},
		},
	}

	for _, result := range results {
		stmt := build(t, result.Query)
		assert.Equal(t, result.Result, stmt.SQL)
		assertVars(t, result.Vars, stmt)
	}
}

func assertVars(t *testing.T, expected []types.Value, stmt *dialect.Statement) {
	t.Helper()
	require.Len(t, stmt.Vars, len(expected), stmt.SQL)
	require.Len(t, stmt.Binds, len(expected), stmt.SQL)
	for idx, v := range expected {
		assert.True(t, v.Equal(stmt.Vars[idx]), "var :%d expects %v got %v", idx+1, v, stmt.Vars[idx])
		assert.Equal(t, v.Tag(), stmt.Binds[idx])
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	q := clause.SelectQuery{
		Select: clause.Select{Columns: []clause.Column{{Name: "id", Type: types.BigInt}, {Name: "Name", Type: types.Text}}},
		From:   users,
		Where: clause.Where{Exprs: []clause.Expression{
			clause.IN{Column: clause.Column{Name: "id"}, Values: []interface{}{3, 1, 2}},
			clause.Expr{SQL: "created_at > ?", Vars: []interface{}{types.DateValue(testDay)}},
		}},
		Limit: clause.LimitOf(5, 10),
	}

	first := build(t, q)
	for i := 0; i < 10; i++ {
		again := build(t, q)
		assert.Equal(t, first.SQL, again.SQL)
		assert.Equal(t, first.Binds, again.Binds)
	}
}

func TestQuoting(t *testing.T) {
	results := map[string]string{
		"USERID":    "USERID",
		"UserId":    `"UserId"`,
		"user_id":   "user_id",
		"level":     `"LEVEL"`,
		"SELECT":    `"SELECT"`,
		"2fast":     `"2fast"`,
		"has space": `"has space"`,
		"ÉTÉ":       "ÉTÉ",
		"Été":       `"Été"`,
		"A$B#C":     "A$B#C",
	}
	for name, quoted := range results {
		assert.Equal(t, quoted, dialect.QuoteIdentifier(name), name)
	}

	stmt := build(t, clause.SelectQuery{Select: clause.Select{Columns: []clause.Column{{Name: "UserId"}, {Name: "USERID"}}}, From: users})
	assert.Equal(t, `SELECT "UserId",USERID FROM users`, stmt.SQL)

	_, err := dialect.Oracle{}.Build(clause.SelectQuery{From: clause.From{Tables: []clause.Table{{Name: `bad"name`}}}})
	assert.True(t, errors.Is(err, dialect.ErrUnsupportedConstruct))
}

func TestCatalogName(t *testing.T) {
	results := map[string]string{
		"users":  "USERS",
		"USERS":  "USERS",
		"UserId": "UserId",
		"level":  "LEVEL",
		"2fast":  "2fast",
		"été":    "ÉTÉ",
	}
	for name, stored := range results {
		assert.Equal(t, stored, dialect.CatalogName(name), name)
	}
}

func TestLimitOffset(t *testing.T) {
	orderByID := clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "id"}}}}

	stmt := build(t, clause.SelectQuery{From: users, OrderBy: orderByID, Limit: clause.LimitOf(5, 10)})
	assert.Equal(t,
		"SELECT * FROM (SELECT q_.*, ROWNUM AS RN_ FROM (SELECT * FROM users ORDER BY id) q_ WHERE ROWNUM <= :1) WHERE RN_ > :2 ORDER BY RN_",
		stmt.SQL)
	assertVars(t, []types.Value{types.BigIntValue(15), types.BigIntValue(10)}, stmt)
	assert.Equal(t, 1, stmt.TrailingHidden)

	stmt = build(t, clause.SelectQuery{
		Select:  clause.Select{Columns: []clause.Column{{Name: "id", Type: types.BigInt}, {Name: "name", Alias: "UserName", Type: types.Text}}},
		From:    users,
		Where:   clause.Where{Exprs: []clause.Expression{clause.Gt{Column: clause.Column{Name: "age"}, Value: 18}}},
		OrderBy: orderByID,
		Limit:   clause.LimitOf(5, 0),
	})
	assert.Equal(t,
		`SELECT id,"UserName" FROM (SELECT id,name AS "UserName" FROM users WHERE age > :1 ORDER BY id) WHERE ROWNUM <= :2`,
		stmt.SQL)
	assertVars(t, []types.Value{types.BigIntValue(18), types.BigIntValue(5)}, stmt)
	assert.Equal(t, 0, stmt.TrailingHidden)
	assert.Equal(t, []dialect.ColumnSlot{{Name: "id", Type: types.BigInt}, {Name: "UserName", Type: types.Text}}, stmt.Columns)

	stmt = build(t, clause.SelectQuery{From: users, Limit: clause.Limit{Offset: 3}})
	assert.Equal(t,
		"SELECT * FROM (SELECT q_.*, ROWNUM AS RN_ FROM (SELECT * FROM users) q_) WHERE RN_ > :1 ORDER BY RN_",
		stmt.SQL)
	assertVars(t, []types.Value{types.BigIntValue(3)}, stmt)

	_, err := dialect.Oracle{}.Build(clause.SelectQuery{
		From:    users,
		Limit:   clause.LimitOf(1, 0),
		Locking: &clause.Locking{Strength: clause.LockingStrengthUpdate},
	})
	assert.True(t, errors.Is(err, dialect.ErrUnsupportedConstruct))
}

func TestSubqueryBindOrder(t *testing.T) {
	sub := clause.SelectQuery{
		Select: clause.Select{Columns: []clause.Column{{Name: "user_id"}}},
		From:   clause.From{Tables: []clause.Table{{Name: "orders"}}},
		Where:  clause.Where{Exprs: []clause.Expression{clause.Gte{Column: clause.Column{Name: "total"}, Value: 100}}},
		Limit:  clause.LimitOf(10, 20),
	}
	stmt := build(t, clause.SelectQuery{
		From: users,
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Eq{Column: clause.Column{Name: "active"}, Value: true},
			clause.IN{Column: clause.Column{Name: "id"}, Values: []interface{}{sub}},
			clause.Lt{Column: clause.Column{Name: "age"}, Value: 65},
		}},
	})

	assert.Equal(t,
		"SELECT * FROM users WHERE active = :1 AND id IN (SELECT user_id FROM (SELECT q_.*, ROWNUM AS RN_ FROM (SELECT user_id FROM orders WHERE total >= :2) q_ WHERE ROWNUM <= :3) WHERE RN_ > :4) AND age < :5",
		stmt.SQL)
	assertVars(t, []types.Value{
		types.BoolValue(true), types.BigIntValue(100), types.BigIntValue(30), types.BigIntValue(20), types.BigIntValue(65),
	}, stmt)
}

func TestInListChunking(t *testing.T) {
	values := make([]interface{}, clause.MaxInListSize+1)
	for i := range values {
		values[i] = i
	}
	stmt := build(t, clause.SelectQuery{From: users, Where: clause.Where{Exprs: []clause.Expression{clause.IN{Column: clause.Column{Name: "id"}, Values: values}}}})

	assert.True(t, strings.HasPrefix(stmt.SQL, "SELECT * FROM users WHERE (id IN (:1,:2,"))
	assert.True(t, strings.HasSuffix(stmt.SQL, ",:1000) OR id IN (:1001))"))
	assert.Len(t, stmt.Binds, clause.MaxInListSize+1)
}

func TestLiterals(t *testing.T) {
	stmt := build(t, clause.SelectQuery{
		From: users,
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Eq{Column: clause.Column{Name: "active"}, Value: clause.Literal{Value: types.BoolValue(true)}},
			clause.Expr{SQL: "born < ?", Vars: []interface{}{clause.Literal{Value: types.DateValue(testDay)}}},
			clause.Expr{SQL: "note = NVL(?, 'x')", Vars: []interface{}{nil}},
		}},
	})
	assert.Equal(t, "SELECT * FROM users WHERE active = 1 AND born < DATE '2024-03-09' AND note = NVL(NULL, 'x')", stmt.SQL)
	assert.Empty(t, stmt.Binds)
}

func TestBuildInsert(t *testing.T) {
	stmt := build(t, clause.InsertQuery{
		Insert: clause.Insert{Table: clause.Table{Name: "users"}},
		Values: clause.Values{
			Columns: []clause.Column{{Name: "name"}, {Name: "age"}},
			Values:  [][]interface{}{{"jinzhu", types.SmallIntValue(18)}},
		},
		Returning: clause.Returning{Columns: []clause.Column{{Name: "id", Type: types.BigInt}, {Name: "CreatedAt", Type: types.Timestamp}}},
	})
	assert.Equal(t, `INSERT INTO users (name,age) VALUES (:1,:2) RETURNING id,"CreatedAt" INTO :3,:4`, stmt.SQL)
	assertVars(t, []types.Value{types.TextValue("jinzhu"), types.SmallIntValue(18)}, stmt)
	assert.Equal(t, []dialect.ColumnSlot{{Name: "id", Type: types.BigInt}, {Name: "CreatedAt", Type: types.Timestamp}}, stmt.Returning)
	assert.False(t, stmt.ManyRows)

	stmt = build(t, clause.InsertQuery{
		Insert: clause.Insert{Table: clause.Table{Name: "users"}},
		Values: clause.Values{
			Columns: []clause.Column{{Name: "name"}, {Name: "age"}},
			Values:  [][]interface{}{{"a", 1}, {"b", 2}},
		},
	})
	assert.Equal(t, "INSERT INTO users (name,age) SELECT :1,:2 FROM DUAL UNION ALL SELECT :3,:4 FROM DUAL", stmt.SQL)
	assert.Len(t, stmt.Binds, 4)

	stmt = build(t, clause.InsertQuery{
		Insert: clause.Insert{Table: clause.Table{Name: "archive"}},
		Values: clause.Values{Columns: []clause.Column{{Name: "id"}}},
		Select: &clause.SelectQuery{Select: clause.Select{Columns: []clause.Column{{Name: "id"}}}, From: users},
	})
	assert.Equal(t, "INSERT INTO archive (id) SELECT id FROM users", stmt.SQL)
}

func TestBuildUpdateDelete(t *testing.T) {
	stmt := build(t, clause.UpdateQuery{
		Table: clause.Table{Name: "users"},
		Set:   clause.Set{{Column: clause.Column{Name: "name"}, Value: "x"}, {Column: clause.Column{Name: "Age"}, Value: 3}},
		Where: clause.Where{Exprs: []clause.Expression{clause.Eq{Column: clause.Column{Name: "id"}, Value: 1}}},
		Returning: clause.Returning{Columns: []clause.Column{{Name: "version", Type: types.Integer, NotNull: true}}},
	})
	assert.Equal(t, `UPDATE users SET name=:1,"Age"=:2 WHERE id = :3 RETURNING version INTO :4`, stmt.SQL)
	assert.Equal(t, []dialect.ColumnSlot{{Name: "version", Type: types.Integer, NotNull: true}}, stmt.Returning)
	assert.True(t, stmt.ManyRows)

	stmt = build(t, clause.DeleteQuery{
		Table: clause.Table{Name: "users"},
		Where: clause.Where{Exprs: []clause.Expression{dialect.SearchBlob("avatar", "PNG")}},
	})
	assert.Equal(t, "DELETE FROM users WHERE dbms_lob.instr(avatar, utl_raw.cast_to_raw(:1), 1, 1) > 0", stmt.SQL)
	assert.True(t, stmt.ManyRows)
}

func TestBuildRaw(t *testing.T) {
	stmt := build(t, clause.RawQuery{
		SQL:     "SELECT table_name FROM user_tables WHERE table_name = ?",
		Vars:    []interface{}{"USERS"},
		Columns: []clause.Column{{Name: "TABLE_NAME", Type: types.Text}},
		NoCache: true,
	})
	assert.Equal(t, "SELECT table_name FROM user_tables WHERE table_name = :1", stmt.SQL)
	assert.True(t, stmt.NoCache)
	assert.Equal(t, []dialect.ColumnSlot{{Name: "TABLE_NAME", Type: types.Text}}, stmt.Columns)
}

func TestUnsupportedConstructs(t *testing.T) {
	results := []struct {
		Construct string
		Query     clause.Query
	}{
		{"FOR SHARE", clause.SelectQuery{From: users, Locking: &clause.Locking{Strength: clause.LockingStrengthShare}}},
		{"ON CONFLICT", clause.InsertQuery{
			Insert:     clause.Insert{Table: clause.Table{Name: "users"}},
			Values:     clause.Values{Columns: []clause.Column{{Name: "id"}}, Values: [][]interface{}{{1}}},
			OnConflict: &clause.OnConflict{DoNothing: true},
		}},
		{"RETURNING", clause.InsertQuery{
			Insert:    clause.Insert{Table: clause.Table{Name: "users"}},
			Values:    clause.Values{Columns: []clause.Column{{Name: "id"}}, Values: [][]interface{}{{1}}},
			Returning: clause.Returning{Columns: []clause.Column{{Name: "id"}}},
		}},
		{"RETURNING", clause.InsertQuery{
			Insert:    clause.Insert{Table: clause.Table{Name: "users"}},
			Values:    clause.Values{Columns: []clause.Column{{Name: "id"}}, Values: [][]interface{}{{1}, {2}}},
			Returning: clause.Returning{Columns: []clause.Column{{Name: "id", Type: types.BigInt}}},
		}},
		{"VALUES", clause.InsertQuery{Insert: clause.Insert{Table: clause.Table{Name: "users"}}}},
		{"WHERE", clause.SelectQuery{From: users, Where: clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "a = ? AND b = ?", Vars: []interface{}{1}}}}}},
		{"WHERE", clause.SelectQuery{From: users, Where: clause.Where{Exprs: []clause.Expression{clause.Eq{Column: clause.Column{Name: "a"}, Value: struct{}{}}}}}},
		{"SET", clause.UpdateQuery{Table: clause.Table{Name: "users"}}},
		{"SUBQUERY", clause.SelectQuery{From: users, Where: clause.Where{Exprs: []clause.Expression{
			clause.IN{Column: clause.Column{Name: "id"}, Values: []interface{}{clause.DeleteQuery{Table: clause.Table{Name: "x"}}}},
		}}}},
	}

	for _, result := range results {
		_, err := dialect.Oracle{}.Build(result.Query)
		require.Error(t, err, result.Construct)
		assert.True(t, errors.Is(err, dialect.ErrUnsupportedConstruct), err.Error())

		var unsupported *dialect.UnsupportedConstructError
		if assert.True(t, errors.As(err, &unsupported)) {
			assert.Equal(t, result.Construct, unsupported.Construct, err.Error())
		}
	}

	_, err := dialect.Oracle{}.Build(nil)
	assert.True(t, errors.Is(err, dialect.ErrUnsupportedConstruct))
}

func TestShortName(t *testing.T) {
	assert.Equal(t, "SHORT_NAME", dialect.ShortName("SHORT_NAME"))

	long := strings.Repeat("A", 40)
	short := dialect.ShortName(long)
	assert.Len(t, short, dialect.MaxIdentifierLength)
	assert.True(t, strings.HasPrefix(short, strings.Repeat("A", 21)+"_"))
	assert.NotEqual(t, short, dialect.ShortName(strings.Repeat("A", 39)+"B"))
}

func TestDataTypeOf(t *testing.T) {
	assert.Equal(t, "NUMBER(1)", dialect.DataTypeOf(types.Bool, 0))
	assert.Equal(t, "VARCHAR2(100 CHAR)", dialect.DataTypeOf(types.Text, 100))
	assert.Equal(t, "CLOB", dialect.DataTypeOf(types.Text, 0))
	assert.Equal(t, "RAW(16)", dialect.DataTypeOf(types.Binary, 16))
	assert.Equal(t, "TIMESTAMP WITH TIME ZONE", dialect.DataTypeOf(types.TimestampTZ, 0))
	assert.Equal(t, "", dialect.DataTypeOf(types.Unknown, 0))
}
