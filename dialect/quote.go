package dialect

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxIdentifierLength is the identifier limit of Oracle releases before 12.2
const MaxIdentifierLength = 30

// casers are stateful, so each call gets its own
func toUpper(s string) string { return cases.Upper(language.Und).String(s) }

func toLower(s string) string { return cases.Lower(language.Und).String(s) }

// QuoteIdentifier renders one identifier.
//
// Reserved words are quoted in upper case. Names that are not valid unquoted
// identifiers, or that mix upper and lower case, are quoted verbatim so the
// case survives. Everything else is written as given and folded to upper
// case by the server.
func QuoteIdentifier(name string) string {
	if IsReservedWord(name) {
		return `"` + toUpper(name) + `"`
	}
	if needsQuote(name) {
		return `"` + name + `"`
	}
	return name
}

// CatalogName is name as the data dictionary stores it: names written
// unquoted are folded to upper case, quoted ones keep their case
func CatalogName(name string) string {
	if !IsReservedWord(name) && needsQuote(name) {
		return name
	}
	return toUpper(name)
}

func needsQuote(name string) bool {
	if name == "" {
		return true
	}
	for idx, r := range name {
		switch {
		case unicode.IsLetter(r):
		case idx > 0 && (unicode.IsDigit(r) || r == '_' || r == '$' || r == '#'):
		default:
			return true
		}
	}
	return name != toUpper(name) && name != toLower(name)
}

// validIdentifier reports whether name can be written at all
func validIdentifier(name string) bool {
	return name != "" && utf8.ValidString(name) && !strings.ContainsAny(name, "\"\x00")
}

var setupReserved sync.Once
var reservedWords map[string]struct{}

// IsReservedWord reports whether w is an Oracle reserved or keyword identifier
func IsReservedWord(w string) bool {
	setupReserved.Do(
		func() {
			words := strings.Split(reserved, "\n")
			reservedWords = make(map[string]struct{}, len(words))
			for _, s := range words {
				reservedWords[s] = struct{}{}
			}
		},
	)
	_, ok := reservedWords[toUpper(w)]
	return ok
}

const reserved = `ACCESS
ADD
AGGREGATE
AGGREGATES
ALL
ALLOW
ALTER
ANALYZE
ANCESTOR
AND
ANY
AS
ASC
AT
AUDIT
AVG
BETWEEN
BINARY_DOUBLE
BINARY_FLOAT
BLOB
BRANCH
BUILD
BY
BYTE
CASE
CAST
CHAR
CHECK
CHILD
CLEAR
CLOB
CLUSTER
COLUMN
COLUMN_VALUE
COMMENT
COMMIT
COMPILE
COMPRESS
CONNECT
CONSIDER
COUNT
CREATE
CURRENT
DATATYPE
DATE
DATE_MEASURE
DAY
DECIMAL
DEFAULT
DELETE
DESC
DESCENDANT
DIMENSION
DISALLOW
DISTINCT
DIVISION
DML
DROP
ELSE
END
ESCAPE
EXCLUSIVE
EXECUTE
EXISTS
FILE
FIRST
FLOAT
FOR
FROM
GRANT
GROUP
HAVING
HIERARCHIES
HIERARCHY
HOUR
IDENTIFIED
IGNORE
IMMEDIATE
IN
INCREMENT
INDEX
INFINITE
INITIAL
INSERT
INTEGER
INTERSECT
INTERVAL
INTO
IS
LAST
LEAF_DESCENDANT
LEAVES
LEVEL
LIKE
LIKE2
LIKE4
LIKEC
LOAD
LOCAL
LOCK
LOG_SPEC
LONG
MAINTAIN
MAX
MAXEXTENTS
MEASURE
MEASURES
MEMBER
MEMBERS
MERGE
MIN
MINUS
MINUTE
MLSLABEL
MODE
MODEL
MODIFY
MONTH
NAN
NCHAR
NCLOB
NESTED_TABLE_ID
NO
NOAUDIT
NOCOMPRESS
NONE
NOT
NOWAIT
NULL
NULLS
NUMBER
NVARCHAR2
OF
OFFLINE
OLAP
OLAP_DML_EXPRESSION
ON
ONLINE
ONLY
OPERATOR
OPTION
OR
ORDER
OVER
OVERFLOW
PARALLEL
PARENT
PCTFREE
PLSQL
PRIOR
PRUNE
PUBLIC
RAW
RELATIVE
RENAME
RESOURCE
REVOKE
ROOT_ANCESTOR
ROW
ROWID
ROWNUM
ROWS
SCN
SECOND
SELECT
SELF
SERIAL
SESSION
SET
SHARE
SIZE
SMALLINT
SOLVE
SOME
SORT
SPEC
START
SUCCESSFUL
SUM
SYNCH
SYNONYM
SYSDATE
TABLE
TEXT_MEASURE
THEN
TIME
TIMESTAMP
TO
TRIGGER
UID
UNBRANCH
UNION
UNIQUE
UPDATE
USER
USING
VALIDATE
VALUES
VARCHAR
VARCHAR2
VIEW
WHEN
WHENEVER
WHERE
WITH
WITHIN
YEAR
ZERO
ZONE`
