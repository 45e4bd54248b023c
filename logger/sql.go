package logger

import (
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/oci/types"
)

const (
	tmFmtWithMS = "2006-01-02 15:04:05.999999999"
	nullStr     = "NULL"
)

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func isPrintable(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		if r < ' ' && r != '\n' && r != '\t' && r != '\r' {
			return false
		}
	}
	return true
}

// formatVar renders one bind value the way it would read as an Oracle literal
func formatVar(v interface{}) string {
	if value, ok := v.(types.Value); ok {
		if value.IsStream() {
			return "'<lob>'"
		}
		v = value.Interface()
	} else if valuer, ok := v.(driver.Valuer); ok {
		v, _ = valuer.Value()
	}

	switch v := v.(type) {
	case nil:
		return nullStr
	case bool:
		if v {
			return "1"
		}
		return "0"
	case time.Time:
		if v.IsZero() {
			return quote("0000-00-00 00:00:00")
		}
		return "TIMESTAMP " + quote(v.Format(tmFmtWithMS))
	case *time.Time:
		if v == nil {
			return nullStr
		}
		return formatVar(*v)
	case []byte:
		if isPrintable(string(v)) {
			return quote(string(v))
		}
		return "HEXTORAW(" + quote(strings.ToUpper(hex.EncodeToString(v))) + ")"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return quote(v)
	case fmt.Stringer:
		return v.String()
	default:
		return quote(fmt.Sprint(v))
	}
}

// ExplainSQL replaces the :n placeholders of sql with the values of vars
// for display. Quoted text and placeholders without a value are left alone.
func ExplainSQL(sql string, vars ...interface{}) string {
	rendered := make([]string, len(vars))
	for idx, v := range vars {
		rendered[idx] = formatVar(v)
	}

	var (
		b       strings.Builder
		inQuote byte
	)
	b.Grow(len(sql))
	for i := 0; i < len(sql); i++ {
		c := sql[i]
		switch {
		case inQuote != 0:
			if c == inQuote {
				inQuote = 0
			}
		case c == '\'' || c == '"':
			inQuote = c
		case c == ':':
			j := i + 1
			for j < len(sql) && sql[j] >= '0' && sql[j] <= '9' {
				j++
			}
			if n, err := strconv.Atoi(sql[i+1 : j]); err == nil && n >= 1 && n <= len(rendered) {
				b.WriteString(rendered[n-1])
				i = j - 1
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}
