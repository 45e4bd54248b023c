package main

import (
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/now"
	"github.com/shopspring/decimal"

	"gorm.io/oci/types"
)

// parseArgs turns command line bind values into values: integers, decimals,
// date and time literals, NULL and text. With raw every value is text.
func parseArgs(args []string, loc *time.Location, raw bool) []interface{} {
	vars := make([]interface{}, len(args))
	for idx, arg := range args {
		vars[idx] = parseArg(arg, loc, raw)
	}
	return vars
}

func parseArg(arg string, loc *time.Location, raw bool) interface{} {
	if raw {
		return types.TextValue(arg)
	}
	if strings.EqualFold(arg, "null") {
		return nil
	}
	if i, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return types.BigIntValue(i)
	}
	if d, err := decimal.NewFromString(arg); err == nil {
		return types.DecimalValue(d)
	}
	if strings.ContainsAny(arg, "-:") {
		if t, err := now.ParseInLocation(loc, arg); err == nil {
			return types.TimestampValue(t)
		}
	}
	return types.TextValue(arg)
}

// cell renders v for a table, reading LOBs to the end
func cell(v types.Value) string {
	if !v.IsStream() {
		return v.String()
	}
	if v.Tag() == types.Text {
		s, err := v.Text()
		if err != nil {
			return "<" + err.Error() + ">"
		}
		return s
	}
	b, err := v.Bytes()
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return hex.EncodeToString(b)
}
