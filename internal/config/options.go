package config

import (
	"maps"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	FormatJSON    = "json"
	FormatMsgpack = "msgpack"
)

// enumOption maps accepted spellings of an option onto canonical values.
//
// A bidirectional table also accepts the canonical value's alternate form
// (for log levels, zap's numeric level) and maps it back to the name. Only
// canonical names are offered in error messages for such tables; other
// tables list every accepted spelling.
type enumOption struct {
	key           string
	table         map[string]string
	bidirectional bool
}

var formatOption = enumOption{
	key: "output.format",
	table: map[string]string{
		"json":    FormatJSON,
		"msgpack": FormatMsgpack,
		"mp":      FormatMsgpack,
	},
}

var levelOption = enumOption{
	key: "log.level",
	table: map[string]string{
		"debug": "debug",
		"info":  "info",
		"warn":  "warn",
		"error": "error",
		"-1":    "debug",
		"0":     "info",
		"1":     "warn",
		"2":     "error",
	},
	bidirectional: true,
}

func (o enumOption) resolve(value string) (string, error) {
	if canonical, ok := o.table[strings.ToLower(strings.TrimSpace(value))]; ok {
		return canonical, nil
	}
	return "", errors.WithHint(
		errors.Newf("%s: invalid value %q", o.key, value),
		"expected one of: "+strings.Join(o.validNames(), ", "))
}

// validNames lists what error messages offer, sorted.
func (o enumOption) validNames() []string {
	if o.bidirectional {
		return slices.Compact(slices.Sorted(maps.Values(o.table)))
	}
	return slices.Sorted(maps.Keys(o.table))
}
