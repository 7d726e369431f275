// Package parameters handles generic configuration Params, a map[string]string that the
// user can set with a comma-separated string like "ab,margin=150ms,max_depth=4".
package parameters

import (
	"maps"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// Params represent generic configuration parameters.
type Params map[string]string

// Value is the set of types that can be parsed from a parameter.
type Value interface {
	bool | constraints.Integer | constraints.Float | string | time.Duration
}

// NewFromConfigString create params from user's configuration string.
// Empty parts are ignored, and a key without "=" is set to the empty string (true for bool values).
//
// See GetParamOr and PopParamOr to parse values from this map.
func NewFromConfigString(config string) Params {
	params := make(Params)
	for _, part := range strings.Split(config, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=") // Only the first '=' splits, values may contain '='.
		params[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return params
}

// PopParamOr is like GetParamOr, but it also deletes from the params map the retrieved parameter.
func PopParamOr[T Value](params Params, key string, defaultValue T) (T, error) {
	value, err := GetParamOr(params, key, defaultValue)
	if err != nil {
		return value, err
	}
	delete(params, key)
	return value, nil
}

// GetParamOr attempts to parse a parameter to the given type if the key is present, or returns the defaultValue
// if not.
//
// For bool types, a key without a value is interpreted as true. Durations use time.ParseDuration format,
// but a plain integer is taken as milliseconds.
func GetParamOr[T Value](params Params, key string, defaultValue T) (T, error) {
	value, exists := params[key]
	if !exists {
		return defaultValue, nil
	}
	var parsed any
	var err error
	switch any(defaultValue).(type) {
	case string:
		return any(value).(T), nil
	case bool:
		switch strings.ToLower(value) {
		case "", "true", "1":
			parsed = true
		case "false", "0":
			parsed = false
		default:
			err = errors.New("not a bool")
		}
	case time.Duration:
		if value == "" {
			return defaultValue, nil
		}
		var ms int64
		if ms, err = strconv.ParseInt(value, 10, 64); err == nil {
			parsed = time.Duration(ms) * time.Millisecond
		} else {
			parsed, err = time.ParseDuration(value)
		}
	default:
		// Integer and float types, including named ones.
		if value == "" {
			return defaultValue, nil
		}
		var t T
		rv := reflect.ValueOf(&t).Elem()
		switch rv.Kind() {
		case reflect.Float32, reflect.Float64:
			var f float64
			f, err = strconv.ParseFloat(value, rv.Type().Bits())
			rv.SetFloat(f)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			var u uint64
			u, err = strconv.ParseUint(value, 10, rv.Type().Bits())
			rv.SetUint(u)
		default:
			var i int64
			i, err = strconv.ParseInt(value, 10, rv.Type().Bits())
			rv.SetInt(i)
		}
		parsed = t
	}
	if err != nil {
		var t T
		return t, errors.Wrapf(err, "failed to parse configuration %s=%q as %T", key, value, defaultValue)
	}
	return parsed.(T), nil
}

// CheckAllUsed returns an error listing the keys left in params, sorted. It is meant to be called after all
// known parameters were retrieved with PopParamOr.
func CheckAllUsed(params Params) error {
	if len(params) == 0 {
		return nil
	}
	keys := slices.Sorted(maps.Keys(params))
	return errors.Errorf("unknown parameters \"%s\"", strings.Join(keys, "\", \""))
}
