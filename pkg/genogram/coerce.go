package genogram

import (
	"math"
	"strconv"
	"strings"

	"github.com/caredx/genogram/internal/util"
)

// Extraction output is loosely typed: numbers arrive as strings, booleans as
// "true"/1, and the same attribute under several key spellings. The helpers
// below read the first usable value among the given keys.

func lookup(rec Record, keys ...string) (any, bool) {
	if rec == nil {
		return nil, false
	}
	for _, k := range keys {
		if v, ok := rec[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func getString(rec Record, keys ...string) string {
	for _, k := range keys {
		v, ok := lookup(rec, k)
		if !ok {
			continue
		}
		var s string
		switch t := v.(type) {
		case string:
			s = t
		case float64:
			s = strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			s = strconv.FormatBool(t)
		default:
			continue
		}
		s = util.CleanText(s)
		if s != "" {
			return s
		}
	}
	return ""
}

func getBool(rec Record, keys ...string) (bool, bool) {
	for _, k := range keys {
		v, ok := lookup(rec, k)
		if !ok {
			continue
		}
		switch t := v.(type) {
		case bool:
			return t, true
		case float64:
			return t != 0, true
		case string:
			switch strings.ToLower(strings.TrimSpace(t)) {
			case "true", "yes", "1", "はい":
				return true, true
			case "false", "no", "0", "いいえ":
				return false, true
			}
		}
	}
	return false, false
}

func getInt(rec Record, keys ...string) (int, bool) {
	for _, k := range keys {
		v, ok := lookup(rec, k)
		if !ok {
			continue
		}
		switch t := v.(type) {
		case int:
			return t, true
		case float64:
			if !math.IsNaN(t) && !math.IsInf(t, 0) {
				return int(math.Round(t)), true
			}
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

func getFloat(rec Record, key string) (float64, bool) {
	v, ok := lookup(rec, key)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case int:
		return float64(t), true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func getRecord(rec Record, keys ...string) Record {
	v, ok := lookup(rec, keys...)
	if !ok {
		return nil
	}
	r, _ := v.(map[string]any)
	return r
}

func getStringList(rec Record, keys ...string) []string {
	v, ok := lookup(rec, keys...)
	if !ok {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		switch t := item.(type) {
		case string:
			if s := util.CleanText(t); s != "" {
				out = append(out, s)
			}
		case float64:
			out = append(out, strconv.FormatFloat(t, 'f', -1, 64))
		}
	}
	return out
}
