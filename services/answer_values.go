package services

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Submitted answers arrive as decoded JSON: a string, a number or a list of either.

func textAnswer(raw interface{}) (string, error) {
	switch v := raw.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []interface{}:
		if len(v) == 0 {
			return "", nil
		}
		return textAnswer(v[0])
	}
	return "", newError(ErrInvalidInput, "text answer must be a string")
}

func integerAnswer(raw interface{}) (int64, error) {
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) || v >= 1<<63 || v < math.MinInt64 {
			return 0, newError(ErrInvalidInput, "answer must be a whole number")
		}
		return int64(v), nil
	case json.Number:
		return integerAnswer(string(v))
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, newError(ErrInvalidInput, "answer must be a whole number")
		}
		return n, nil
	case []interface{}:
		if len(v) == 1 {
			return integerAnswer(v[0])
		}
	}
	return 0, newError(ErrInvalidInput, "answer must be a whole number")
}

func optionIDAnswer(raw interface{}) (uint, error) {
	switch v := raw.(type) {
	case float64:
		if v <= 0 || v != math.Trunc(v) || v > math.MaxUint32 {
			return 0, newError(ErrInvalidInput, "invalid option id")
		}
		return uint(v), nil
	case json.Number:
		n, err := strconv.ParseUint(string(v), 10, 64)
		if err != nil || n == 0 {
			return 0, newError(ErrInvalidInput, "invalid option id")
		}
		return uint(n), nil
	}
	return 0, newError(ErrInvalidInput, "option ids must be numeric")
}

// optionAnswers returns the selected option ids without duplicates, in submission order.
func optionAnswers(raw interface{}) ([]uint, error) {
	var items []interface{}
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []interface{}:
		items = v
	default:
		items = []interface{}{v}
	}
	ids := make([]uint, 0, len(items))
	seen := make(map[uint]bool, len(items))
	for _, item := range items {
		id, err := optionIDAnswer(item)
		if err != nil {
			return nil, err
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}
