package models

import (
	"strconv"
	"strings"
)

// Helpers for the comma-separated ID lists stored on several records
// (chat participants, watched lessons, likers, completed courses).

func ParseIDList(s string) []uint {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(n))
	}
	return ids
}

func JoinIDList(ids []uint) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatUint(uint64(id), 10))
	}
	return strings.Join(parts, ",")
}

func IDListContains(s string, id uint) bool {
	for _, v := range ParseIDList(s) {
		if v == id {
			return true
		}
	}
	return false
}

// AppendID adds id to the list if absent and returns the new list.
func AppendID(s string, id uint) string {
	if IDListContains(s, id) {
		return s
	}
	return JoinIDList(append(ParseIDList(s), id))
}

// RemoveID drops id from the list and returns the new list.
func RemoveID(s string, id uint) string {
	ids := ParseIDList(s)
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return JoinIDList(out)
}
