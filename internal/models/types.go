package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList is a string slice persisted as a JSONB array
type StringList []string

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// Scan implements sql.Scanner
func (l *StringList) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	if out == nil {
		out = []string{}
	}
	*l = out
	return nil
}

// Contains reports whether s is in the list
func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}

// Page is a paginated list response
type Page[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

// PageMeta describes the position of a page within a result set
type PageMeta struct {
	Page     int `json:"page"`
	PerPage  int `json:"per_page"`
	Total    int `json:"total"`
	LastPage int `json:"last_page"`
}

// NewPage builds a page, computing the last page number
func NewPage[T any](data []T, page, perPage, total int) Page[T] {
	if data == nil {
		data = []T{}
	}
	lastPage := 1
	if perPage > 0 && total > 0 {
		lastPage = (total + perPage - 1) / perPage
	}
	return Page[T]{
		Data: data,
		Meta: PageMeta{Page: page, PerPage: perPage, Total: total, LastPage: lastPage},
	}
}

// Pagination is a normalized page request
type Pagination struct {
	Page    int
	PerPage int
}

// NewPagination clamps page to >= 1 and perPage to the given default when unset
func NewPagination(page, perPage, defaultPerPage int) Pagination {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = defaultPerPage
	}
	return Pagination{Page: page, PerPage: perPage}
}

// Offset returns the row offset for the page
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}
