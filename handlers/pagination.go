package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/satheesh067/Flight-Price-Prediction/store"
)

const (
	MaxLimit         = 200
	NextCursorHeader = "X-Next-Cursor"
)

var errBadCursor = errors.New("before must be an RFC3339 timestamp, optionally followed by _<id>")

// ParsePagination reads ?limit= and ?before=. Without a limit the whole
// history is returned; a limit above MaxLimit is clamped.
func ParsePagination(c *gin.Context) (store.Page, error) {
	var p store.Page

	if limitStr := c.Query("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l <= 0 {
			return p, errors.New("limit must be a positive integer")
		}
		p.Limit = l
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}

	if beforeStr := c.Query("before"); beforeStr != "" {
		t, id, err := ParseCursor(beforeStr)
		if err != nil {
			return p, err
		}
		p.Before = &t
		p.BeforeID = id
	}

	return p, nil
}

// FormatCursor encodes the last row of a page as "<RFC3339Nano>_<id>".
func FormatCursor(ts time.Time, id uint) string {
	return fmt.Sprintf("%s_%d", ts.UTC().Format(time.RFC3339Nano), id)
}

// ParseCursor accepts the output of FormatCursor or a bare RFC3339 timestamp,
// in which case the returned id is zero.
func ParseCursor(s string) (time.Time, uint, error) {
	tsPart, idPart, hasID := strings.Cut(s, "_")

	t, err := time.Parse(time.RFC3339Nano, tsPart)
	if err != nil {
		return time.Time{}, 0, errBadCursor
	}
	if !hasID {
		return t, 0, nil
	}
	id, err := strconv.ParseUint(idPart, 10, 64)
	if err != nil || id == 0 {
		return time.Time{}, 0, errBadCursor
	}
	return t, uint(id), nil
}
