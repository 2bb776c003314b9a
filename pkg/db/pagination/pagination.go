package pagination

import (
	"encoding/base64"
	"strconv"
	"strings"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Pagination carries opaque-token paging parameters through query binding.
type Pagination struct {
	PageToken string `form:"page_token" json:"page_token"`
	PageSize  int    `form:"page_size" json:"page_size"`
}

// Limit clamps the requested page size.
func (p Pagination) Limit() int {
	if p.PageSize <= 0 {
		return defaultPageSize
	}
	if p.PageSize > maxPageSize {
		return maxPageSize
	}
	return p.PageSize
}

// EncodeToken encodes a numeric cursor into an opaque page token.
func EncodeToken(cursor int64) string {
	if cursor <= 0 {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatInt(cursor, 10)))
}

// DecodeToken decodes an opaque page token back into a numeric cursor.
// Empty or malformed tokens decode to zero.
func DecodeToken(token string) int64 {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0
	}
	cursor, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil || cursor < 0 {
		return 0
	}
	return cursor
}
