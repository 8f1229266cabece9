package pkg

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/simp-lee/fieldops/internal/domain"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// reservedParams lists query parameter names used for pagination, sorting and
// expansion, not for filtering.
var reservedParams = map[string]bool{
	"page":      true,
	"pageSize":  true,
	"page_size": true,
	"skip":      true,
	"take":      true,
	"sort":      true,
	"expanded":  true,
}

// validFieldName matches identifiers, optionally dotted (relation.Field).
var validFieldName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z_][a-zA-Z0-9_]*)*$`)

// ValidFieldName reports whether s is safe to use as a column or relation name.
func ValidFieldName(s string) bool {
	return validFieldName.MatchString(s)
}

// IsReservedParam reports whether key is a pagination/sort/expand parameter.
func IsReservedParam(key string) bool {
	return reservedParams[key]
}

// ParsePagination extracts pagination options from parsed query params.
// Malformed or negative values are ignored; page size is capped at MaxPageSize.
func ParsePagination(params map[string]any) domain.PaginationOptions {
	var opts domain.PaginationOptions

	opts.Page = positiveInt(FirstValue(params["page"]))
	size := FirstValue(params["pageSize"])
	if size == "" {
		size = FirstValue(params["page_size"])
	}
	opts.PageSize = min(positiveInt(size), MaxPageSize)
	opts.Skip = positiveInt(FirstValue(params["skip"]))
	opts.Take = min(positiveInt(FirstValue(params["take"])), MaxPageSize)

	if opts.Page > 0 && opts.PageSize == 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.PageSize > 0 && opts.Page == 0 {
		opts.Page = DefaultPage
	}
	return opts
}

// ParseSort parses a "field:direction" sort expression. Only fields in allowed
// are accepted; direction must be asc or desc.
func ParseSort(expr string, allowed []string) (field string, desc bool, ok bool) {
	parts := strings.SplitN(expr, ":", 2)
	field = strings.TrimSpace(parts[0])
	direction := "asc"
	if len(parts) == 2 {
		direction = strings.ToLower(strings.TrimSpace(parts[1]))
	}

	if direction != "asc" && direction != "desc" {
		return "", false, false
	}
	if !ValidFieldName(field) || !slices.Contains(allowed, field) {
		return "", false, false
	}
	return field, direction == "desc", true
}

// Filters maps query params to column equality conditions.
// allowed maps a query key to its column; keys not in allowed are ignored,
// as are empty values and reserved params. Values for id and *_id columns are
// passed as integers when they parse as one.
func Filters(params map[string]any, allowed map[string]string) map[string]any {
	where := make(map[string]any)
	for key, raw := range params {
		if IsReservedParam(key) {
			continue
		}
		column, ok := allowed[key]
		if !ok || !ValidFieldName(column) {
			continue
		}
		value := FirstValue(raw)
		if value == "" {
			continue
		}
		where[column] = value
		if column == "id" || strings.HasSuffix(column, "_id") {
			if n, err := strconv.ParseUint(value, 10, 64); err == nil {
				where[column] = n
			}
		}
	}
	return where
}

// Window returns a GORM scope that applies OFFSET and LIMIT.
// Non-positive values leave the query unbounded on that side.
func Window(skip, take int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if skip > 0 {
			db = db.Offset(skip)
		}
		if take > 0 {
			db = db.Limit(take)
		}
		return db
	}
}

// FirstValue returns v when it is a string, or its first element when it is a
// []string. Anything else yields "".
func FirstValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []string:
		if len(val) > 0 {
			return val[0]
		}
	}
	return ""
}

// ParseBool interprets a query value as a boolean flag.
func ParseBool(v any) bool {
	b, err := strconv.ParseBool(FirstValue(v))
	return err == nil && b
}

func positiveInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
