package core

import (
	"fmt"
	"strings"
	"time"
)

// ValidateQuery checks that a query carries some text.
func ValidateQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return ErrEmptyQuery
	}
	return nil
}

// ValidateColumn checks a column's shape and that its values agree with its kind.
func ValidateColumn(col *Column) error {
	if col == nil {
		return fmt.Errorf("%w: column is nil", ErrInvalidColumn)
	}
	if col.Name == "" {
		return fmt.Errorf("%w: column name cannot be empty", ErrInvalidColumn)
	}
	for i, v := range col.Values {
		if v == nil {
			continue
		}
		ok := true
		switch col.Kind {
		case KindTextual:
			_, ok = v.(string)
		case KindInteger:
			_, ok = v.(int64)
		case KindFloat:
			_, ok = v.(float64)
		case KindDate:
			_, ok = v.(time.Time)
		}
		if !ok {
			return fmt.Errorf("%w: %q row %d holds %T for kind %s", ErrInvalidColumn, col.Name, i, v, col.Kind)
		}
	}
	return nil
}
