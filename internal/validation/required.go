package validation

import (
	"errors"
	"fmt"
	"strings"
)

// ErrRequired marks a missing required field
var ErrRequired = errors.New("required field is empty")

// Field is a named user-supplied value
type Field struct {
	Name  string
	Value string
}

// Error lists every required field that was empty after trimming
type Error struct {
	Fields []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", ErrRequired, strings.Join(e.Fields, ", "))
}

// Is makes errors.Is(err, ErrRequired) hold for validation errors
func (e *Error) Is(target error) bool {
	return target == ErrRequired
}

// Required проверяет, что все поля непустые после TrimSpace
// Возвращает *Error с перечнем пустых полей в исходном порядке
func Required(fields ...Field) error {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.Value) == "" {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &Error{Fields: missing}
}
