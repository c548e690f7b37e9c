package inspection

import "errors"

var ErrInspectionNotFound = errors.New("inspection not found")
