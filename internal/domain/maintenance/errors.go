package maintenance

import "errors"

var ErrRecordNotFound = errors.New("maintenance record not found")
