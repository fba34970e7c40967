package derived

import "errors"

var (
	// ErrInternal возвращается при ошибке чтения хранилища
	ErrInternal = errors.New("derived: internal error")
)
