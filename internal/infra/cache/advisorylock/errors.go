package advisorylock

import "errors"

var (
	// ErrEmptyKey возвращается при попытке взять блокировку без ключа
	ErrEmptyKey = errors.New("advisorylock: empty key")

	// ErrCache возвращается при ошибке обращения к Redis
	ErrCache = errors.New("advisorylock: cache error")
)
