package merge

import "errors"

var (
	// ErrInvalidInput возвращается при некорректном кандидате
	ErrInvalidInput = errors.New("merge: invalid input")

	// ErrTooManyCandidates возвращается, если батч превышает допустимый размер
	ErrTooManyCandidates = errors.New("merge: too many candidates")

	// ErrInternal возвращается при ошибке чтения хранилища
	ErrInternal = errors.New("merge: internal error")
)
