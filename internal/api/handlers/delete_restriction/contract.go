package delete_restriction

import "context"

type RestrictionService interface {
	DeleteRestriction(ctx context.Context, hotelID, id string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
