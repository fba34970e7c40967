package losautomation

import (
	"time"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
	"github.com/m04kA/SMC-RestrictionService/internal/service/losautomation/models"
)

// Service расчёт LOS-ограничений по доступности юнитов. Не обращается к хранилищу.
type Service struct {
	logger Logger
}

// NewService создает новый экземпляр сервиса
func NewService(logger Logger) *Service {
	return &Service{logger: logger}
}

// Compute рассчитывает по одному CTA-исключению с minLength/maxLength на каждую дату окна.
// Дата без доступных юнитов получает maxLength = 0, чтобы заменить прежний расчёт.
func (s *Service) Compute(in *models.Input) *models.Output {
	window := domain.EachDay(in.From, in.To)
	out := &models.Output{
		Restrictions: make([]*domain.Restriction, 0, len(window)),
		DatesTotal:   len(window),
	}
	if len(window) == 0 {
		return out
	}

	blocked := make([]bool, len(window))
	for i, d := range window {
		blocked[i] = closedToStay(in.Restrictions, in.RoomProductID, d)
	}

	units := make([][]bool, 0, len(in.Units))
	for _, unit := range in.Units {
		available := make([]bool, len(window))
		for i, d := range window {
			available[i] = unit.IsAvailable(d) && !blocked[i]
		}
		units = append(units, available)
	}

	maxStays := MaxAcrossUnits(units, len(window))

	for i, d := range window {
		if maxStays[i] == 0 {
			out.DatesUnavailable++
		}

		decision := GapFill(in.Settings, maxStays[i], manualMinLength(in.Restrictions, in.RoomProductID, d))
		out.Restrictions = append(out.Restrictions, s.restrictionFor(in, d, decision))
	}

	s.logger.Info("Compute: hotel=%s roomProduct=%s dates=%d emitted=%d unavailable=%d",
		in.HotelID, in.RoomProductID, out.DatesTotal, len(out.Restrictions), out.DatesUnavailable)

	return out
}

func (s *Service) restrictionFor(in *models.Input, date time.Time, decision Decision) *domain.Restriction {
	r := &domain.Restriction{
		HotelID:        in.HotelID,
		RoomProductIDs: []string{in.RoomProductID},
		FromDate:       date,
		ToDate:         date,
		Weekdays:       domain.NormalizeWeekdays(nil),
		Type:           domain.ClosedToArrival,
	}

	minLength, maxLength := decision.MinLength, decision.MaxLength
	r.Set(domain.FieldMinLength, &minLength)
	r.SetSource(domain.FieldMinLength, decision.MinSource)
	r.Set(domain.FieldMaxLength, &maxLength)
	r.SetSource(domain.FieldMaxLength, decision.MaxSource)

	if in.Settings.MinAdv != nil {
		r.Set(domain.FieldMinAdv, in.Settings.MinAdv)
		r.SetSource(domain.FieldMinAdv, domain.SourceDefault)
	}
	if in.Settings.MaxAdv != nil {
		r.Set(domain.FieldMaxAdv, in.Settings.MaxAdv)
		r.SetSource(domain.FieldMaxAdv, domain.SourceDefault)
	}

	return r
}

// closedToStay true, если дату закрывает чистый CTS уровня отеля или room product
func closedToStay(rows []*domain.Restriction, roomProductID string, date time.Time) bool {
	for _, r := range rows {
		if r.Type != domain.ClosedToStay || !r.IsPureBlocking() || len(r.RatePlanIDs) > 0 {
			continue
		}
		if len(r.RoomProductIDs) > 0 && !domain.ContainsID(r.RoomProductIDs, roomProductID) {
			continue
		}
		if r.Covers(date) {
			return true
		}
	}
	return false
}

// manualMinLength самый строгий ручной minLength room product на дату
func manualMinLength(rows []*domain.Restriction, roomProductID string, date time.Time) *int {
	var manual *int
	for _, r := range rows {
		if r.MinLength == nil || r.SourceOf(domain.FieldMinLength) != domain.SourceManual {
			continue
		}
		if r.Level() != domain.LevelRoomProduct || !domain.SameIDSet(r.RoomProductIDs, []string{roomProductID}) {
			continue
		}
		if !r.Covers(date) {
			continue
		}
		if manual == nil || *r.MinLength > *manual {
			manual = r.MinLength
		}
	}
	return manual
}
