package pmsadapter

// RestrictionRecord нормализованная запись ограничения на одну дату для одного тарифа PMS
type RestrictionRecord struct {
	RoomProductID       string `json:"room_product_id"`
	RatePlanID          string `json:"rate_plan_id"`
	PmsCode             string `json:"pms_code,omitempty"`
	Date                string `json:"date"` // YYYY-MM-DD
	Type                string `json:"type"`
	MinLength           *int   `json:"min_length,omitempty"`
	MaxLength           *int   `json:"max_length,omitempty"`
	MinAdv              *int   `json:"min_adv,omitempty"`
	MaxAdv              *int   `json:"max_adv,omitempty"`
	MinLosThrough       *int   `json:"min_los_through,omitempty"`
	MaxReservationCount *int   `json:"max_reservation_count,omitempty"`
}

// PushRequest тело запроса отправки ограничений в PMS
type PushRequest struct {
	Records []RestrictionRecord `json:"records"`
}

// PushResponse ответ PMS-адаптера на отправку
type PushResponse struct {
	Accepted int `json:"accepted"`
}

// PulledRestriction ограничение, полученное из PMS
type PulledRestriction struct {
	RoomProductIDs      []string `json:"room_product_ids,omitempty"`
	RatePlanIDs         []string `json:"rate_plan_ids,omitempty"`
	FromDate            string   `json:"from_date"`
	ToDate              string   `json:"to_date"`
	Weekdays            []string `json:"weekdays,omitempty"`
	Type                string   `json:"type"`
	MinLength           *int     `json:"min_length,omitempty"`
	MaxLength           *int     `json:"max_length,omitempty"`
	MinAdv              *int     `json:"min_adv,omitempty"`
	MaxAdv              *int     `json:"max_adv,omitempty"`
	MinLosThrough       *int     `json:"min_los_through,omitempty"`
	MaxReservationCount *int     `json:"max_reservation_count,omitempty"`
}

// PullResponse ответ PMS-адаптера на запрос ограничений
type PullResponse struct {
	Restrictions []PulledRestriction `json:"restrictions"`
}

// RatePlanMapping связь room product и тарифа с кодом в PMS
type RatePlanMapping struct {
	RoomProductID string `json:"room_product_id"`
	RatePlanID    string `json:"rate_plan_id"`
	PmsCode       string `json:"pms_code"`
}

// MappingsResponse ответ со списком тарифов отеля
type MappingsResponse struct {
	Mappings []RatePlanMapping `json:"mappings"`
}

// ErrorResponse модель ошибки от PMS-адаптера
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
