package run_los_automation

import "github.com/m04kA/SMC-RestrictionService/pkg/jobrun"

// Request модель запроса пересчёта LOS.
// Пустые даты означают окно от сегодня на windowDays дней.
type Request struct {
	HotelID        string   `json:"-"`
	RoomProductIDs []string `json:"roomProductIds,omitempty"` // Пусто = все с включённой автоматизацией
	FromDate       string   `json:"fromDate,omitempty"`
	ToDate         string   `json:"toDate,omitempty"`
}

// RoomProductResult итог по одному room product
type RoomProductResult struct {
	RoomProductID    string `json:"roomProductId"`
	Outcome          string `json:"outcome"`
	Emitted          int    `json:"emitted"`
	DatesUnavailable int    `json:"datesUnavailable"`
	Created          int    `json:"created"`
	Error            string `json:"error,omitempty"`
}

// Response модель ответа
type Response struct {
	HotelID      string              `json:"hotelId"`
	FromDate     string              `json:"fromDate,omitempty"`
	ToDate       string              `json:"toDate,omitempty"`
	RoomProducts []RoomProductResult `json:"roomProducts"`
}

// JobResponse итог ночного пересчёта по отелям
type JobResponse struct {
	Report *jobrun.Report[string]
}
