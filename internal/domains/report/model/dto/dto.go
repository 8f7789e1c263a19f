package dto

type ExportBookingsRequest struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date"   validate:"required,datetime=2006-01-02"`
	Status    string `json:"status"     validate:"omitempty,oneof=confirmed cancelled"`
}

type ExportBookingsResponse struct {
	URL       string `json:"url"`
	ObjectKey string `json:"object_key"`
	Rows      int    `json:"rows"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}
