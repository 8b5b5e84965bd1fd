package habitlog

type SetStatusRequest struct {
	Date   string `json:"date" validate:"required"`
	Status Status `json:"status" validate:"required"`
}
