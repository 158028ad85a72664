package httptransport

type BuyerDTO struct {
	BuyerID     string `json:"buyer_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   string `json:"created_at"`
}

type RegisterBuyerRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

type RegisterBuyerResponse struct {
	Buyer   BuyerDTO `json:"buyer"`
	EventID string   `json:"event_id"`
}

type GetBuyerResponse struct {
	Buyer BuyerDTO `json:"buyer"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
