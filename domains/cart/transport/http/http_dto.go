package httptransport

type CartItemDTO struct {
	ProductID      string `json:"product_id"`
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Currency       string `json:"currency"`
	Quantity       int    `json:"quantity"`
	AddedAt        string `json:"added_at"`
}

type CartDTO struct {
	CartID     string        `json:"cart_id"`
	BuyerID    string        `json:"buyer_id"`
	Items      []CartItemDTO `json:"items"`
	TotalCents int64         `json:"total_cents"`
	CreatedAt  string        `json:"created_at"`
	UpdatedAt  string        `json:"updated_at"`
}

type AddItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type AddItemResponse struct {
	Cart    CartDTO `json:"cart"`
	EventID string  `json:"event_id"`
}

type RemoveItemResponse struct {
	Cart CartDTO `json:"cart"`
}

type GetCartResponse struct {
	Cart CartDTO `json:"cart"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
