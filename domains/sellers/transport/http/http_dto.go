package httptransport

type SellerDTO struct {
	SellerID     string `json:"seller_id"`
	StoreName    string `json:"store_name"`
	Status       string `json:"status"`
	CatalogCount int    `json:"catalog_count"`
	CreatedAt    string `json:"created_at"`
	ActivatedAt  string `json:"activated_at,omitempty"`
}

type RegisterSellerRequest struct {
	StoreName string `json:"store_name"`
}

type RegisterSellerResponse struct {
	Seller SellerDTO `json:"seller"`
}

type ActivateSellerResponse struct {
	Seller  SellerDTO `json:"seller"`
	EventID string    `json:"event_id"`
}

type GetSellerResponse struct {
	Seller SellerDTO `json:"seller"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
