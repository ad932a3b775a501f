package converter

// ProductRedisModel — закэшированный товар. Цена хранится строкой, чтобы не терять точность.
type ProductRedisModel struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CategoryName string `json:"category_name"`
	Price        string `json:"price"`
	ImageKey     string `json:"image_key,omitempty"`
	ImageURL     string `json:"image_url,omitempty"`
	IsFeatured   bool   `json:"is_featured"`
}

// CartRedisModel — снимок корзины сессии.
type CartRedisModel struct {
	SessionID string               `json:"session_id"`
	Version   int64                `json:"version"`
	Items     []LineItemRedisModel `json:"items"`
	Favorites []string             `json:"favorites"`
}

type LineItemRedisModel struct {
	Product  ProductRedisModel `json:"product"`
	Quantity int               `json:"quantity"`
}
