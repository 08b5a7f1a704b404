package types

// OrderItem is a line item snapshot captured at order time. Product name and
// price are frozen copies so later catalog edits do not rewrite history.
type OrderItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	ImageURL    *string `json:"image_url,omitempty"`
}

// OrderItems is the JSON-serialized item list stored on an order.
type OrderItems []OrderItem

// Total returns the sum of quantity times unit price across items.
func (items OrderItems) Total() float64 {
	var total float64
	for _, item := range items {
		total += float64(item.Quantity) * item.Price
	}
	return total
}
