package domain

// CartLine is an immutable snapshot of one cart entry, taken at
// order-creation time.
type CartLine struct {
	ItemID    string  `json:"itemId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// OrderRequest is the payload submitted to the Order Service. It is
// constructed once by the checkout core and never mutated afterwards.
type OrderRequest struct {
	CustomerName  string        `json:"customerName"`
	PhoneNumber   string        `json:"phoneNumber"`
	CartItems     []CartLine    `json:"cartItems"`
	Subtotal      float64       `json:"subtotal"`
	Tax           float64       `json:"tax"`
	GrandTotal    float64       `json:"grandTotal"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
}

// Order is the server-assigned order record. The backend owns it; the
// checkout core only ever holds a read-only copy.
type Order struct {
	OrderID       string        `json:"orderId"`
	CustomerName  string        `json:"customerName"`
	PhoneNumber   string        `json:"phoneNumber"`
	CartItems     []CartLine    `json:"cartItems"`
	Subtotal      float64       `json:"subtotal"`
	Tax           float64       `json:"tax"`
	GrandTotal    float64       `json:"grandTotal"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Status        OrderStatus   `json:"status"`
}

// PaymentIntentRef identifies one gateway-side payment intent. The client
// secret is single use: a retry must request a fresh intent, never reuse one.
type PaymentIntentRef struct {
	GatewayIntentID string `json:"gatewayIntentId"`
	ClientSecret    string `json:"clientSecret"`
}

// PaymentDetails is the verified payment snapshot attached to a settled
// order.
type PaymentDetails struct {
	GatewayIntentID        string `json:"gatewayPaymentIntentId"`
	GatewayPaymentMethodID string `json:"gatewayPaymentMethodId"`
	ClientSecret           string `json:"clientSecret"`
	Status                 string `json:"status"`
}
