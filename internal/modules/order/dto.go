package order

// CreateOrderRequest is the order placement payload. Layer coordinates are
// percentages of the product canvas.
type CreateOrderRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gte=1,lte=1000"`

	CustomText    *string  `json:"customText,omitempty" validate:"omitempty,max=500"`
	TextColor     *string  `json:"textColor,omitempty" validate:"omitempty,max=32"`
	TextPositionX *float64 `json:"textPositionX,omitempty" validate:"omitempty,gte=0,lte=100"`
	TextPositionY *float64 `json:"textPositionY,omitempty" validate:"omitempty,gte=0,lte=100"`
	TextWidth     *float64 `json:"textWidth,omitempty" validate:"omitempty,gte=0,lte=100"`
	TextHeight    *float64 `json:"textHeight,omitempty" validate:"omitempty,gte=0,lte=100"`

	CustomImage    *string  `json:"customImage,omitempty"`
	ImagePositionX *float64 `json:"imagePositionX,omitempty" validate:"omitempty,gte=0,lte=100"`
	ImagePositionY *float64 `json:"imagePositionY,omitempty" validate:"omitempty,gte=0,lte=100"`
	ImageWidth     *float64 `json:"imageWidth,omitempty" validate:"omitempty,gte=0,lte=100"`
	ImageHeight    *float64 `json:"imageHeight,omitempty" validate:"omitempty,gte=0,lte=100"`
}

type CreateOrderResponse struct {
	Message string  `json:"message"`
	OrderID int64   `json:"orderId"`
	Total   float64 `json:"total_amount"`
	Status  string  `json:"status"`
}

type RejectDesignRequest struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=1000"`
}

type PayRequest struct {
	PaymentMethod string `json:"paymentMethod" validate:"omitempty,max=32"`
}

type SetStatusRequest struct {
	Status string `json:"status"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type MessageResponse struct {
	Message string `json:"message"`
	Status  string `json:"status,omitempty"`
}
