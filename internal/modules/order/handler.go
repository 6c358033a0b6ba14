package order

import (
	"net/http"
	"strconv"

	"designshop/internal/domain"
	"designshop/internal/middleware"
	"designshop/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the order API on an authenticated group. mutate is
// applied to every state-changing route (rate limiting).
func (h *Handler) RegisterRoutes(orders *gin.RouterGroup, mutate ...gin.HandlerFunc) {
	write := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, mutate...), handler)
	}

	orders.POST("", write(h.Create)...)
	orders.GET("", h.MyOrders)
	orders.GET("/my-orders", h.MyOrders)
	orders.GET("/pending-design", h.PendingDesign)
	orders.GET("/pending-shipment", middleware.RequireManagement(), h.PendingShipment)
	orders.GET("/all", middleware.RequireManagement(), h.All)

	orders.GET("/:id", h.Get)
	orders.GET("/:id/status", h.Status)
	orders.GET("/:id/items", h.Items)
	orders.POST("/:id/approve-design", write(h.ApproveDesign)...)
	orders.POST("/:id/reject-design", write(h.RejectDesign)...)
	orders.POST("/:id/pay", write(h.Pay)...)
	orders.POST("/:id/ship", write(h.Ship)...)
	orders.PUT("/:id/status", write(h.SetStatus)...)
}

func orderID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.FromError(c, ErrInvalidOrderID)
		return 0, false
	}
	return id, true
}

// Create places a new order.
// @Summary		Place order
// @Description	Creates an order with one customized item. The order starts in pending_design.
// @Tags		Orders
// @Security	BearerAuth
// @Param		request	body	CreateOrderRequest	true	"Product, quantity and customization"
// @Success		200	{object}	map[string]interface{}
// @Failure		400	{object}	map[string]interface{} "Invalid order data"
// @Failure		404	{object}	map[string]interface{} "Product not found"
// @Router		/orders [POST]
func (h *Handler) Create(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, ErrInvalidOrderData)
		return
	}

	o, err := h.svc.Create(c.Request.Context(), middleware.CallerFrom(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, CreateOrderResponse{
		Message: "Order placed successfully",
		OrderID: o.ID,
		Total:   o.TotalAmount,
		Status:  string(o.Status),
	})
}

func (h *Handler) MyOrders(c *gin.Context) {
	out, err := h.svc.MyOrders(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) PendingDesign(c *gin.Context) {
	out, err := h.svc.PendingDesign(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) PendingShipment(c *gin.Context) {
	out, err := h.svc.PendingShipment(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) All(c *gin.Context) {
	out, err := h.svc.All(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	o, err := h.svc.Get(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, o)
}

func (h *Handler) Status(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	status, err := h.svc.Status(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, StatusResponse{Status: string(status)})
}

func (h *Handler) Items(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	items, err := h.svc.Items(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// ApproveDesign is the designer sign-off on a customization.
// @Summary		Approve design
// @Tags		Orders
// @Security	BearerAuth
// @Param		id	path	int	true	"Order ID"
// @Failure		400	{object}	map[string]interface{} "Order is not pending design review"
// @Failure		403	{object}	map[string]interface{} "Designer access required"
// @Router		/orders/{id}/approve-design [POST]
func (h *Handler) ApproveDesign(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	o, err := h.svc.ApproveDesign(c.Request.Context(), middleware.CallerFrom(c), id)
	h.transitioned(c, o, err, "Design approved")
}

// RejectDesign takes an optional reason.
// @Summary		Reject design
// @Tags		Orders
// @Security	BearerAuth
// @Param		id		path	int					true	"Order ID"
// @Param		request	body	RejectDesignRequest	false	"Reason"
// @Router		/orders/{id}/reject-design [POST]
func (h *Handler) RejectDesign(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req RejectDesignRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.FromError(c, domain.NewError(domain.ErrValidation, "Invalid request body"))
			return
		}
	}
	o, err := h.svc.RejectDesign(c.Request.Context(), middleware.CallerFrom(c), id, req.Reason)
	h.transitioned(c, o, err, "Design rejected")
}

// Pay accepts a payment method; "card" when omitted.
// @Summary		Pay for order
// @Tags		Orders
// @Security	BearerAuth
// @Param		id		path	int			true	"Order ID"
// @Param		request	body	PayRequest	false	"Payment method"
// @Failure		400	{object}	map[string]interface{} "Order is not ready for payment"
// @Failure		403	{object}	map[string]interface{} "Not your order"
// @Router		/orders/{id}/pay [POST]
func (h *Handler) Pay(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req PayRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.FromError(c, domain.NewError(domain.ErrValidation, "Invalid request body"))
			return
		}
	}
	o, err := h.svc.Pay(c.Request.Context(), middleware.CallerFrom(c), id, req.PaymentMethod)
	h.transitioned(c, o, err, "Payment successful")
}

// @Summary		Ship order
// @Tags		Orders
// @Security	BearerAuth
// @Param		id	path	int	true	"Order ID"
// @Failure		400	{object}	map[string]interface{} "Order is not ready for shipment"
// @Router		/orders/{id}/ship [POST]
func (h *Handler) Ship(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	o, err := h.svc.Ship(c.Request.Context(), middleware.CallerFrom(c), id)
	h.transitioned(c, o, err, "Order shipped")
}

// SetStatus overwrites the status regardless of the lifecycle.
// @Summary		Override order status
// @Tags		Orders
// @Security	BearerAuth
// @Param		id		path	int					true	"Order ID"
// @Param		request	body	SetStatusRequest	true	"Target status"
// @Router		/orders/{id}/status [PUT]
func (h *Handler) SetStatus(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, ErrInvalidStatus)
		return
	}
	o, err := h.svc.SetStatus(c.Request.Context(), middleware.CallerFrom(c), id, domain.OrderStatus(req.Status))
	h.transitioned(c, o, err, "Status updated")
}

func (h *Handler) transitioned(c *gin.Context, o *domain.Order, err error, msg string) {
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, MessageResponse{Message: msg, Status: string(o.Status)})
}
