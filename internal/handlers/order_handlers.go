package handlers

import (
	"net/http"

	"foodtruck_backend/internal/services"
	"foodtruck_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// OrderHandler serves checkout, POS and the admin order views.
type OrderHandler struct {
	orderService     services.OrderService
	prepQueueService services.PrepQueueService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService services.OrderService, prepQueueService services.PrepQueueService) *OrderHandler {
	return &OrderHandler{orderService: orderService, prepQueueService: prepQueueService}
}

type terminalIDRequest struct {
	ID string `json:"id"`
}

// --- Public ---

// Checkout starts an online payment for a customer cart.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidJSON(c, err)
		return
	}

	resp, err := h.orderService.Checkout(c.Request.Context(), req, requestOrigin(c))
	if err != nil {
		respondServiceError(c, err, "Failed to create checkout session.")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"orderId":      resp.OrderID,
		"clientSecret": resp.ClientSecret,
		"checkoutUrl":  resp.CheckoutURL,
	})
}

// GetOrderBySession is the customer's post-payment lookup.
func (h *OrderHandler) GetOrderBySession(c *gin.Context) {
	sessionID := c.Query("session_id")
	if utils.IsEmpty(sessionID) {
		utils.RespondValidationFailed(c, "Missing session_id parameter")
		return
	}

	order, err := h.orderService.GetBySessionID(c.Request.Context(), sessionID)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch order.")
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) GetPaymentConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.orderService.PaymentConfig())
}

// --- POS ---

func (h *OrderHandler) CreatePosOrder(c *gin.Context) {
	var req services.PosOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidJSON(c, err)
		return
	}
	if len(req.Items) == 0 {
		utils.RespondValidationFailed(c, "No items in order")
		return
	}

	order, err := h.orderService.CreatePosOrder(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "Failed to create order.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

func (h *OrderHandler) CreatePosPaymentIntent(c *gin.Context) {
	var req services.PosPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidJSON(c, err)
		return
	}
	if len(req.Items) == 0 {
		utils.RespondValidationFailed(c, "No items in order")
		return
	}

	resp, err := h.orderService.CreatePosCardPayment(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "Failed to create payment.")
		return
	}
	body := gin.H{"success": true, "orderId": resp.OrderID}
	if resp.ClientSecret != "" {
		body["clientSecret"] = resp.ClientSecret
	}
	if resp.Order != nil {
		body["order"] = resp.Order
	}
	c.JSON(http.StatusOK, body)
}

func (h *OrderHandler) CreatePosCheckoutLink(c *gin.Context) {
	var req services.PosPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidJSON(c, err)
		return
	}
	if len(req.Items) == 0 {
		utils.RespondValidationFailed(c, "No items in order")
		return
	}

	resp, err := h.orderService.CreatePosCheckoutLink(c.Request.Context(), req, requestOrigin(c))
	if err != nil {
		respondServiceError(c, err, "Failed to create checkout link.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orderId": resp.OrderID, "checkoutUrl": resp.CheckoutURL})
}

func (h *OrderHandler) CreateTerminalIntent(c *gin.Context) {
	var req services.PosPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidJSON(c, err)
		return
	}
	if len(req.Items) == 0 {
		utils.RespondValidationFailed(c, "No items in order")
		return
	}

	resp, err := h.orderService.CreateTerminalPayment(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "Failed to create terminal payment.")
		return
	}
	body := gin.H{"success": true, "orderId": resp.OrderID, "terminalPaymentId": resp.TerminalPaymentID}
	if resp.ClientSecret != "" {
		body["clientSecret"] = resp.ClientSecret
	}
	c.JSON(http.StatusOK, body)
}

func (h *OrderHandler) GetTerminalStatus(c *gin.Context) {
	id := c.Query("id")
	if utils.IsEmpty(id) {
		utils.RespondValidationFailed(c, "Missing id parameter")
		return
	}

	status, err := h.orderService.GetTerminalStatus(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch terminal status.")
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *OrderHandler) CancelTerminalPayment(c *gin.Context) {
	var req terminalIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidJSON(c, err)
		return
	}
	if utils.IsEmpty(req.ID) {
		utils.RespondValidationFailed(c, "Missing id")
		return
	}

	if err := h.orderService.CancelTerminalPayment(c.Request.Context(), req.ID); err != nil {
		respondServiceError(c, err, "Failed to cancel terminal payment.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *OrderHandler) CreateConnectionToken(c *gin.Context) {
	token, err := h.orderService.CreateConnectionToken(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to create connection token.")
		return
	}
	c.JSON(http.StatusOK, token)
}

// --- Admin views ---

// GetPrepQueue returns the kitchen display projection.
func (h *OrderHandler) GetPrepQueue(c *gin.Context) {
	queue, err := h.prepQueueService.GetQueue(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to load prep queue.")
		return
	}
	c.JSON(http.StatusOK, queue)
}

func (h *OrderHandler) GetOrders(c *gin.Context) {
	orders, err := h.orderService.ListOrders(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to fetch orders.")
		return
	}
	c.JSON(http.StatusOK, orders)
}

// UpdateOrder applies an admin patch: status, notes or one unit's prep status.
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	var req services.PatchOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, "Invalid request")
		return
	}
	if utils.IsEmpty(req.ID) {
		utils.RespondValidationFailed(c, "Missing order id")
		return
	}

	order, err := h.orderService.PatchOrder(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "Failed to update order.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}
