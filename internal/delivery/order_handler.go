package delivery

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"covercart-backend/internal/courier"
	"covercart-backend/internal/domain"
	"covercart-backend/internal/service"
)

type OrderHandler struct {
	svc     *service.OrderService
	courier *courier.Client
	log     *logrus.Logger
}

func NewOrderHandler(svc *service.OrderService, courierClient *courier.Client, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{svc: svc, courier: courierClient, log: logger}
}

// Place accepts a checkout payload from the storefront.
func (h *OrderHandler) Place(c *gin.Context) {
	var req domain.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// A wrong-typed field (say, deliveryCharge as a string) should name
		// the field, same as the shape validation below.
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			respondError(c, http.StatusBadRequest, "invalid input: "+typeErr.Field)
			return
		}
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.svc.PlaceOrder(c.Request.Context(), req)
	if err != nil {
		status, msg := statusFromError(err)
		if status == http.StatusInternalServerError {
			h.log.Errorf("Failed to place order for %s: %v", req.Phone, err)
		}
		respondError(c, status, msg)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"orderId": id.Hex(),
	})
}

func (h *OrderHandler) List(c *gin.Context) {
	q := domain.OrderQuery{
		Status: domain.OrderStatus(c.Query("status")),
		Phone:  c.Query("phone"),
		Page:   intQuery(c, "page", 1),
		Limit:  intQuery(c, "limit", 20),
	}
	if q.Status != "" && !domain.IsValidStatus(q.Status) {
		respondError(c, http.StatusBadRequest, "invalid status filter")
		return
	}
	if q.Limit > 100 {
		q.Limit = 100
	}

	orders, total, err := h.svc.ListOrders(c.Request.Context(), q)
	if err != nil {
		h.log.Errorf("Failed to list orders: %v", err)
		respondError(c, http.StatusInternalServerError, "internal server error")
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  orders,
		"total": total,
		"page":  q.Page,
		"limit": q.Limit,
	})
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.svc.GetOrder(c.Request.Context(), id)
	if err != nil {
		status, msg := statusFromError(err)
		respondError(c, status, msg)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status domain.OrderStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		respondError(c, http.StatusBadRequest, "status is required")
		return
	}

	order, err := h.svc.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		status, msg := statusFromError(err)
		if status == http.StatusInternalServerError {
			h.log.Errorf("Failed to update status of order %s: %v", id.Hex(), err)
		}
		respondError(c, status, msg)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteOrder(c.Request.Context(), id); err != nil {
		status, msg := statusFromError(err)
		if status == http.StatusInternalServerError {
			h.log.Errorf("Failed to delete order %s: %v", id.Hex(), err)
		}
		respondError(c, status, msg)
		return
	}
	h.log.Infof("Order %s deleted by admin", id.Hex())
	c.JSON(http.StatusOK, gin.H{"message": "order deleted"})
}

func (h *OrderHandler) BookConsignment(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	consignment, err := h.svc.BookConsignment(c.Request.Context(), id)
	if err != nil {
		status, msg := statusFromError(err)
		if status == http.StatusInternalServerError {
			h.log.Errorf("Failed to book consignment for order %s: %v", id.Hex(), err)
			msg = "failed to book consignment"
			status = http.StatusBadGateway
		}
		respondError(c, status, msg)
		return
	}
	c.JSON(http.StatusOK, consignment)
}

func (h *OrderHandler) TrackConsignment(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	status, err := h.svc.TrackConsignment(c.Request.Context(), id)
	if err != nil {
		code, msg := statusFromError(err)
		if code == http.StatusInternalServerError {
			h.log.Errorf("Failed to track consignment for order %s: %v", id.Hex(), err)
			msg = "failed to reach courier"
			code = http.StatusBadGateway
		}
		respondError(c, code, msg)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deliveryStatus": status})
}

func (h *OrderHandler) Summary(c *gin.Context) {
	phone := c.Param("phone")
	summary, err := h.svc.Summary(c.Request.Context(), phone)
	if err != nil {
		status, msg := statusFromError(err)
		respondError(c, status, msg)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// CourierBalance proxies the merchant balance inquiry.
func (h *OrderHandler) CourierBalance(c *gin.Context) {
	balance, err := h.courier.Balance(c.Request.Context())
	if err != nil {
		h.log.Errorf("Balance inquiry failed: %v", err)
		respondError(c, http.StatusBadGateway, "failed to reach courier")
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

// CourierHistory proxies the bulk delivery-history fraud check for a phone.
func (h *OrderHandler) CourierHistory(c *gin.Context) {
	report, err := h.courier.DeliveryHistory(c.Request.Context(), c.Param("phone"))
	if err != nil {
		h.log.Errorf("Delivery history lookup failed: %v", err)
		respondError(c, http.StatusBadGateway, "failed to reach courier")
		return
	}
	c.JSON(http.StatusOK, report)
}
