package payment

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/coderun23-cloud/gym-manegement-system/internal/gateway"
	"github.com/coderun23-cloud/gym-manegement-system/internal/plan"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// CreatePayment godoc
// @Summary      Initiate payment
// @Description  Creates a pending membership and payment, then opens a
// @Description  gateway checkout session. The returned checkout_url is where
// @Description  the member completes the payment.
// @Tags         payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreatePaymentRequest  true  "Payment data"
// @Success      201      {object}  api.CheckoutResponse
// @Failure      404      {object}  gin.H
// @Failure      422      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /payments [post]
func (h *Handler) CreatePayment(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	res, err := h.svc.Initiate(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, plan.ErrPlanNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Plan not found"})
		default:
			var gwErr *gateway.Error
			if errors.As(err, &gwErr) && len(gwErr.Body) > 0 {
				c.JSON(http.StatusInternalServerError, gin.H{
					"error":   "Payment initialization failed",
					"details": json.RawMessage(gwErr.Body),
				})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment initialization failed"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Payment started",
		"checkout_url": res.CheckoutURL,
	})
}

// Callback godoc
// @Summary      Payment callback
// @Description  Called by the gateway after a checkout attempt. The tx_ref
// @Description  query parameter is looked up locally and the outcome is
// @Description  re-verified against the gateway before anything is recorded.
// @Tags         payments
// @Produce      json
// @Param        tx_ref  query     string  true  "Transaction reference"
// @Success      200     {object}  api.CallbackResponse
// @Failure      400     {object}  gin.H
// @Failure      404     {object}  gin.H
// @Failure      500     {object}  gin.H
// @Router       /payments/callback [get]
func (h *Handler) Callback(c *gin.Context) {
	txRef := c.Query("tx_ref")
	if txRef == "" {
		txRef = c.Query("trx_ref")
	}
	if txRef == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tx_ref is required"})
		return
	}

	res, err := h.svc.Reconcile(c.Request.Context(), txRef)
	if err != nil {
		if errors.Is(err, ErrPaymentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment verification failed"})
		return
	}

	resp := gin.H{"status": string(res.Payment.Status)}
	switch res.Payment.Status {
	case StatusSuccess:
		resp["message"] = "Payment successful"
	default:
		resp["message"] = "Payment was not successful"
	}
	if len(res.Raw) > 0 {
		resp["details"] = json.RawMessage(res.Raw)
	}

	c.JSON(http.StatusOK, resp)
}

// ListForMembership godoc
// @Summary      List payments for a membership
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Param        membershipID  path      int  true  "Membership ID"
// @Success      200           {array}   Payment
// @Failure      400           {object}  gin.H
// @Router       /admin/memberships/{membershipID}/payments [get]
func (h *Handler) ListForMembership(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("membershipID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid membership ID"})
		return
	}

	payments, err := h.svc.ListForMembership(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payments fetched successfully", "data": payments})
}
