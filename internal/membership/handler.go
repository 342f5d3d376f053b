package membership

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coderun23-cloud/gym-manegement-system/internal/auth"
	"github.com/coderun23-cloud/gym-manegement-system/internal/email"
	"github.com/coderun23-cloud/gym-manegement-system/internal/logger"
	"github.com/coderun23-cloud/gym-manegement-system/internal/plan"
)

const dateLayout = "2006-01-02"

type Handler struct {
	svc   Service
	email *email.Service
}

func NewHandler(svc Service, emailService *email.Service) *Handler {
	return &Handler{svc: svc, email: emailService}
}

// ListMemberships godoc
// @Summary      List memberships
// @Tags         memberships
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  gin.H
// @Router       /admin/memberships [get]
func (h *Handler) ListMemberships(c *gin.Context) {
	memberships, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"memberships": memberships})
}

// GetMembership godoc
// @Summary      Get membership
// @Tags         memberships
// @Security     BearerAuth
// @Produce      json
// @Param        membershipID  path      int  true  "Membership ID"
// @Success      200           {object}  MembershipWithDetails
// @Failure      404           {object}  gin.H
// @Router       /admin/memberships/{membershipID} [get]
func (h *Handler) GetMembership(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("membershipID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid membership ID"})
		return
	}

	m, err := h.svc.Get(c.Request.Context(), id)
	if errors.Is(err, ErrMembershipNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Membership not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, m)
}

// AssignMembership godoc
// @Summary      Assign membership
// @Description  Creates an active membership directly, without payment.
// @Tags         memberships
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      AssignRequest  true  "Assignment data"
// @Success      201      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Failure      422      {object}  gin.H
// @Router       /admin/memberships [post]
func (h *Handler) AssignMembership(c *gin.Context) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "start_date must be in YYYY-MM-DD format"})
		return
	}

	m, err := h.svc.AssignDirect(c.Request.Context(), req.UserID, req.PlanID, start)
	if errors.Is(err, plan.ErrPlanNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plan not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign membership"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Membership assigned successfully", "membership": m})
}

// RenewMembership godoc
// @Summary      Renew membership
// @Description  Overwrites plan and window and forces the membership active.
// @Tags         memberships
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        membershipID  path      int           true  "Membership ID"
// @Param        request       body      RenewRequest  true  "Renewal data"
// @Success      200           {object}  gin.H
// @Failure      404           {object}  gin.H
// @Failure      422           {object}  gin.H
// @Router       /admin/memberships/{membershipID}/renew [put]
func (h *Handler) RenewMembership(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("membershipID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid membership ID"})
		return
	}

	var req RenewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "start_date must be in YYYY-MM-DD format"})
		return
	}

	m, err := h.svc.Renew(c.Request.Context(), id, req.PlanID, start)
	if errors.Is(err, ErrMembershipNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Membership not found"})
		return
	}
	if errors.Is(err, plan.ErrPlanNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plan not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to renew membership"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Membership renewed/updated.", "membership": m})
}

// CancelMembership godoc
// @Summary      Cancel membership
// @Description  Soft status change. Payment history stays queryable.
// @Tags         memberships
// @Security     BearerAuth
// @Produce      json
// @Param        membershipID  path      int  true  "Membership ID"
// @Success      200           {object}  gin.H
// @Failure      404           {object}  gin.H
// @Router       /admin/memberships/{membershipID}/cancel [post]
func (h *Handler) CancelMembership(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("membershipID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid membership ID"})
		return
	}

	err = h.svc.Cancel(c.Request.Context(), id)
	if errors.Is(err, ErrMembershipNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Membership not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel membership"})
		return
	}

	if h.email != nil {
		if m, err := h.svc.Get(c.Request.Context(), id); err == nil {
			if err := h.email.SendMembershipCancelled(c.Request.Context(), m.UserEmail, m.UserName); err != nil {
				logger.Error("Failed to queue cancellation email", "membership_id", id, "error", err)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Membership cancelled."})
}

// MyMembership godoc
// @Summary      Current user's membership
// @Tags         memberships
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  MembershipWithDetails
// @Failure      404  {object}  gin.H
// @Router       /memberships/me [get]
func (h *Handler) MyMembership(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	m, err := h.svc.LatestForUser(c.Request.Context(), userID)
	if errors.Is(err, ErrMembershipNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active membership found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, m)
}
