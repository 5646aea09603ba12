package controllers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Bysiu/designstron-sub001/app/models"
	"github.com/Bysiu/designstron-sub001/app/repository"
	"github.com/Bysiu/designstron-sub001/internal/pkg/database"
	"github.com/Bysiu/designstron-sub001/internal/pkg/hosting"
	"github.com/Bysiu/designstron-sub001/internal/pkg/payments"
	"github.com/Bysiu/designstron-sub001/internal/pkg/pricing"
	"github.com/Bysiu/designstron-sub001/internal/pkg/usercontext"
)

type hostingRequest struct {
	Plan   string `json:"plan"`
	Domain string `json:"domain"`
	SSL    bool   `json:"ssl"`
	Months int    `json:"months"`
}

// HandleHostingQuote prices a hosting booking without creating anything.
func HandleHostingQuote(c *fiber.Ctx) error {
	var req hostingRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_request", "malformed request body")
	}

	total, err := pricing.HostingPrice(req.Plan, req.Months, req.SSL)
	if err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "invalid_selection", err.Error())
	}

	return c.JSON(fiber.Map{
		"plan":             req.Plan,
		"months":           req.Months,
		"ssl":              req.SSL,
		"discount_percent": pricing.VolumeDiscountPercent(req.Months),
		"total":            total,
		"currency":         "EUR",
	})
}

// HandleHostingRequest books a hosting plan: a pending hosting order plus the
// checkout session paying for it.
func HandleHostingRequest(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req hostingRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_request", "malformed request body")
	}

	manager := hosting.NewManagerFromDB(database.GetDB())
	order, err := manager.Activate(userCtx.UserID, req.Plan, req.Domain, req.SSL, req.Months, false)
	if err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "invalid_selection", err.Error())
	}

	sess, err := createCheckoutSession(c, order, map[string]string{
		payments.MetadataOrderID: order.PublicID,
	})
	if err != nil {
		return checkoutError(c, err)
	}
	orderRepo := repository.GetGlobalFactory().GetOrderRepository()
	if err := orderRepo.SetCheckoutSession(order.ID, sess.ID); err != nil {
		log.Printf("store checkout session for order %s failed: %v", order.PublicID, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"order_id":           order.PublicID,
		"total_amount":       order.TotalAmount,
		"currency":           order.Currency,
		"hosting_expires_at": formatTimePtr(order.HostingExpiresAt),
		"checkout_url":       sess.URL,
		"session_id":         sess.ID,
	})
}

// HandleHostingExtend starts payment for extending an existing hosting
// order. The expiry itself only moves when the payment callback for this
// session arrives; the charge order carries the target in its metadata.
func HandleHostingExtend(c *fiber.Ctx) error {
	target, ok := loadOwnedOrder(c)
	if !ok {
		return nil
	}
	if target.HostingPlan == models.HostingPlanNone {
		return jsonError(c, fiber.StatusUnprocessableEntity, "no_hosting_plan", "this order has no hosting plan")
	}

	var req struct {
		Months int `json:"months"`
	}
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_request", "malformed request body")
	}

	total, err := pricing.HostingPrice(target.HostingPlan, req.Months, false)
	if err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "invalid_selection", err.Error())
	}

	charge := &models.Order{
		UserID:      target.UserID,
		Status:      models.OrderStatusPending,
		TotalAmount: total,
		LineItems: []models.OrderLineItem{
			models.NewOrderLineItem(
				"Hosting extension",
				"Extends hosting of order "+target.PublicID,
				req.Months,
				total/int64(req.Months),
			),
		},
	}
	orderRepo := repository.GetGlobalFactory().GetOrderRepository()
	if err := orderRepo.Create(charge, "Hosting extension order created, awaiting payment"); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "could not create order")
	}

	sess, err := createCheckoutSession(c, charge, map[string]string{
		payments.MetadataOrderID:        charge.PublicID,
		payments.MetadataHostingOrderID: target.PublicID,
		payments.MetadataHostingMonths:  strconv.Itoa(req.Months),
	})
	if err != nil {
		return checkoutError(c, err)
	}
	if err := orderRepo.SetCheckoutSession(charge.ID, sess.ID); err != nil {
		log.Printf("store checkout session for order %s failed: %v", charge.PublicID, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"order_id":     charge.PublicID,
		"extends":      target.PublicID,
		"months":       req.Months,
		"total_amount": charge.TotalAmount,
		"currency":     charge.Currency,
		"checkout_url": sess.URL,
		"session_id":   sess.ID,
	})
}

// HandleHostingChangePlan books an upgrade or downgrade of the hosting plan
// on an existing order. Downgrades and zero charges complete immediately;
// upgrades go through checkout like any other order.
func HandleHostingChangePlan(c *fiber.Ctx) error {
	target, ok := loadOwnedOrder(c)
	if !ok {
		return nil
	}

	var req struct {
		Plan string `json:"plan"`
	}
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_request", "malformed request body")
	}

	manager := hosting.NewManagerFromDB(database.GetDB())
	derived, err := manager.ChangePlan(target, req.Plan, false)
	if err != nil {
		switch {
		case errors.Is(err, hosting.ErrNoHostingPlan):
			return jsonError(c, fiber.StatusUnprocessableEntity, "no_hosting_plan", "this order has no hosting plan")
		case errors.Is(err, hosting.ErrSamePlan):
			return jsonError(c, fiber.StatusUnprocessableEntity, "same_plan", "the order already uses this plan")
		default:
			return jsonError(c, fiber.StatusUnprocessableEntity, "invalid_selection", err.Error())
		}
	}

	resp := fiber.Map{
		"order_id":     derived.PublicID,
		"changes":      target.PublicID,
		"plan":         derived.HostingPlan,
		"total_amount": derived.TotalAmount,
		"currency":     derived.Currency,
		"status":       derived.Status,
	}

	if derived.Status == models.OrderStatusPending {
		sess, err := createCheckoutSession(c, derived, map[string]string{
			payments.MetadataOrderID: derived.PublicID,
		})
		if err != nil {
			return checkoutError(c, err)
		}
		orderRepo := repository.GetGlobalFactory().GetOrderRepository()
		if err := orderRepo.SetCheckoutSession(derived.ID, sess.ID); err != nil {
			log.Printf("store checkout session for order %s failed: %v", derived.PublicID, err)
		}
		resp["checkout_url"] = sess.URL
		resp["session_id"] = sess.ID
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}
