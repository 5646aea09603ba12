package controllers

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/Bysiu/designstron-sub001/app/models"
	"github.com/Bysiu/designstron-sub001/app/repository"
	"github.com/Bysiu/designstron-sub001/internal/pkg/database"
	"github.com/Bysiu/designstron-sub001/internal/pkg/env"
	"github.com/Bysiu/designstron-sub001/internal/pkg/payments"
	"github.com/Bysiu/designstron-sub001/internal/pkg/usercontext"
)

// HandleCheckoutStart turns a package selection into a pending order and an
// external checkout session. The price is recomputed server-side from the
// catalog; the stored order and the charged session always agree.
func HandleCheckoutStart(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req quoteRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_request", "malformed request body")
	}

	breakdown, err := computeQuote(&req)
	if err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "invalid_selection", err.Error())
	}

	items := []models.OrderLineItem{
		models.NewOrderLineItem(breakdown.Package.Name, "Website package", 1, breakdown.Package.Price),
	}
	if breakdown.ExtraPages != nil {
		items = append(items, models.NewOrderLineItem(
			"Extra pages", "Additional pages beyond the package",
			breakdown.ExtraPages.Count, breakdown.ExtraPages.UnitPrice))
	}
	for _, addOn := range breakdown.AddOns {
		items = append(items, models.NewOrderLineItem(addOn.Name, "Add-on", 1, addOn.Price))
	}

	order := &models.Order{
		UserID:      userCtx.UserID,
		Status:      models.OrderStatusPending,
		TotalAmount: breakdown.Total,
		LineItems:   items,
	}

	orderRepo := repository.GetGlobalFactory().GetOrderRepository()
	if err := orderRepo.Create(order, "Order created, awaiting payment"); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "could not create order")
	}

	sess, err := createCheckoutSession(c, order, map[string]string{
		payments.MetadataOrderID: order.PublicID,
	})
	if err != nil {
		return checkoutError(c, err)
	}
	if err := orderRepo.SetCheckoutSession(order.ID, sess.ID); err != nil {
		log.Printf("store checkout session for order %s failed: %v", order.PublicID, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"order_id":     order.PublicID,
		"total_amount": order.TotalAmount,
		"currency":     order.Currency,
		"checkout_url": sess.URL,
		"session_id":   sess.ID,
	})
}

// HandleCheckoutSuccess is the pull path: the browser lands here after paying
// and the session is verified against the provider before anything is shown
// as paid. The redirect parameter alone proves nothing.
func HandleCheckoutSuccess(c *fiber.Ctx) error {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		return jsonError(c, fiber.StatusBadRequest, "invalid_request", "session_id query parameter required")
	}

	userCtx := usercontext.GetUserContext(c)
	reconciler := payments.NewReconcilerFromDB(database.GetDB())

	result, err := reconciler.Reconcile(c.Context(), sessionID, payments.Caller{
		UserID:  userCtx.UserID,
		IsAdmin: userCtx.IsAdmin,
	})
	if err != nil {
		return reconcileError(c, err)
	}

	return c.JSON(result)
}

// HandleCheckoutCancel acknowledges an abandoned checkout. The order stays
// pending; the session may still complete later through the webhook.
func HandleCheckoutCancel(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "cancelled",
		"message": "Checkout was cancelled. Your order is still pending and can be paid later.",
	})
}

func createCheckoutSession(c *fiber.Ctx, order *models.Order, metadata map[string]string) (*payments.Session, error) {
	base := env.GetEnv("PUBLIC_DOMAIN", "http://localhost:4000")

	items := make([]payments.SessionLineItem, 0, len(order.LineItems))
	for _, item := range order.LineItems {
		items = append(items, payments.SessionLineItem{
			Name:       item.Name,
			Quantity:   item.Quantity,
			UnitAmount: item.UnitPrice,
			Currency:   order.Currency,
		})
	}

	client := payments.NewCheckoutClientFromEnv()
	return client.CreateSession(c.Context(), payments.CreateSessionRequest{
		LineItems:  items,
		SuccessURL: fmt.Sprintf("%s/checkout/success?session_id={CHECKOUT_SESSION_ID}", base),
		CancelURL:  fmt.Sprintf("%s/checkout/cancel", base),
		Metadata:   metadata,
	})
}

func checkoutError(c *fiber.Ctx, err error) error {
	if errors.Is(err, payments.ErrUpstream) {
		return jsonError(c, fiber.StatusBadGateway, "provider_unavailable",
			"the payment provider is currently unavailable, please retry")
	}
	return jsonError(c, fiber.StatusInternalServerError, "internal_error", "could not start checkout")
}

func reconcileError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, payments.ErrOrderNotFound):
		return jsonError(c, fiber.StatusNotFound, "order_not_found", "no order found for this checkout session")
	case errors.Is(err, payments.ErrForbidden):
		return jsonError(c, fiber.StatusForbidden, "forbidden", "this order belongs to another account")
	case errors.Is(err, payments.ErrUpstream):
		return jsonError(c, fiber.StatusBadGateway, "provider_unavailable",
			"the payment provider is currently unavailable, please retry")
	default:
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "payment verification failed")
	}
}
