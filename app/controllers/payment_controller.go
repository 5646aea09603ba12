package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Bysiu/designstron-sub001/app/models"
	"github.com/Bysiu/designstron-sub001/app/repository"
	"github.com/Bysiu/designstron-sub001/internal/pkg/database"
	"github.com/Bysiu/designstron-sub001/internal/pkg/env"
	"github.com/Bysiu/designstron-sub001/internal/pkg/payments"
)

// webhookEnvelope is the checkout provider's event shape.
type webhookEnvelope struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID string `json:"id"`
		} `json:"object"`
	} `json:"data"`
}

// HandlePaymentWebhook is the push path of payment confirmation. Every
// delivery is recorded in the dedup ledger first; re-deliveries of the same
// event id are acknowledged without touching any order, and only
// signature-verified events reach the reconciler.
func HandlePaymentWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := c.Get("X-Checkout-Signature")
	secret := env.GetEnv("CHECKOUT_WEBHOOK_SECRET", "")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var event webhookEnvelope
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
	}
	if event.ID == "" || event.Data.Object.ID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
	}

	signatureValid := payments.VerifyWebhookSignature(rawBody, signature, secret)

	eventRepo := repository.GetGlobalFactory().GetPaymentEventRepository()
	created, stored, err := eventRepo.CreateIfNotExists(&models.PaymentEvent{
		Provider:        payments.Provider,
		ProviderEventID: event.ID,
		EventType:       event.Type,
		SessionID:       event.Data.Object.ID,
		PayloadJSON:     string(rawBody),
		SignatureValid:  signatureValid,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "webhook_persist_failed"})
	}
	if !created {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "duplicate": true})
	}
	if !signatureValid {
		_ = eventRepo.MarkProcessed(stored.ID, payments.ErrInvalidSignature.Error())
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid_signature"})
	}

	reconciler := payments.NewReconcilerFromDB(database.GetDB())
	result, err := reconciler.Reconcile(ctx, event.Data.Object.ID, payments.Caller{})
	if err != nil {
		_ = eventRepo.MarkProcessed(stored.ID, err.Error())
		if errors.Is(err, payments.ErrOrderNotFound) {
			// Sessions without a local order are acknowledged so the sender
			// stops retrying a delivery we can never consume.
			return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "ignored": true})
		}
		if errors.Is(err, payments.ErrUpstream) {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "provider_unavailable"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "reconcile_failed"})
	}

	if err := eventRepo.MarkProcessed(stored.ID, ""); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "webhook_persist_failed"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok":       true,
		"order_id": result.OrderPublicID,
		"status":   result.Status,
		"applied":  result.Applied,
	})
}
