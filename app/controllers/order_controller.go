package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Bysiu/designstron-sub001/app/models"
	"github.com/Bysiu/designstron-sub001/app/repository"
	"github.com/Bysiu/designstron-sub001/internal/pkg/usercontext"
)

const orderPageSize = 20

// HandleOrderList returns the logged-in customer's orders, newest first.
func HandleOrderList(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	repo := repository.GetGlobalFactory().GetOrderRepository()
	orders, err := repo.ListByUser(userCtx.UserID, (page-1)*orderPageSize, orderPageSize)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "could not load orders")
	}

	out := make([]orderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, renderOrder(&orders[i], false))
	}

	return c.JSON(fiber.Map{
		"orders": out,
		"page":   page,
	})
}

// HandleOrderDetail returns one order with line items and history. Customers
// only see their own orders; the public ID in the URL is not a capability.
func HandleOrderDetail(c *fiber.Ctx) error {
	order, ok := loadOwnedOrder(c)
	if !ok {
		return nil
	}
	return c.JSON(renderOrder(order, true))
}

// HandleOrderMessages returns the conversation thread of an order.
func HandleOrderMessages(c *fiber.Ctx) error {
	order, ok := loadOwnedOrder(c)
	if !ok {
		return nil
	}

	messages, err := repository.GetGlobalFactory().GetMessageRepository().ListByOrder(order.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "could not load messages")
	}

	return c.JSON(fiber.Map{
		"order_id": order.PublicID,
		"messages": messages,
	})
}

// HandleOrderMessageCreate appends a customer message to the order thread.
func HandleOrderMessageCreate(c *fiber.Ctx) error {
	order, ok := loadOwnedOrder(c)
	if !ok {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_request", "malformed request body")
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" || len(req.Content) > 5000 {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", "message content must be 1 to 5000 characters")
	}

	message := &models.Message{
		OrderID: order.ID,
		UserID:  usercontext.GetUserID(c),
		Sender:  models.MessageSenderCustomer,
		Content: req.Content,
	}
	if err := repository.GetGlobalFactory().GetMessageRepository().Create(message); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "could not store message")
	}

	return c.Status(fiber.StatusCreated).JSON(message)
}

// loadOwnedOrder resolves the :id route parameter to an order the current
// user may access. Staff may access any order. When the second return value
// is false the error response has already been written.
func loadOwnedOrder(c *fiber.Ctx) (*models.Order, bool) {
	userCtx := usercontext.GetUserContext(c)

	order, err := repository.GetGlobalFactory().GetOrderRepository().GetByPublicID(c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = jsonError(c, fiber.StatusNotFound, "order_not_found", "no such order")
		} else {
			_ = jsonError(c, fiber.StatusInternalServerError, "internal_error", "could not load order")
		}
		return nil, false
	}
	if !userCtx.IsAdmin && order.UserID != userCtx.UserID {
		// Indistinguishable from a missing order on purpose.
		_ = jsonError(c, fiber.StatusNotFound, "order_not_found", "no such order")
		return nil, false
	}
	return order, true
}
