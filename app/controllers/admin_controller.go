package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Bysiu/designstron-sub001/app/models"
	"github.com/Bysiu/designstron-sub001/app/repository"
	"github.com/Bysiu/designstron-sub001/internal/pkg/database"
	"github.com/Bysiu/designstron-sub001/internal/pkg/orders"
	"github.com/Bysiu/designstron-sub001/internal/pkg/usercontext"
)

// HandleAdminOrderList returns all orders with counts per status.
func HandleAdminOrderList(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	repo := repository.GetGlobalFactory().GetOrderRepository()
	list, err := repo.List((page-1)*orderPageSize, orderPageSize)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "could not load orders")
	}

	counts := fiber.Map{}
	for _, status := range []string{
		models.OrderStatusPending, models.OrderStatusPaid, models.OrderStatusInProgress,
		models.OrderStatusCompleted, models.OrderStatusCancelled,
	} {
		n, err := repo.CountByStatus(status)
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "internal_error", "could not load order counts")
		}
		counts[status] = n
	}

	out := make([]orderResponse, 0, len(list))
	for i := range list {
		out = append(out, renderOrder(&list[i], false))
	}

	return c.JSON(fiber.Map{
		"orders": out,
		"counts": counts,
		"page":   page,
	})
}

// HandleAdminOrderStart marks a paid order as in progress.
func HandleAdminOrderStart(c *fiber.Ctx) error {
	return applyAdminEvent(c, orders.EventWorkStarted, "Work started")
}

// HandleAdminOrderComplete marks an in-progress order as completed.
func HandleAdminOrderComplete(c *fiber.Ctx) error {
	return applyAdminEvent(c, orders.EventWorkCompleted, "Work completed")
}

// HandleAdminOrderCancel cancels an order before work starts. Pending orders
// cancel via the expiry event, paid ones via the cancel event.
func HandleAdminOrderCancel(c *fiber.Ctx) error {
	order, ok := loadOrderParam(c)
	if !ok {
		return nil
	}

	event := orders.EventCancelled
	if order.Status == models.OrderStatusPending {
		event = orders.EventPaymentExpired
	}

	return applyEventToOrder(c, order, event, "Order cancelled by staff")
}

// HandleAdminOrderMessage appends a staff reply to the order thread.
func HandleAdminOrderMessage(c *fiber.Ctx) error {
	order, ok := loadOrderParam(c)
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
		Sender:  models.MessageSenderStaff,
		Content: req.Content,
	}
	if err := repository.GetGlobalFactory().GetMessageRepository().Create(message); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "could not store message")
	}

	return c.Status(fiber.StatusCreated).JSON(message)
}

func applyAdminEvent(c *fiber.Ctx, event orders.Event, comment string) error {
	order, ok := loadOrderParam(c)
	if !ok {
		return nil
	}
	return applyEventToOrder(c, order, event, comment)
}

func applyEventToOrder(c *fiber.Ctx, order *models.Order, event orders.Event, comment string) error {
	svc := orders.NewServiceFromDB(database.GetDB())
	updated, applied, err := svc.Apply(order, event, comment, "")
	if err != nil {
		if errors.Is(err, orders.ErrIllegalTransition) {
			return jsonError(c, fiber.StatusConflict, "illegal_transition", err.Error())
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", "could not update order")
	}

	return c.JSON(fiber.Map{
		"order_id": updated.PublicID,
		"status":   updated.Status,
		"applied":  applied,
	})
}

// loadOrderParam resolves the :id route parameter for staff handlers. When
// the second return value is false the error response has already been
// written.
func loadOrderParam(c *fiber.Ctx) (*models.Order, bool) {
	order, err := repository.GetGlobalFactory().GetOrderRepository().GetByPublicID(c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = jsonError(c, fiber.StatusNotFound, "order_not_found", "no such order")
		} else {
			_ = jsonError(c, fiber.StatusInternalServerError, "internal_error", "could not load order")
		}
		return nil, false
	}
	return order, true
}
