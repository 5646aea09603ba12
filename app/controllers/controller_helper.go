package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Bysiu/designstron-sub001/app/models"
)

const (
	AUTH_KEY      string = "authenticated"
	USER_ID       string = "user_id"
	USER_NAME     string = "username"
	USER_IS_ADMIN string = "is_admin"

	FROM_PROTECTED string = "from_protected"
)

// orderResponse is the JSON shape orders are rendered as on the API.
type orderResponse struct {
	PublicID         string             `json:"order_id"`
	Status           string             `json:"status"`
	TotalAmount      int64              `json:"total_amount"`
	Currency         string             `json:"currency"`
	HostingPlan      string             `json:"hosting_plan,omitempty"`
	HostingExpiresAt string             `json:"hosting_expires_at,omitempty"`
	Domain           string             `json:"domain,omitempty"`
	SSLEnabled       bool               `json:"ssl_enabled"`
	CreatedAt        string             `json:"created_at"`
	LineItems        []lineItemResponse `json:"line_items,omitempty"`
	History          []historyResponse  `json:"history,omitempty"`
}

type lineItemResponse struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	TotalPrice  int64  `json:"total_price"`
}

type historyResponse struct {
	Status    string `json:"status"`
	Comment   string `json:"comment,omitempty"`
	CreatedAt string `json:"created_at"`
}

func renderOrder(order *models.Order, withDetails bool) orderResponse {
	resp := orderResponse{
		PublicID:         order.PublicID,
		Status:           order.Status,
		TotalAmount:      order.TotalAmount,
		Currency:         order.Currency,
		SSLEnabled:       order.SSLEnabled,
		Domain:           order.Domain,
		CreatedAt:        order.CreatedAt.Format(time.RFC3339),
		HostingExpiresAt: formatTimePtr(order.HostingExpiresAt),
	}
	if order.HostingPlan != models.HostingPlanNone {
		resp.HostingPlan = order.HostingPlan
	}
	if !withDetails {
		return resp
	}

	for _, item := range order.LineItems {
		resp.LineItems = append(resp.LineItems, lineItemResponse{
			Name:        item.Name,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		})
	}
	for _, entry := range order.StatusHistory {
		resp.History = append(resp.History, historyResponse{
			Status:    entry.Status,
			Comment:   entry.Comment,
			CreatedAt: entry.CreatedAt.Format(time.RFC3339),
		})
	}
	return resp
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func jsonError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error":   code,
		"message": message,
	})
}
