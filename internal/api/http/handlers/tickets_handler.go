package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vilyx-net/vector/internal/domain"
	"github.com/vilyx-net/vector/internal/repository"
	"github.com/vilyx-net/vector/internal/service"
	apperrors "github.com/vilyx-net/vector/pkg/util"
)

// TicketsHandler exposes read-only ticket inspection for operators.
type TicketsHandler struct {
	store     repository.TicketStore
	lifecycle *service.Lifecycle
}

// NewTicketsHandler returns a new handler instance.
func NewTicketsHandler(store repository.TicketStore, lifecycle *service.Lifecycle) *TicketsHandler {
	return &TicketsHandler{store: store, lifecycle: lifecycle}
}

type ticketResponse struct {
	ChannelID string                `json:"channel_id"`
	OwnerID   string                `json:"owner_id"`
	Category  domain.TicketCategory `json:"category"`
	Claimed   bool                  `json:"claimed"`
	Archived  bool                  `json:"archived"`
	State     domain.TicketState    `json:"state"`
	CreatedAt string                `json:"created_at"`
}

// List returns stored ticket records, newest first.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	records, err := h.store.List(c.UserContext(), limit, offset)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	out := make([]ticketResponse, 0, len(records))
	for i := range records {
		out = append(out, h.toResponse(c, &records[i]))
	}
	return c.JSON(fiber.Map{"tickets": out})
}

// Get returns one ticket record by channel id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	channelID := c.Params("channel_id")

	record, err := h.store.Get(c.UserContext(), channelID)
	if err != nil {
		if err == repository.ErrNotFound {
			return apperrors.NewNotFound("ticket", fiber.Map{"channel_id": channelID})
		}
		return apperrors.NewInternalError(err)
	}
	resp := h.toResponse(c, record)
	return c.JSON(resp)
}

func (h *TicketsHandler) toResponse(c *fiber.Ctx, record *domain.TicketRecord) ticketResponse {
	state, err := h.lifecycle.State(c.UserContext(), record.ChannelID)
	if err != nil {
		state = record.State()
	}
	return ticketResponse{
		ChannelID: record.ChannelID,
		OwnerID:   record.OwnerID,
		Category:  record.Category,
		Claimed:   record.Claimed,
		Archived:  record.Archived,
		State:     state,
		CreatedAt: record.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
