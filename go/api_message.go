package cateringserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	messagesdomain "github.com/Apurer/catering-api/internal/domains/messages/domain"
	messagesports "github.com/Apurer/catering-api/internal/domains/messages/ports"
)

type Message struct {
	Id        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

type MessageRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func toMessage(msg *messagesdomain.Message) Message {
	return Message{
		Id:        msg.ID,
		Name:      msg.Name,
		Email:     msg.Email,
		Phone:     msg.Phone,
		Subject:   msg.Subject,
		Message:   msg.Body,
		IsRead:    msg.IsRead,
		CreatedAt: msg.CreatedAt,
	}
}

// MessageAPI handles the contact form inbox.
type MessageAPI struct {
	service messagesports.Service
}

func NewMessageAPI(service messagesports.Service) MessageAPI {
	return MessageAPI{service: service}
}

// Get /api/messages
func (api *MessageAPI) ListMessages(c *gin.Context) {
	messages, err := api.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]Message, 0, len(messages))
	for _, msg := range messages {
		out = append(out, toMessage(msg))
	}
	c.JSON(http.StatusOK, out)
}

// Post /api/messages
// Contact form submission
func (api *MessageAPI) SubmitMessage(c *gin.Context) {
	var payload MessageRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "Corps de requête invalide", err)
		return
	}
	created, err := api.service.Submit(c.Request.Context(), &messagesdomain.Message{
		Name:    payload.Name,
		Email:   payload.Email,
		Phone:   payload.Phone,
		Subject: payload.Subject,
		Body:    payload.Message,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toMessage(created))
}

// Patch /api/messages/:id/read
func (api *MessageAPI) MarkMessageRead(c *gin.Context) {
	msg, err := api.service.MarkRead(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMessage(msg))
}

// Delete /api/messages/:id
func (api *MessageAPI) DeleteMessage(c *gin.Context) {
	if err := api.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
