package handler

import (
	"log/slog"
	"net/http"

	"ferremas/internal/delivery/api/response"
	"ferremas/internal/errors"
	"ferremas/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// ContactHandlerParams holds dependencies for ContactHandler, injected by Fx.
type ContactHandlerParams struct {
	fx.In

	NotificationUC usecase.NotificationUsecase
	Logger         *slog.Logger
}

type ContactHandler struct {
	notificationUC usecase.NotificationUsecase
	logger         *slog.Logger
}

func NewContactHandler(params ContactHandlerParams) *ContactHandler {
	return &ContactHandler{
		notificationUC: params.NotificationUC,
		logger:         params.Logger,
	}
}

type ContactRequest struct {
	Name    string `json:"name" form:"name" validate:"required,max=100"`
	Email   string `json:"email" form:"email" validate:"required,email"`
	Subject string `json:"subject" form:"subject" validate:"required,max=200"`
	Message string `json:"message" form:"message" validate:"required"`
}

// Send handles POST /api/contact.
func (h *ContactHandler) Send(c echo.Context) error {
	var req ContactRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	err := h.notificationUC.SendContact(c.Request().Context(), &usecase.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusAccepted, map[string]string{"message": "Mensaje enviado correctamente"})
}
