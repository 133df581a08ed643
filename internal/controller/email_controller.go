package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/unclebandit/jobseeker-backend/internal/auth"
	"github.com/unclebandit/jobseeker-backend/internal/service"
)

type EmailSender interface {
	SendEmail(ctx context.Context, in service.SendEmailInput) (*service.SendEmailResult, error)
}

type EmailController struct {
	Service  EmailSender
	Validate *validator.Validate
	Logger   *zap.Logger
}

type sendEmailRequest struct {
	To         string `json:"to" validate:"required,email"`
	Subject    string `json:"subject" validate:"required"`
	Body       string `json:"body" validate:"required"`
	FromName   string `json:"from_name"`
	CampaignID *int   `json:"campaign_id" validate:"omitempty,gt=0"`
}

// SendEmail answers 400 for every failure, auth included.
func (c *EmailController) SendEmail(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unauthorized")
		return
	}

	var body sendEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if err := c.Validate.Struct(body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := c.Service.SendEmail(r.Context(), service.SendEmailInput{
		UserID:     userID,
		To:         body.To,
		Subject:    body.Subject,
		Body:       body.Body,
		FromName:   body.FromName,
		CampaignID: body.CampaignID,
	})
	if err != nil {
		if c.Logger != nil {
			c.Logger.Warn("send-email failed", zap.String("user_id", userID), zap.Error(err))
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"message_id":  res.MessageID,
		"tracking_id": res.TrackingID,
	})
}

// RejectAuth is the send-email auth failure response.
func (c *EmailController) RejectAuth(w http.ResponseWriter, _ *http.Request, err error) {
	writeError(w, http.StatusBadRequest, err.Error())
}
