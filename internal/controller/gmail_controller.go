package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/unclebandit/jobseeker-backend/internal/auth"
	appErrors "github.com/unclebandit/jobseeker-backend/internal/errors"
)

type GmailConnector interface {
	ConnectGmail(ctx context.Context, userID, code, redirectURI string) error
}

type GmailController struct {
	Service  GmailConnector
	Validate *validator.Validate
	Logger   *zap.Logger
}

type gmailCallbackRequest struct {
	Code        string `json:"code" validate:"required"`
	RedirectURI string `json:"redirect_uri" validate:"required,url"`
}

func (c *GmailController) Callback(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var body gmailCallbackRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if err := c.Validate.Struct(body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := c.Service.ConnectGmail(r.Context(), userID, body.Code, body.RedirectURI); err != nil {
		if c.Logger != nil {
			c.Logger.Error("gmail connect failed", zap.String("user_id", userID), zap.Error(err))
		}
		writeError(w, gmailStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// RejectAuth maps verifier failures: a missing secret is a server fault.
func (c *GmailController) RejectAuth(w http.ResponseWriter, _ *http.Request, err error) {
	writeError(w, gmailStatus(err), err.Error())
}

func gmailStatus(err error) int {
	switch {
	case appErrors.IsAuth(err):
		return http.StatusUnauthorized
	case appErrors.IsUpstream(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
