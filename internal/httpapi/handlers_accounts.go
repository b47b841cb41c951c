package httpapi

import (
	"net/http"

	"InfiniteDbAccounts/internal/domain"
)

type emailRequest struct {
	Email string `json:"email" validate:"omitempty,email,max=254"`
}

type confirmEmailRequest struct {
	Email string `json:"email" validate:"omitempty,email,max=254"`
	Code  string `json:"code" validate:"max=64"`
}

type credentialsRequest struct {
	Email    string `json:"email" validate:"omitempty,email,max=254"`
	Password string `json:"password" validate:"max=1024"`
}

type resetPasswordRequest struct {
	Email       string `json:"email" validate:"omitempty,email,max=254"`
	Token       string `json:"token" validate:"max=256"`
	NewPassword string `json:"newPassword" validate:"max=1024"`
}

type updateAccountRequest struct {
	FirstName      *string `json:"firstName" validate:"omitempty,max=100"`
	LastName       *string `json:"lastName" validate:"omitempty,max=100"`
	Email          *string `json:"email" validate:"omitempty,email,max=254"`
	EmailConfirmed *bool   `json:"emailConfirmed"`
}

func (a *api) handleStartRegistration(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := a.decodeValid(w, r, &req); err != nil {
		writeBadRequest(w)
		return
	}
	WriteResult(w, a.accounts.StartRegistration(r.Context(), req.Email))
}

func (a *api) handleConfirmEmail(w http.ResponseWriter, r *http.Request) {
	var req confirmEmailRequest
	if err := a.decodeValid(w, r, &req); err != nil {
		writeBadRequest(w)
		return
	}
	WriteResult(w, a.accounts.ConfirmEmailCode(r.Context(), req.Email, req.Code))
}

func (a *api) handleCompleteRegistration(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := a.decodeValid(w, r, &req); err != nil {
		writeBadRequest(w)
		return
	}
	WriteResult(w, a.accounts.CompleteRegistration(r.Context(), req.Email, req.Password))
}

func (a *api) handleValidateCredentials(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := a.decodeValid(w, r, &req); err != nil {
		writeBadRequest(w)
		return
	}
	WriteResult(w, a.accounts.ValidateCredentials(r.Context(), req.Email, req.Password))
}

func (a *api) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	WriteResult(w, a.accounts.GetAccountByID(r.Context(), r.PathValue("id")))
}

func (a *api) handleGetAccountByEmail(w http.ResponseWriter, r *http.Request) {
	WriteResult(w, a.accounts.GetAccountByEmail(r.Context(), r.PathValue("email")))
}

func (a *api) handleNewConfirmationCode(w http.ResponseWriter, r *http.Request) {
	WriteResult(w, a.accounts.GenerateNewConfirmationCode(r.Context(), r.PathValue("id")))
}

func (a *api) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	var req updateAccountRequest
	if err := a.decodeValid(w, r, &req); err != nil {
		writeBadRequest(w)
		return
	}

	upd := &domain.AccountUpdate{
		FirstName:      plainTextPtr(a.names, req.FirstName),
		LastName:       plainTextPtr(a.names, req.LastName),
		Email:          req.Email,
		EmailConfirmed: req.EmailConfirmed,
	}
	WriteResult(w, a.accounts.UpdateUser(r.Context(), r.PathValue("id"), upd))
}

func (a *api) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := a.decodeValid(w, r, &req); err != nil {
		writeBadRequest(w)
		return
	}
	WriteResult(w, a.accounts.ForgotPassword(r.Context(), req.Email))
}

func (a *api) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := a.decodeValid(w, r, &req); err != nil {
		writeBadRequest(w)
		return
	}
	WriteResult(w, a.accounts.ResetPassword(r.Context(), req.Email, req.Token, req.NewPassword))
}

func (a *api) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	WriteResult(w, a.accounts.DeleteAccount(r.Context(), r.PathValue("id")))
}
