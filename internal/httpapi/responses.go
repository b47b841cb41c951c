package httpapi

import (
	"encoding/json"
	"net/http"

	"InfiniteDbAccounts/internal/domain"
	"InfiniteDbAccounts/internal/service"
)

const msgInvalidBody = "Invalid request body."

type envelope struct {
	Succeeded bool         `json:"succeeded"`
	Message   string       `json:"message"`
	Code      string       `json:"code,omitempty"`
	Data      *accountJSON `json:"data,omitempty"`
}

type accountJSON struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	EmailConfirmed bool   `json:"emailConfirmed"`
	Role           string `json:"role"`
}

func toAccountJSON(a *domain.PublicAccount) *accountJSON {
	if a == nil {
		return nil
	}
	return &accountJSON{
		ID:             a.ID,
		Email:          a.Email,
		FirstName:      a.FirstName,
		LastName:       a.LastName,
		EmailConfirmed: a.EmailConfirmed,
		Role:           a.Role,
	}
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, envelope{Message: message, Code: code})
}

func writeBadRequest(w http.ResponseWriter) {
	WriteError(w, http.StatusBadRequest, domain.ErrInvalidInput.Error(), msgInvalidBody)
}

// WriteResult renders a service result with the status its error kind maps to.
func WriteResult(w http.ResponseWriter, res service.Result) {
	if res.Succeeded {
		WriteJSON(w, http.StatusOK, envelope{
			Succeeded: true,
			Message:   res.Message,
			Data:      toAccountJSON(res.Data),
		})
		return
	}
	WriteJSON(w, statusFor(res.Err), envelope{
		Message: res.Message,
		Code:    domain.KindCode(res.Err),
		Data:    toAccountJSON(res.Data),
	})
}

func statusFor(err error) int {
	switch domain.Kind(err) {
	case domain.ErrNotFound:
		return http.StatusNotFound
	case domain.ErrInvalidCredentials:
		return http.StatusUnauthorized
	case domain.ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
