package httpapi

import (
	"errors"
	"net/http"

	"rigoplace.org/internal/audit"
	"rigoplace.org/internal/auth"
)

type registerRequest struct {
	Identifier     string `json:"identifier"`
	Secret         string `json:"secret"`
	Password       string `json:"password"`
	PIN            string `json:"pin"`
	Role           string `json:"role"`
	CredentialType string `json:"credentialType"`
}

type loginRequest struct {
	Identifier     string `json:"identifier"`
	Secret         string `json:"secret"`
	CredentialType string `json:"credentialType"`
}

type loginResponse struct {
	Token string    `json:"token"`
	User  loginUser `json:"user"`
}

type loginUser struct {
	ID         string `json:"id"`
	Identifier string `json:"identifier"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	params := auth.RegisterParams{
		Identifier: req.Identifier,
		Password:   req.Password,
		PIN:        req.PIN,
		Role:       req.Role,
	}
	// The generic secret field routes into a slot by declared type, falling
	// back to the secret's shape.
	if req.Secret != "" && req.Password == "" && req.PIN == "" {
		if auth.ResolveKind(req.CredentialType, req.Secret) == auth.KindPIN {
			params.PIN = req.Secret
		} else {
			params.Password = req.Secret
		}
	}

	view, err := a.auth.Register(r.Context(), params)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrAlreadyExists):
		writeError(w, http.StatusBadRequest, "identifier already registered")
		return
	case errors.Is(err, auth.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "identifier and a password or pin are required")
		return
	default:
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.register", map[string]any{
		"identifier": view.Identifier,
		"role":       view.Role,
	})
	writeJSON(w, http.StatusOK, map[string]string{
		"id":         view.ID,
		"identifier": view.Identifier,
	})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	token, view, err := a.auth.Login(r.Context(), req.Identifier, req.Secret, req.CredentialType)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidInput):
		// One message whether the identifier is unknown, the secret is wrong
		// or the request was malformed.
		writeError(w, http.StatusBadRequest, "Invalid credentials")
		return
	default:
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.login", map[string]any{
		"identifier": view.Identifier,
	})
	writeJSON(w, http.StatusOK, loginResponse{
		Token: token,
		User:  loginUser{ID: view.ID, Identifier: view.Identifier},
	})
}

func (a *API) handleRemoveCredential(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, http.MethodDelete)
		return
	}
	identifier := trimPathParam(r.URL.Path, "/v1/admin/credentials/")
	if identifier == "" {
		writeError(w, http.StatusBadRequest, "identifier is required")
		return
	}

	removed, err := a.auth.Remove(r.Context(), identifier)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "identifier is required")
			return
		}
		writeError(w, http.StatusInternalServerError, "removal failed")
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "unknown identifier")
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.credential.removed", map[string]any{
		"identifier": auth.NormalizeIdentifier(identifier),
	})
	writeJSON(w, http.StatusOK, map[string]string{"msg": "credential removed"})
}
