package devserver

import (
	"encoding/json"
	"net/http"

	"github.com/R0CKSAM/drive-cli/internal/auth"
	"github.com/R0CKSAM/drive-cli/internal/models"
	"github.com/R0CKSAM/drive-cli/internal/websocket"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body")
		return
	}

	user := s.store.GetUserByEmail(req.Email)
	if user == nil || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Invalid email or password")
		return
	}

	token, err := auth.GenerateJWT(user, s.cfg.JWTSecret)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "Failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

// meHandler resolves the authenticated user from the verified claims the
// auth middleware stored on the request context.
func (s *Server) meHandler(w http.ResponseWriter, r *http.Request) {
	claims := getUserFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "No authenticated user")
		return
	}

	user := s.store.GetUserByEmail(claims.Email)
	if user == nil {
		writeError(w, http.StatusNotFound, "not_found", "User no longer exists")
		return
	}

	writeJSON(w, http.StatusOK, map[string]*models.User{"user": user})
}

func (s *Server) serveWsHandler(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if _, err := auth.VerifyJWT(token, s.cfg.JWTSecret); err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
		return
	}

	conn, err := websocket.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	client := websocket.NewClient(s.hub, conn)
	s.hub.Register <- client
	go client.WritePump()
	go client.ReadPump()
}
