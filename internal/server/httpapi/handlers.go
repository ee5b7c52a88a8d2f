package httpapi

import (
	"errors"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/talentbridge/internal/common"
	"github.com/dmitrijs2005/talentbridge/internal/server/models"
	"github.com/dmitrijs2005/talentbridge/internal/server/services"
)

const (
	maxJSONBody      = 1 << 20
	maxMultipartBody = 6 << 20
	maxAvatarMemory  = 5 << 20
)

type registerRequest struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	Headline    string `json:"headline,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type verifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type userSummary struct {
	ID             string  `json:"id"`
	FullName       string  `json:"fullName"`
	Email          string  `json:"email"`
	Role           string  `json:"role"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
	IsVerified     bool    `json:"isVerified"`
	ManagerID      *string `json:"managerId,omitempty"`
}

type loginResponse struct {
	User      userSummary `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

type principalResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

var errBadBody = common.NewValidationError("body", "malformed request body")

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	in, cleanup, err := s.parseRegister(w, r)
	defer cleanup()
	if err != nil {
		s.metrics.Observe("register", err)
		writeServiceError(w, err)
		return
	}

	user, err := s.users.Register(r.Context(), in)
	s.metrics.Observe("register", err)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"userId": user.ID})
}

// parseRegister accepts either JSON or a multipart form with an optional
// "avatar" file.
func (s *Server) parseRegister(w http.ResponseWriter, r *http.Request) (services.RegisterInput, func(), error) {
	noop := func() {}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var req registerRequest
		if err := decodeJSON(w, r, &req); err != nil {
			return services.RegisterInput{}, noop, errBadBody
		}
		return req.input(), noop, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBody)
	if err := r.ParseMultipartForm(maxAvatarMemory); err != nil {
		return services.RegisterInput{}, noop, errBadBody
	}

	req := registerRequest{
		FullName:    r.FormValue("fullName"),
		Email:       r.FormValue("email"),
		Password:    r.FormValue("password"),
		Role:        r.FormValue("role"),
		Headline:    r.FormValue("headline"),
		CompanyName: r.FormValue("companyName"),
	}
	in := req.input()

	cleanup := func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}

	file, header, err := r.FormFile("avatar")
	if err == nil {
		in.Avatar = &services.Avatar{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Body:        file,
			Size:        header.Size,
		}
		prev := cleanup
		cleanup = func() {
			_ = file.Close()
			prev()
		}
	} else if !errors.Is(err, http.ErrMissingFile) {
		return in, cleanup, errBadBody
	}

	return in, cleanup, nil
}

func (req registerRequest) input() services.RegisterInput {
	return services.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Profile: models.ProfileFields{
			Headline:    req.Headline,
			CompanyName: req.CompanyName,
		},
	}
}

func (s *Server) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, errBadBody)
		return
	}

	err := s.users.VerifyOTP(r.Context(), req.Email, strings.TrimSpace(req.OTP))
	s.metrics.Observe("verify_otp", err)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "email verified"})
}

func (s *Server) handleResendOTP(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, errBadBody)
		return
	}

	err := s.users.ResendOTP(r.Context(), req.Email)
	s.metrics.Observe("resend_otp", err)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"message": "verification code sent"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, errBadBody)
		return
	}

	sess, err := s.users.Login(r.Context(), req.Email, req.Password)
	s.metrics.Observe("login", err)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) && !errors.Is(err, common.ErrNotVerified) {
			writeError(w, http.StatusUnauthorized, codeUnauth, "invalid email or password")
			return
		}
		writeServiceError(w, err)
		return
	}

	s.setSessionCookie(w, sess.Token, sess.ExpiresAt)
	writeJSON(w, http.StatusOK, loginResponse{
		User:      summarize(sess.User),
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	writeJSON(w, http.StatusOK, principalResponse{ID: p.ID, Email: p.Email, Role: string(p.Role)})
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, errBadBody)
		return
	}

	err := s.users.ForgotPassword(r.Context(), req.Email)
	s.metrics.Observe("forgot_password", err)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "password reset link sent"})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, errBadBody)
		return
	}

	err := s.users.ResetPassword(r.Context(), req.Token, req.Password)
	s.metrics.Observe("reset_password", err)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "role": string(p.Role)})
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookie.Name,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(s.cookie.TTL.Seconds()),
		HttpOnly: true,
		Secure:   s.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func summarize(u *models.User) userSummary {
	return userSummary{
		ID:             u.ID,
		FullName:       u.FullName,
		Email:          u.Email,
		Role:           string(u.Role),
		ProfilePicture: u.ProfilePictureRef,
		IsVerified:     u.IsVerified,
		ManagerID:      u.ManagerID,
	}
}
