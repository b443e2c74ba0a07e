package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"book-review-api/internal/model"
	"book-review-api/internal/model/requestresponse"
	"book-review-api/internal/ports"
	"book-review-api/internal/security"
	"book-review-api/internal/util"

	"github.com/go-chi/chi/v5"
)

type AuthenticationHandler struct {
	ports.AuthenticationService
}

func NewAuthenticationHandler(authenticationService ports.AuthenticationService) *AuthenticationHandler {
	return &AuthenticationHandler{authenticationService}
}

// Login godoc
// @Summary Аутентификация пользователя
// @Description Получение пары access/refresh токенов по email и паролю
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.LoginRequest true "Тело запроса"
// @Success 200 {object} requestresponse.LoginResponse "Успешная аутентификация"
// @Failure 400 {object} requestresponse.ErrorResponse "Некорректный JSON или пустые поля"
// @Failure 403 {object} requestresponse.ErrorResponse "Неверный email или пароль"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/login [post]
func (h *AuthenticationHandler) Login(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	var req requestresponse.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, 400, "некорректный JSON")
		return
	}

	if req.Email == "" || req.Password == "" {
		sendErrorResponse(w, 400, "email и password обязательны")
		return
	}

	tokens, user, err := h.AuthenticationService.Login(ctx, req.Email, req.Password)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, model.ErrInvalidCredentials):
			util.HandleError(w, model.ErrInvalidCredentials.Error(), http.StatusForbidden)
		default:
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	resp := requestresponse.LoginResponse{
		Message: "Вход выполнен",
		Tokens:  tokens,
	}
	resp.User.UUID = user.UUID
	resp.User.Email = user.Email

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(resp)
}

// RefreshToken godoc
// @Summary Обновление access токена
// @Description Выпускает новый access токен по refresh токену из заголовка Authorization
// @Tags Authentication
// @Produce json
// @Param Authorization header string true "Bearer refresh токен" default(Bearer <refresh_token>)
// @Success 200 {object} requestresponse.RefreshResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Токен просрочен"
// @Failure 401 {object} requestresponse.ErrorResponse "Пользователь не авторизован"
// @Router /api/auth/refresh [get]
func (h *AuthenticationHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		sendErrorResponse(w, 401, "не авторизован")
		return
	}

	accessToken, err := h.AuthenticationService.RefreshAccessToken(ctx, claims)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, model.ErrTokenExpired):
			util.HandleError(w, model.ErrTokenExpired.Error(), http.StatusBadRequest)
		default:
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	resp := requestresponse.RefreshResponse{AccessToken: accessToken}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(resp)
}

// Logout godoc
// @Summary Завершение сессии
// @Description Отзывает текущий access токен, дальше он отклоняется до истечения срока
// @Tags Authentication
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.MessageResponse
// @Failure 401 {object} requestresponse.ErrorResponse "Пользователь не авторизован"
// @Failure 503 {object} requestresponse.ErrorResponse "Хранилище токенов недоступно"
// @Router /api/auth/logout [get]
func (h *AuthenticationHandler) Logout(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		sendErrorResponse(w, 401, "не авторизован")
		return
	}

	if err := h.AuthenticationService.Logout(ctx, claims.ID); err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, model.ErrStoreUnavailable):
			util.HandleError(w, model.ErrStoreUnavailable.Error(), http.StatusServiceUnavailable)
		default:
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(requestresponse.MessageResponse{Message: "Выход выполнен"})
}

// Signup godoc
// @Summary Регистрация пользователя
// @Description Создаёт неподтверждённый аккаунт и отправляет письмо со ссылкой подтверждения
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.SignupRequest true "Тело запроса"
// @Success 201 {object} requestresponse.SignupResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Некорректный JSON или пустые поля"
// @Failure 403 {object} requestresponse.ErrorResponse "Пользователь уже существует"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/signup [post]
func (h *AuthenticationHandler) Signup(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	var req requestresponse.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, 400, "некорректный JSON")
		return
	}

	if req.Email == "" || req.Password == "" || req.Username == "" {
		sendErrorResponse(w, 400, "username, email и password обязательны")
		return
	}

	user := &model.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}

	created, err := h.AuthenticationService.Signup(ctx, user, req.Password)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, model.ErrUserAlreadyExists):
			util.HandleError(w, model.ErrUserAlreadyExists.Error(), http.StatusForbidden)
		default:
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(201)
	json.NewEncoder(w).Encode(requestresponse.SignupResponse{
		Message: "Аккаунт создан! Проверьте почту для подтверждения",
		User:    created,
	})
}

// VerifyEmail godoc
// @Summary Подтверждение email
// @Description Подтверждает аккаунт по одноразовой ссылке из письма
// @Tags Authentication
// @Produce json
// @Param token path string true "Подписанный токен из письма"
// @Success 200 {object} requestresponse.MessageResponse
// @Failure 401 {object} requestresponse.ErrorResponse "Ссылка невалидна или просрочена"
// @Failure 404 {object} requestresponse.ErrorResponse "Пользователь не найден"
// @Failure 503 {object} requestresponse.ErrorResponse "Хранилище токенов недоступно"
// @Router /api/auth/verify/{token} [get]
func (h *AuthenticationHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	token := chi.URLParam(r, "token")

	if err := h.AuthenticationService.VerifyEmail(ctx, token); err != nil {
		log.Println(err)
		handleLinkError(w, err)
		return
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(requestresponse.MessageResponse{Message: "Аккаунт подтверждён"})
}

// RequestPasswordReset godoc
// @Summary Запрос сброса пароля
// @Description Отправляет письмо со ссылкой сброса пароля. Ответ не раскрывает, существует ли email
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.PasswordResetRequest true "Тело запроса"
// @Success 200 {object} requestresponse.MessageResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Некорректный JSON"
// @Router /api/auth/password-reset [post]
func (h *AuthenticationHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	var req requestresponse.PasswordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, 400, "некорректный JSON")
		return
	}
	if req.Email == "" {
		sendErrorResponse(w, 400, "email обязателен")
		return
	}

	if err := h.AuthenticationService.RequestPasswordReset(ctx, req.Email); err != nil {
		log.Println(err)
		util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(requestresponse.MessageResponse{
		Message: "Проверьте почту: там инструкции по сбросу пароля",
	})
}

// ConfirmPasswordReset godoc
// @Summary Установка нового пароля
// @Description Задаёт новый пароль по одноразовой ссылке из письма
// @Tags Authentication
// @Accept json
// @Produce json
// @Param token path string true "Подписанный токен из письма"
// @Param body body requestresponse.PasswordResetConfirmRequest true "Тело запроса"
// @Success 200 {object} requestresponse.MessageResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Пароли не совпадают"
// @Failure 401 {object} requestresponse.ErrorResponse "Ссылка невалидна или просрочена"
// @Failure 404 {object} requestresponse.ErrorResponse "Пользователь не найден"
// @Failure 503 {object} requestresponse.ErrorResponse "Хранилище токенов недоступно"
// @Router /api/auth/password-reset/{token} [post]
func (h *AuthenticationHandler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	token := chi.URLParam(r, "token")

	var req requestresponse.PasswordResetConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, 400, "некорректный JSON")
		return
	}
	if req.NewPassword == "" || req.NewPassword != req.ConfirmNewPassword {
		sendErrorResponse(w, 400, "пароли не совпадают")
		return
	}

	if err := h.AuthenticationService.ConfirmPasswordReset(ctx, token, req.NewPassword); err != nil {
		log.Println(err)
		handleLinkError(w, err)
		return
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(requestresponse.MessageResponse{Message: "Пароль сброшен"})
}

// handleLinkError : единое сопоставление ошибок подписанных ссылок к HTTP статусам
func handleLinkError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrTokenExpired):
		util.HandleError(w, model.ErrTokenExpired.Error(), http.StatusUnauthorized)
	case errors.Is(err, model.ErrTokenInvalid):
		util.HandleError(w, model.ErrTokenInvalid.Error(), http.StatusUnauthorized)
	case errors.Is(err, model.ErrUserNotFound):
		util.HandleError(w, model.ErrUserNotFound.Error(), http.StatusNotFound)
	case errors.Is(err, model.ErrStoreUnavailable):
		util.HandleError(w, model.ErrStoreUnavailable.Error(), http.StatusServiceUnavailable)
	default:
		util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
	}
}
