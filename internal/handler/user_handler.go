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
)

type UserHandler struct {
	ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService}
}

// Me godoc
// @Summary Профиль текущего пользователя
// @Description Возвращает пользователя и его книги. Доступен только подтверждённым аккаунтам
// @Tags Users
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.ProfileResponse
// @Failure 401 {object} requestresponse.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} requestresponse.ErrorResponse "Аккаунт не подтверждён или нет прав"
// @Failure 404 {object} requestresponse.ErrorResponse "Пользователь не найден"
// @Router /api/users/me [get]
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	current, err := security.GetCurrentUserFromContext(ctx)
	if err != nil {
		sendErrorResponse(w, 401, "не авторизован")
		return
	}

	user, books, err := h.UserService.GetProfile(ctx, current.UUID)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, model.ErrUserNotFound):
			util.HandleError(w, model.ErrUserNotFound.Error(), http.StatusNotFound)
		default:
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(requestresponse.ProfileResponse{
		User:  user,
		Books: books,
	})
}

func sendErrorResponse(w http.ResponseWriter, code int, text string) {
	w.WriteHeader(code)
	response := requestresponse.ErrorResponse{
		Error: requestresponse.ErrorDetail{
			Code: code,
			Text: text,
		},
	}
	json.NewEncoder(w).Encode(response)
}
