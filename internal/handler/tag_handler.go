package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"book-review-api/internal/model/requestresponse"
	"book-review-api/internal/ports"
	"book-review-api/internal/repository"
	"book-review-api/internal/util"

	"github.com/go-chi/chi/v5"
)

type TagHandler struct {
	ports.TagService
}

func NewTagHandler(tagService ports.TagService) *TagHandler {
	return &TagHandler{tagService}
}

// ListTags godoc
// @Summary Список тегов
// @Tags Tags
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {array} model.Tag
// @Router /api/tags [get]
func (h *TagHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	tags, err := h.TagService.ListTags(r.Context())
	if err != nil {
		log.Println(err)
		util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(tags)
}

// CreateTag godoc
// @Summary Создание тега
// @Description Доступно только пользователям с ролью admin
// @Tags Tags
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Param body body requestresponse.CreateTagRequest true "Тело запроса"
// @Success 201 {object} model.Tag
// @Failure 400 {object} requestresponse.ErrorResponse "Пустое имя тега"
// @Failure 403 {object} requestresponse.ErrorResponse "Недостаточно прав"
// @Router /api/tags [post]
func (h *TagHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req requestresponse.CreateTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, 400, "некорректный JSON")
		return
	}
	if req.Name == "" {
		sendErrorResponse(w, 400, "name обязателен")
		return
	}

	created, err := h.TagService.CreateTag(r.Context(), req.Name)
	if err != nil {
		log.Println(err)
		util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(201)
	json.NewEncoder(w).Encode(created)
}

// AttachTag godoc
// @Summary Привязка тега к книге
// @Tags Tags
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Param uuid path string true "UUID книги"
// @Param body body requestresponse.AttachTagRequest true "Тело запроса"
// @Success 200 {object} requestresponse.MessageResponse
// @Failure 404 {object} requestresponse.ErrorResponse "Книга или тег не найдены"
// @Router /api/books/{uuid}/tags [post]
func (h *TagHandler) AttachTag(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	bookUUID := chi.URLParam(r, "uuid")

	var req requestresponse.AttachTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, 400, "некорректный JSON")
		return
	}

	if err := h.TagService.AttachTagToBook(r.Context(), bookUUID, req.TagUUID); err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, repository.ErrBookNotFound):
			util.HandleError(w, repository.ErrBookNotFound.Error(), http.StatusNotFound)
		case errors.Is(err, repository.ErrTagNotFound):
			util.HandleError(w, repository.ErrTagNotFound.Error(), http.StatusNotFound)
		default:
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(requestresponse.MessageResponse{Message: "Тег привязан к книге"})
}

// DeleteTag godoc
// @Summary Удаление тега
// @Description Доступно только пользователям с ролью admin
// @Tags Tags
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Param uuid path string true "UUID тега"
// @Success 200 {object} requestresponse.MessageResponse
// @Failure 404 {object} requestresponse.ErrorResponse "Тег не найден"
// @Router /api/tags/{uuid} [delete]
func (h *TagHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	tagUUID := chi.URLParam(r, "uuid")

	if err := h.TagService.DeleteTag(r.Context(), tagUUID); err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, repository.ErrTagNotFound):
			util.HandleError(w, repository.ErrTagNotFound.Error(), http.StatusNotFound)
		default:
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(requestresponse.MessageResponse{Message: "Тег удалён"})
}
