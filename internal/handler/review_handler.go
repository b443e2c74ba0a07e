package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"book-review-api/internal/model"
	"book-review-api/internal/model/requestresponse"
	"book-review-api/internal/ports"
	"book-review-api/internal/repository"
	"book-review-api/internal/util"

	"github.com/go-chi/chi/v5"
)

type ReviewHandler struct {
	ports.ReviewService
}

func NewReviewHandler(reviewService ports.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService}
}

// AddReview godoc
// @Summary Добавление отзыва к книге
// @Tags Reviews
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Param uuid path string true "UUID книги"
// @Param body body requestresponse.AddReviewRequest true "Тело запроса"
// @Success 201 {object} model.Review
// @Failure 400 {object} requestresponse.ErrorResponse "Оценка вне диапазона 1..5"
// @Failure 404 {object} requestresponse.ErrorResponse "Книга не найдена"
// @Router /api/books/{uuid}/reviews [post]
func (h *ReviewHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	bookUUID := chi.URLParam(r, "uuid")

	var req requestresponse.AddReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, 400, "некорректный JSON")
		return
	}

	review := &model.Review{
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
		BookUUID:   bookUUID,
	}

	created, err := h.ReviewService.AddReview(r.Context(), review)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, repository.ErrBookNotFound):
			util.HandleError(w, repository.ErrBookNotFound.Error(), http.StatusNotFound)
		case errors.Is(err, model.ErrInvalidRating):
			util.HandleError(w, model.ErrInvalidRating.Error(), http.StatusBadRequest)
		default:
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(201)
	json.NewEncoder(w).Encode(created)
}

// GetReview godoc
// @Summary Отзыв по UUID
// @Tags Reviews
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Param uuid path string true "UUID отзыва"
// @Success 200 {object} model.Review
// @Failure 404 {object} requestresponse.ErrorResponse "Отзыв не найден"
// @Router /api/reviews/{uuid} [get]
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	reviewUUID := chi.URLParam(r, "uuid")

	review, err := h.ReviewService.GetReview(r.Context(), reviewUUID)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, repository.ErrReviewNotFound):
			util.HandleError(w, repository.ErrReviewNotFound.Error(), http.StatusNotFound)
		default:
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(review)
}

// ListBookReviews godoc
// @Summary Отзывы книги
// @Tags Reviews
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Param uuid path string true "UUID книги"
// @Success 200 {array} model.Review
// @Router /api/books/{uuid}/reviews [get]
func (h *ReviewHandler) ListBookReviews(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	bookUUID := chi.URLParam(r, "uuid")

	reviews, err := h.ReviewService.ListBookReviews(r.Context(), bookUUID)
	if err != nil {
		log.Println(err)
		util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(reviews)
}

// DeleteReview godoc
// @Summary Удаление своего отзыва
// @Tags Reviews
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Param uuid path string true "UUID отзыва"
// @Success 200 {object} requestresponse.MessageResponse
// @Failure 404 {object} requestresponse.ErrorResponse "Отзыв не найден или принадлежит другому пользователю"
// @Router /api/reviews/{uuid} [delete]
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	reviewUUID := chi.URLParam(r, "uuid")

	if err := h.ReviewService.DeleteReview(r.Context(), reviewUUID); err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, repository.ErrReviewNotFound):
			util.HandleError(w, repository.ErrReviewNotFound.Error(), http.StatusNotFound)
		default:
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(requestresponse.MessageResponse{Message: "Отзыв удалён"})
}
