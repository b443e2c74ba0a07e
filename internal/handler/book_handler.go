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
	"book-review-api/internal/security"
	"book-review-api/internal/util"

	"github.com/go-chi/chi/v5"
)

type BookHandler struct {
	ports.BookService
}

func NewBookHandler(bookService ports.BookService) *BookHandler {
	return &BookHandler{bookService}
}

// ListBooks godoc
// @Summary Список всех книг
// @Tags Books
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {array} model.Book
// @Failure 401 {object} requestresponse.ErrorResponse "Пользователь не авторизован"
// @Router /api/books [get]
func (h *BookHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	books, err := h.BookService.ListBooks(r.Context())
	if err != nil {
		log.Println(err)
		util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(books)
}

// MyBooks godoc
// @Summary Книги текущего пользователя
// @Tags Books
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {array} model.Book
// @Failure 401 {object} requestresponse.ErrorResponse "Пользователь не авторизован"
// @Router /api/books/my [get]
func (h *BookHandler) MyBooks(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		sendErrorResponse(w, 401, "не авторизован")
		return
	}

	books, err := h.BookService.ListUserBooks(ctx, claims.UserUUID)
	if err != nil {
		log.Println(err)
		util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(books)
}

// GetBook godoc
// @Summary Книга с отзывами и тегами
// @Tags Books
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Param uuid path string true "UUID книги"
// @Success 200 {object} model.BookDetail
// @Failure 404 {object} requestresponse.ErrorResponse "Книга не найдена"
// @Router /api/books/{uuid} [get]
func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	bookUUID := chi.URLParam(r, "uuid")

	detail, err := h.BookService.GetBook(r.Context(), bookUUID)
	if err != nil {
		log.Println(err)
		handleBookError(w, err)
		return
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(detail)
}

// CreateBook godoc
// @Summary Добавление книги
// @Tags Books
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Param body body requestresponse.BookRequest true "Тело запроса"
// @Success 201 {object} model.Book
// @Failure 400 {object} requestresponse.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} requestresponse.ErrorResponse "Пользователь не авторизован"
// @Router /api/books [post]
func (h *BookHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req requestresponse.BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, 400, "некорректный JSON")
		return
	}
	if req.Title == "" || req.Author == "" {
		sendErrorResponse(w, 400, "title и author обязательны")
		return
	}

	book := &model.Book{
		Title:         req.Title,
		Author:        req.Author,
		Publisher:     req.Publisher,
		PublishedDate: req.PublishedDate,
		PageCount:     req.PageCount,
		Language:      req.Language,
	}

	created, err := h.BookService.CreateBook(r.Context(), book)
	if err != nil {
		log.Println(err)
		util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(201)
	json.NewEncoder(w).Encode(created)
}

// UpdateBook godoc
// @Summary Обновление книги
// @Description Обновить можно только свою книгу
// @Tags Books
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Param uuid path string true "UUID книги"
// @Param body body requestresponse.BookRequest true "Тело запроса"
// @Success 200 {object} requestresponse.MessageResponse
// @Failure 403 {object} requestresponse.ErrorResponse "Нет прав на книгу"
// @Failure 404 {object} requestresponse.ErrorResponse "Книга не найдена"
// @Router /api/books/{uuid} [put]
func (h *BookHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	bookUUID := chi.URLParam(r, "uuid")

	var req requestresponse.BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, 400, "некорректный JSON")
		return
	}

	book := &model.Book{
		UUID:          bookUUID,
		Title:         req.Title,
		Author:        req.Author,
		Publisher:     req.Publisher,
		PublishedDate: req.PublishedDate,
		PageCount:     req.PageCount,
		Language:      req.Language,
	}

	if err := h.BookService.UpdateBook(r.Context(), book); err != nil {
		log.Println(err)
		handleBookError(w, err)
		return
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(requestresponse.MessageResponse{Message: "Книга обновлена"})
}

// DeleteBook godoc
// @Summary Удаление книги
// @Description Удалить можно свою книгу, admin может удалить любую
// @Tags Books
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Param uuid path string true "UUID книги"
// @Success 200 {object} requestresponse.MessageResponse
// @Failure 403 {object} requestresponse.ErrorResponse "Нет прав на книгу"
// @Failure 404 {object} requestresponse.ErrorResponse "Книга не найдена"
// @Router /api/books/{uuid} [delete]
func (h *BookHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	bookUUID := chi.URLParam(r, "uuid")

	if err := h.BookService.DeleteBook(r.Context(), bookUUID); err != nil {
		log.Println(err)
		handleBookError(w, err)
		return
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(requestresponse.MessageResponse{Message: "Книга удалена"})
}

// CoverUploadURL godoc
// @Summary URL для загрузки обложки
// @Description Выдаёт pre-signed PUT URL, по которому клиент загружает обложку напрямую в S3
// @Tags Books
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Param uuid path string true "UUID книги"
// @Success 200 {object} requestresponse.CoverURLResponse
// @Failure 403 {object} requestresponse.ErrorResponse "Нет прав на книгу"
// @Failure 404 {object} requestresponse.ErrorResponse "Книга не найдена"
// @Router /api/books/{uuid}/cover [put]
func (h *BookHandler) CoverUploadURL(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	bookUUID := chi.URLParam(r, "uuid")

	url, err := h.BookService.CoverUploadURL(r.Context(), bookUUID)
	if err != nil {
		log.Println(err)
		handleBookError(w, err)
		return
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(requestresponse.CoverURLResponse{URL: url})
}

// CoverDownloadURL godoc
// @Summary URL обложки
// @Description Выдаёт pre-signed GET URL обложки книги
// @Tags Books
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Param uuid path string true "UUID книги"
// @Success 200 {object} requestresponse.CoverURLResponse
// @Failure 404 {object} requestresponse.ErrorResponse "Книга не найдена"
// @Router /api/books/{uuid}/cover [get]
func (h *BookHandler) CoverDownloadURL(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	bookUUID := chi.URLParam(r, "uuid")

	url, err := h.BookService.CoverDownloadURL(r.Context(), bookUUID)
	if err != nil {
		log.Println(err)
		handleBookError(w, err)
		return
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(requestresponse.CoverURLResponse{URL: url})
}

func handleBookError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrBookNotFound):
		util.HandleError(w, repository.ErrBookNotFound.Error(), http.StatusNotFound)
	case errors.Is(err, model.ErrInsufficientPermission):
		util.HandleError(w, model.ErrInsufficientPermission.Error(), http.StatusForbidden)
	default:
		util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
	}
}
