package util

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// LogError : пишет ошибку в лог и возвращает её обёрнутой тем же сообщением.
// Вызывающая сторона отдаёт результат дальше по цепочке без повторного логирования.
func LogError(message string, err error) error {
	log.Printf("%s: %v", message, err)
	return fmt.Errorf("%s: %w", message, err)
}

// HandleError : отдаёт клиенту JSON с текстом ошибки и HTTP-кодом
func HandleError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Code    int    `json:"code"`
	}{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}

	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		log.Printf("не удалось сериализовать ответ с ошибкой: %v", err)
	}
}
