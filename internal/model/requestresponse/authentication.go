package requestresponse

import "book-review-api/internal/model"

// ErrorResponse : тело ответа с ошибкой
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code int    `json:"code" example:"401"`
	Text string `json:"text" example:"невалидный токен"`
}

// MessageResponse : простой ответ с сообщением
type MessageResponse struct {
	Message string `json:"message" example:"Аккаунт подтверждён"`
}

// LoginRequest : тело запроса на аутентификацию
type LoginRequest struct {
	Email    string `json:"email" example:"reader@example.com"`
	Password string `json:"password" example:"P@ssw0rd123"`
}

// LoginResponse : ответ на успешную аутентификацию
type LoginResponse struct {
	Message string            `json:"message" example:"Вход выполнен"`
	Tokens  *model.TokensPair `json:"tokens"`
	User    struct {
		UUID  string `json:"uuid" example:"b6a1e1c4-4b1d-4f1e-8b29-1234567890ab"`
		Email string `json:"email" example:"reader@example.com"`
	} `json:"user"`
}

// RefreshResponse : новый access токен
type RefreshResponse struct {
	AccessToken string `json:"access_token" example:"eyJhbGciOiJIUzUxMiIsInR5cCI6IkpXVCJ9..."`
}

// SignupRequest : тело запроса регистрации
type SignupRequest struct {
	Username  string `json:"username" example:"reader42"`
	Email     string `json:"email" example:"reader@example.com"`
	FirstName string `json:"first_name" example:"Иван"`
	LastName  string `json:"last_name" example:"Иванов"`
	Password  string `json:"password" example:"P@ssw0rd123"`
}

// SignupResponse : ответ на успешную регистрацию
type SignupResponse struct {
	Message string      `json:"message" example:"Аккаунт создан! Проверьте почту для подтверждения"`
	User    *model.User `json:"user"`
}

// PasswordResetRequest : запрос ссылки сброса пароля
type PasswordResetRequest struct {
	Email string `json:"email" example:"reader@example.com"`
}

// PasswordResetConfirmRequest : установка нового пароля по ссылке
type PasswordResetConfirmRequest struct {
	NewPassword        string `json:"new_password" example:"NewP@ssw0rd"`
	ConfirmNewPassword string `json:"confirm_new_password" example:"NewP@ssw0rd"`
}
