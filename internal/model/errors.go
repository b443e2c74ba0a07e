package model

import "errors"

// Типизированные ошибки аутентификации и авторизации.
// Хендлеры сопоставляют их через errors.Is и отдают клиенту только
// безопасные сообщения, без внутренних деталей.
var (
	ErrMissingCredentials     = errors.New("отсутствует bearer токен")
	ErrTokenInvalid           = errors.New("невалидный токен")
	ErrTokenExpired           = errors.New("токен просрочен")
	ErrAccessTokenRequired    = errors.New("требуется access токен")
	ErrRefreshTokenRequired   = errors.New("требуется refresh токен")
	ErrUserNotFound           = errors.New("пользователь не найден")
	ErrAccountNotVerified     = errors.New("аккаунт не подтверждён")
	ErrInsufficientPermission = errors.New("недостаточно прав")
	ErrInvalidCredentials     = errors.New("неверный email или пароль")
	ErrUserAlreadyExists      = errors.New("пользователь уже существует")
	ErrStoreUnavailable       = errors.New("хранилище токенов недоступно")
	ErrInvalidRating          = errors.New("оценка должна быть от 1 до 5")
)
