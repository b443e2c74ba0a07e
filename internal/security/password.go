package security

import (
	"book-review-api/internal/util"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword : хэширует пароль через bcrypt.
// Соль генерируется на каждый вызов, поэтому один и тот же пароль
// даёт разные хэши.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", util.LogError("ошибка хэширования пароля", err)
	}
	return string(hash), nil
}

// CheckPassword : сверяет пароль с хэшем.
// На битом хэше не паникует и не возвращает ошибку, просто false.
func CheckPassword(password string, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
