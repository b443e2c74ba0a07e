package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"book-review-api/config"
	"book-review-api/internal/model"
	"book-review-api/internal/ports"
	"book-review-api/internal/security"
	"book-review-api/internal/util"

	"github.com/google/uuid"
)

type AuthenticationService struct {
	userRepository ports.UserRepository
	jwtService     ports.JWTServiceInterface
	blocklist      ports.BlocklistRepositoryInterface
	mailQueue      ports.MailQueue
	verifyCodec    ports.LinkTokenCodecInterface
	resetCodec     ports.LinkTokenCodecInterface
	*config.AppConfig
}

func NewAuthenticationService(
	userRepository ports.UserRepository,
	jwtService ports.JWTServiceInterface,
	blocklist ports.BlocklistRepositoryInterface,
	mailQueue ports.MailQueue,
	verifyCodec ports.LinkTokenCodecInterface,
	resetCodec ports.LinkTokenCodecInterface,
	cfg *config.AppConfig,
) *AuthenticationService {
	return &AuthenticationService{
		userRepository,
		jwtService,
		blocklist,
		mailQueue,
		verifyCodec,
		resetCodec,
		cfg,
	}
}

// Login : аутентификация по email и паролю.
// Неизвестный email и неверный пароль дают одну и ту же ошибку
// ErrInvalidCredentials: клиенту не сообщаем, какое поле не подошло.
func (s *AuthenticationService) Login(ctx context.Context, email, password string) (*model.TokensPair, *model.User, error) {
	db, ok := config.DatabaseFromContext(ctx)
	if !ok {
		return nil, nil, fmt.Errorf("[AuthService] database connection не найден в context")
	}

	user, err := s.userRepository.FindByEmail(ctx, db, email)
	if errors.Is(err, model.ErrUserNotFound) {
		return nil, nil, model.ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, util.LogError("[AuthService] ошибка поиска пользователя", err)
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, nil, model.ErrInvalidCredentials
	}

	tokens, err := s.jwtService.GenerateAccessRefreshTokens(user)
	if err != nil {
		return nil, nil, util.LogError("[AuthService] ошибка генерации токенов", err)
	}

	return tokens, user, nil
}

// RefreshAccessToken : выпускает новый access токен по refresh токену.
// Claims приходят из guard'а refresh-токенов; срок перепроверяется здесь же,
// а не доверяется библиотеке. Роль берётся из снимка в токене,
// до истечения refresh токена в БД не заглядываем.
func (s *AuthenticationService) RefreshAccessToken(ctx context.Context, claims *security.Claims) (string, error) {
	if claims.ExpiresAt == nil || time.Now().After(claims.ExpiresAt.Time) {
		return "", model.ErrTokenExpired
	}

	accessToken, _, err := s.jwtService.GenerateToken(claims.Email, claims.UserUUID, claims.Role, false)
	if err != nil {
		return "", util.LogError("[AuthService] ошибка генерации access токена", err)
	}

	return accessToken, nil
}

// Logout : отзывает access токен по его jti.
// Запись в Redis живёт столько же, сколько жил бы сам токен.
func (s *AuthenticationService) Logout(ctx context.Context, jti string) error {
	if err := s.blocklist.AddJTI(ctx, jti); err != nil {
		return err
	}

	log.Printf("[AuthService] токен %s отозван", jti)
	return nil
}

// Signup : регистрирует нового пользователя и отправляет письмо
// со ссылкой подтверждения. Аккаунт создаётся неподтверждённым
// с ролью user.
func (s *AuthenticationService) Signup(ctx context.Context, user *model.User, password string) (*model.User, error) {
	db, ok := config.DatabaseFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("[AuthService] database connection не найден в context")
	}

	exists, err := s.userRepository.ExistsByEmail(ctx, db, user.Email)
	if err != nil {
		return nil, util.LogError("[AuthService] ошибка проверки email", err)
	}
	if exists {
		return nil, model.ErrUserAlreadyExists
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, util.LogError("[AuthService] не удалось создать хэш пароля", err)
	}

	user.UUID = uuid.New().String()
	user.Role = "user"
	user.IsVerified = false
	user.PasswordHash = hash

	created, err := s.userRepository.CreateUser(ctx, db, user)
	if err != nil {
		return nil, util.LogError("[AuthService] ошибка создания пользователя", err)
	}

	token, err := s.verifyCodec.Encode(map[string]string{"email": created.Email})
	if err != nil {
		return nil, util.LogError("[AuthService] ошибка генерации ссылки подтверждения", err)
	}

	link := fmt.Sprintf("http://%s/api/auth/verify/%s", s.Domain, token)
	task := &model.MailTask{
		Recipients: []string{created.Email},
		Subject:    "Подтвердите ваш email",
		Body: fmt.Sprintf(`<h1>Подтверждение email</h1>
<p>Перейдите по <a href="%s">ссылке</a>, чтобы подтвердить аккаунт</p>`, link),
	}
	if err := s.mailQueue.Enqueue(ctx, task); err != nil {
		// аккаунт уже создан, письмо можно запросить повторно
		log.Printf("[AuthService] письмо подтверждения не поставлено в очередь: %v", err)
	}

	return created, nil
}

// VerifyEmail : подтверждает аккаунт по ссылке из письма.
// Ссылка одноразовая: атомарный ConsumeLink гасит её до записи в БД,
// повторный переход даёт ErrTokenInvalid.
func (s *AuthenticationService) VerifyEmail(ctx context.Context, token string) error {
	maxAge, err := time.ParseDuration(s.JWT.LinkMaxAge)
	if err != nil {
		return util.LogError("[AuthService] ошибка парсинга max age ссылки", err)
	}

	payload, err := s.verifyCodec.Decode(token, maxAge)
	if err != nil {
		return err
	}

	email := payload["email"]
	if email == "" {
		return model.ErrTokenInvalid
	}

	consumed, err := s.blocklist.ConsumeLink(ctx, security.LinkFingerprint(token), maxAge)
	if err != nil {
		return err
	}
	if !consumed {
		return model.ErrTokenInvalid
	}

	db, ok := config.DatabaseFromContext(ctx)
	if !ok {
		return fmt.Errorf("[AuthService] database connection не найден в context")
	}

	user, err := s.userRepository.FindByEmail(ctx, db, email)
	if err != nil {
		return err
	}

	if err := s.userRepository.MarkVerified(ctx, db, user.UUID); err != nil {
		return util.LogError("[AuthService] не удалось подтвердить аккаунт", err)
	}

	log.Printf("[AuthService] аккаунт %s подтверждён", user.UUID)
	return nil
}

// RequestPasswordReset : отправляет письмо со ссылкой сброса пароля.
// Всегда отвечает успехом: по ответу нельзя узнать, есть ли такой email.
func (s *AuthenticationService) RequestPasswordReset(ctx context.Context, email string) error {
	token, err := s.resetCodec.Encode(map[string]string{"email": email})
	if err != nil {
		return util.LogError("[AuthService] ошибка генерации ссылки сброса", err)
	}

	link := fmt.Sprintf("http://%s/api/auth/password-reset/%s", s.Domain, token)
	task := &model.MailTask{
		Recipients: []string{email},
		Subject:    "Сброс пароля",
		Body: fmt.Sprintf(`<h1>Сброс пароля</h1>
<p>Перейдите по <a href="%s">ссылке</a>, чтобы задать новый пароль</p>`, link),
	}
	if err := s.mailQueue.Enqueue(ctx, task); err != nil {
		return util.LogError("[AuthService] письмо сброса не поставлено в очередь", err)
	}

	return nil
}

// ConfirmPasswordReset : задаёт новый пароль по ссылке из письма.
// Ссылка одноразовая, как и при подтверждении email.
func (s *AuthenticationService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	maxAge, err := time.ParseDuration(s.JWT.LinkMaxAge)
	if err != nil {
		return util.LogError("[AuthService] ошибка парсинга max age ссылки", err)
	}

	payload, err := s.resetCodec.Decode(token, maxAge)
	if err != nil {
		return err
	}

	email := payload["email"]
	if email == "" {
		return model.ErrTokenInvalid
	}

	consumed, err := s.blocklist.ConsumeLink(ctx, security.LinkFingerprint(token), maxAge)
	if err != nil {
		return err
	}
	if !consumed {
		return model.ErrTokenInvalid
	}

	db, ok := config.DatabaseFromContext(ctx)
	if !ok {
		return fmt.Errorf("[AuthService] database connection не найден в context")
	}

	user, err := s.userRepository.FindByEmail(ctx, db, email)
	if err != nil {
		return err
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return util.LogError("[AuthService] не удалось создать хэш пароля", err)
	}

	if err := s.userRepository.UpdatePassword(ctx, db, user.UUID, hash); err != nil {
		return util.LogError("[AuthService] не удалось обновить пароль", err)
	}

	log.Printf("[AuthService] пароль пользователя %s сброшен", user.UUID)
	return nil
}
