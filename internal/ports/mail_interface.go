package ports

import (
	"context"

	"book-review-api/internal/model"
)

// MailQueue : асинхронная отправка писем.
// Enqueue только ставит задачу в очередь, само письмо уходит из воркера.
type MailQueue interface {
	Enqueue(ctx context.Context, task *model.MailTask) error
}
