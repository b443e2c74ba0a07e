package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/smtp"
	"strings"
	"time"

	"book-review-api/config"
	"book-review-api/internal/model"
	"book-review-api/internal/util"

	"github.com/redis/go-redis/v9"
)

const mailQueueKey = "mail_tasks"

// MailQueue : очередь писем в Redis.
// Хендлеры кладут задачу через Enqueue и не ждут отправки,
// письма уходят из фонового воркера. Очередь общая для всех
// процессов деплоя.
type MailQueue struct {
	client *config.RedisClient
	cfg    *config.MailConfig
}

func NewMailQueue(rdb *config.RedisClient, cfg *config.MailConfig) *MailQueue {
	return &MailQueue{client: rdb, cfg: cfg}
}

// Enqueue : кладёт задачу на отправку письма в очередь
func (q *MailQueue) Enqueue(ctx context.Context, task *model.MailTask) error {
	data, err := json.Marshal(task)
	if err != nil {
		return util.LogError("[MailQueue] ошибка сериализации задачи", err)
	}

	if err := q.client.Client.LPush(ctx, mailQueueKey, data).Err(); err != nil {
		return util.LogError("[MailQueue] не удалось поставить задачу в очередь", err)
	}

	return nil
}

// RunWorker : забирает задачи из очереди и отправляет письма.
// Запускается одной горутиной из main, останавливается по контексту.
func (q *MailQueue) RunWorker(ctx context.Context) {
	log.Println("[MailQueue] воркер отправки писем запущен")

	for {
		result, err := q.client.Client.BRPop(ctx, 5*time.Second, mailQueueKey).Result()
		if errors.Is(err, redis.Nil) {
			continue // очередь пуста
		}
		if err != nil {
			if ctx.Err() != nil {
				log.Println("[MailQueue] воркер остановлен")
				return
			}
			log.Printf("[MailQueue] ошибка чтения очереди: %v", err)
			time.Sleep(time.Second)
			continue
		}

		var task model.MailTask
		if err := json.Unmarshal([]byte(result[1]), &task); err != nil {
			log.Printf("[MailQueue] битая задача в очереди: %v", err)
			continue
		}

		if err := q.sendMail(&task); err != nil {
			log.Printf("[MailQueue] ошибка отправки письма: %v", err)
			continue
		}

		log.Printf("[MailQueue] письмо %q отправлено", task.Subject)
	}
}

func (q *MailQueue) sendMail(task *model.MailTask) error {
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", q.cfg.FromName, q.cfg.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(task.Recipients, ", ")))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", task.Subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(task.Body)

	addr := net.JoinHostPort(q.cfg.Host, q.cfg.Port)
	auth := smtp.PlainAuth("", q.cfg.Username, q.cfg.Password, q.cfg.Host)

	if err := smtp.SendMail(addr, auth, q.cfg.From, task.Recipients, []byte(msg.String())); err != nil {
		return fmt.Errorf("ошибка SMTP: %w", err)
	}

	return nil
}
