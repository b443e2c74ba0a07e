package model

// MailTask : задача на отправку письма, кладётся в очередь в Redis
// и обрабатывается фоновым воркером
type MailTask struct {
	Recipients []string `json:"recipients"`
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
}
