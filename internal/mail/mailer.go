package mail

import (
	"gopkg.in/gomail.v2"

	"github.com/d60-Lab/dodam/config"
)

// Sender 外发邮件抽象，便于服务层脱离 SMTP 测试
type Sender interface {
	Send(to, subject, body string) error
}

// SMTPSender 通过 gomail 发送纯文本邮件
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *SMTPSender) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return s.dialer.DialAndSend(msg)
}
