package services

import (
	"fmt"
	"html"
	"log"
	"net/smtp"
	"os"
	"strings"
)

// MailService sends notification mail over SMTP. When the SMTP env vars
// are missing it stays disabled and every send is a silent no-op.
type MailService struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	Enabled  bool
}

func NewMailService() *MailService {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	from := os.Getenv("SMTP_FROM")

	enabled := host != "" && port != "" && user != "" && pass != "" && from != ""
	if !enabled {
		log.Println("MailService disabled: missing SMTP environment variables")
	}

	return &MailService{
		Host:     host,
		Port:     port,
		Username: user,
		Password: pass,
		From:     from,
		Enabled:  enabled,
	}
}

func (s *MailService) sendAsync(to []string, subject string, body string) {
	if !s.Enabled {
		return
	}

	go func() {
		auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
		addr := fmt.Sprintf("%s:%s", s.Host, s.Port)

		mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
		msg := []byte(fmt.Sprintf("To: %s\r\n"+
			"From: Byte & Beyond <%s>\r\n"+
			"Subject: %s\r\n"+
			"%s\r\n%s", strings.Join(to, ","), s.From, subject, mime, body))

		err := smtp.SendMail(addr, auth, s.From, to, msg)
		if err != nil {
			log.Printf("Failed to send email to %v: %v", to, err)
		} else {
			log.Printf("Email sent to %v: %s", to, subject)
		}
	}()
}

func (s *MailService) SendWelcomeEmail(email, username string) {
	body := fmt.Sprintf(
		`<h2>Welcome to Byte &amp; Beyond, %s!</h2>
<p>Your account is ready. Start writing, or browse what the community is reading today.</p>`,
		html.EscapeString(username))
	s.sendAsync([]string{email}, "Welcome to Byte & Beyond", body)
}

// SendEngagementNotification tells a content owner someone commented on
// their post or replied to their comment.
func (s *MailService) SendEngagementNotification(email, actor, postTitle, excerpt string) {
	body := fmt.Sprintf(
		`<p><strong>%s</strong> responded on <em>%s</em>:</p>
<blockquote>%s</blockquote>`,
		html.EscapeString(actor), html.EscapeString(postTitle), html.EscapeString(excerpt))
	s.sendAsync([]string{email}, fmt.Sprintf("%s responded on \"%s\"", actor, postTitle), body)
}
