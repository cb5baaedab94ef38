package mailing

import (
	"fmt"
	"io/fs"
	"strings"
	"time"

	"html/template"

	"github.com/go-mail/mail"
	"github.com/jaytaylor/html2text"
	"github.com/pbartela/plantour/config"
	"github.com/pbartela/plantour/sanitize"
	"go.uber.org/zap"
)

// Mailer sends the outgoing transactional emails. Delivery failures
// never fail the triggering operation, callers log and move on.
type Mailer struct {
	noop          bool
	client        *mail.Dialer
	log           *zap.Logger
	cfg           *config.Configuration
	emailTemplate *template.Template
}

func (m *Mailer) baseModel(title string, message string) map[string]interface{} {
	b := make(map[string]interface{})
	b["service_name"] = m.cfg.Behaviour.Name
	b["date"] = time.Now().Format("2006-01-02 15:04")
	b["site"] = m.cfg.Behaviour.Site
	b["title"] = title
	b["message"] = message
	return b
}

// SendInviteMail mails the invitation link for the given token
func (m *Mailer) SendInviteMail(email string, token string, tourTitle string, inviterName string) error {
	if m.noop {
		m.log.Info("skipping email `Invite` because smtp is disabled",
			sanitize.RedactedToken("token", token))
		return nil
	}
	subject := fmt.Sprintf("%s invited you to plan %s", inviterName, tourTitle)
	base := m.baseModel(
		"You have been invited",
		fmt.Sprintf("%s invited you to join the tour %q.", inviterName, tourTitle),
	)
	base["link_text"] = "View invitation"
	base["link"] = fmt.Sprintf(
		"%s/invitations/%s",
		m.cfg.Behaviour.ServiceDomain,
		token,
	)
	base["subject"] = subject
	return m.send(email, subject, base)
}

// SendTestEmail verifies the smtp configuration end to end
func (m *Mailer) SendTestEmail(email string) error {
	if m.noop {
		m.log.Info("skipping email `Test` because smtp is disabled")
		return nil
	}
	base := m.baseModel("This is a test", "hey your email configuration seems to be fine.")
	base["subject"] = "Your test email is here!"
	base["link"] = m.cfg.Behaviour.Site
	base["link_text"] = "test"
	return m.send(email, "Your test email is here!", base)
}

func (m *Mailer) send(email string, subject string, viewModel map[string]interface{}) error {
	buffer := new(strings.Builder)
	err := m.emailTemplate.Execute(buffer, viewModel)
	if err != nil {
		return err
	}
	html := buffer.String()
	text, err := html2text.FromString(html, html2text.Options{PrettyTables: true})
	if err != nil {
		return err
	}
	msg := mail.NewMessage()
	msg.SetAddressHeader("From", m.cfg.SMTP.Address, m.cfg.SMTP.DisplayName)
	msg.SetAddressHeader("To", email, "")
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", text)
	msg.AddAlternative("text/html", html)
	return m.client.DialAndSend(msg)
}

func NewMailer(
	log *zap.Logger,
	cfg *config.Configuration,
	files fs.FS,
) (*Mailer, error) {
	t, err := template.ParseFS(files, "template.html")
	if err != nil {
		return nil, err
	}
	s := &Mailer{
		noop:          !cfg.SMTP.Enabled,
		log:           log,
		emailTemplate: t,
		cfg:           cfg,
	}
	if !s.noop {
		s.client = mail.NewDialer(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Username,
			cfg.SMTP.Password,
		)
	}
	return s, nil
}

func NewNoOpMailer(log *zap.Logger) *Mailer {
	return &Mailer{
		noop: true,
		log:  log,
	}
}
