package smtp

import (
	"bytes"
	"io"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

var Instance Provider

type Provider interface {
	SendMail(mail Mail) error
	Configured() bool
}

type Mail struct {
	To          []string
	Subject     string
	HTMLBody    string
	Attachments []Attachment
}

type Attachment struct {
	FileName    string
	ContentType string
	Body        []byte
}

func Connect(user, password, host, port, from string, tlsEnabled bool) error {
	if from == "" {
		from = user
	}
	Instance = &impl{
		user:       user,
		password:   password,
		host:       host,
		port:       port,
		from:       from,
		tlsEnabled: tlsEnabled,
	}
	return nil
}

type impl struct {
	user       string
	password   string
	host       string
	port       string
	from       string
	tlsEnabled bool
}

func (i impl) Configured() bool {
	return i.user != "" && i.host != "" && i.port != ""
}

func (i impl) SendMail(mail Mail) (err error) {
	logger := log.
		WithField("recipients", mail.To).
		WithField("subject", mail.Subject)
	if !i.Configured() {
		logger.Warn("email not sent, smtp client is not configured")
		return nil
	}
	if len(mail.To) == 0 {
		logger.Warn("email not sent, no recipients")
		return nil
	}
	message, err := Compose(i.from, mail)
	if err != nil {
		return err
	}
	auth := sasl.NewPlainClient("", i.user, i.password)
	if i.tlsEnabled {
		err = smtp.SendMailTLS(i.host+":"+i.port, auth, i.user, mail.To, message)
	} else {
		err = smtp.SendMail(i.host+":"+i.port, auth, i.user, mail.To, message)
	}
	if err != nil {
		logger.WithError(err).Error("failed to send email")
		return err
	}
	logger.Info("email sent")
	return nil
}

// Compose renders the MIME message.
func Compose(from string, mail Mail) (io.Reader, error) {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", mail.To...)
	m.SetHeader("Subject", "Travel Orders - "+mail.Subject)
	m.SetBody("text/html", mail.HTMLBody)
	for _, attachment := range mail.Attachments {
		body := attachment.Body
		m.Attach(attachment.FileName,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(body)
				return err
			}),
			gomail.SetHeader(map[string][]string{
				"Content-Type": {attachment.ContentType},
			}),
		)
	}
	buf := new(bytes.Buffer)
	if _, err := m.WriteTo(buf); err != nil {
		return nil, errors.Wrap(err, "failed to compose email")
	}
	return buf, nil
}
