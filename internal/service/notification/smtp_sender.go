package notification

import (
	"fmt"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strings"
)

// SMTPSender delivers rendered emails through a plain SMTP relay. The
// in-cluster relay needs no auth; Auth stays nil unless configured.
type SMTPSender struct {
	Addr     string
	From     string
	FromName string
	Auth     smtp.Auth
}

func NewSMTPSender(host string, port int, from, fromName string) *SMTPSender {
	return &SMTPSender{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		From:     from,
		FromName: fromName,
	}
}

// Send writes the email as multipart/alternative so clients pick HTML when
// they can and fall back to plain text.
func (s *SMTPSender) Send(email *Email) error {
	var msg strings.Builder
	writer := multipart.NewWriter(&msg)

	headers := fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: multipart/alternative; boundary=%q\r\n\r\n",
		s.FromName, s.From, email.To, email.Subject, writer.Boundary())

	if err := writePart(writer, "text/plain; charset=utf-8", email.TextBody); err != nil {
		return err
	}
	if err := writePart(writer, "text/html; charset=utf-8", email.HTMLBody); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	payload := []byte(headers + msg.String())
	if err := smtp.SendMail(s.Addr, s.Auth, s.From, []string{email.To}, payload); err != nil {
		return fmt.Errorf("smtp send to %s: %w", email.To, err)
	}
	return nil
}

func writePart(w *multipart.Writer, contentType, body string) error {
	header := textproto.MIMEHeader{"Content-Type": {contentType}}
	part, err := w.CreatePart(header)
	if err != nil {
		return err
	}
	_, err = part.Write([]byte(body))
	return err
}
