package mail

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/tls"
	"encoding/hex"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

type SMTPOptions struct {
	Host          string
	Port          int
	Username      string
	Password      string
	TLSSkipVerify bool
}

// SMTPSender talks to an SMTP submission server, upgrading with STARTTLS when offered.
type SMTPSender struct {
	opts SMTPOptions
	dial func(ctx context.Context, network, addr string) (net.Conn, error)
	now  func() time.Time
}

func NewSMTPSender(opts SMTPOptions) (*SMTPSender, error) {
	if opts.Host == "" || opts.Port == 0 {
		return nil, fmt.Errorf("SMTP host and port are required")
	}
	d := &net.Dialer{Timeout: 30 * time.Second}
	return &SMTPSender{opts: opts, dial: d.DialContext, now: time.Now}, nil
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) (Receipt, error) {
	from, err := parseAddress(msg.From)
	if err != nil {
		return Receipt{}, err
	}
	to, err := parseAddress(msg.To)
	if err != nil {
		return Receipt{}, err
	}

	addr := net.JoinHostPort(s.opts.Host, strconv.Itoa(s.opts.Port))
	conn, err := s.dial(ctx, "tcp", addr)
	if err != nil {
		return Receipt{}, fmt.Errorf("dial smtp %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.opts.Host)
	if err != nil {
		conn.Close()
		return Receipt{}, fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		tlsCfg := &tls.Config{ServerName: s.opts.Host, InsecureSkipVerify: s.opts.TLSSkipVerify} //nolint:gosec // opt-in via config
		if err := client.StartTLS(tlsCfg); err != nil {
			return Receipt{}, fmt.Errorf("smtp starttls: %w", err)
		}
	}

	if ok, _ := client.Extension("AUTH"); ok && s.opts.Username != "" {
		auth := smtp.PlainAuth("", s.opts.Username, s.opts.Password, s.opts.Host)
		if err := client.Auth(auth); err != nil {
			return Receipt{}, fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(from.Address); err != nil {
		return Receipt{}, fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(to.Address); err != nil {
		return Receipt{}, fmt.Errorf("smtp rcpt to %s: %w", to.Address, err)
	}

	messageID := s.newMessageID(from.Address)
	w, err := client.Data()
	if err != nil {
		return Receipt{}, fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(s.buildMessage(msg, messageID)); err != nil {
		w.Close()
		return Receipt{}, fmt.Errorf("smtp write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return Receipt{}, fmt.Errorf("smtp end data: %w", err)
	}

	if err := client.Quit(); err != nil {
		return Receipt{}, fmt.Errorf("smtp quit: %w", err)
	}

	return Receipt{Provider: "smtp", MessageID: messageID, Response: "250 accepted"}, nil
}

func (s *SMTPSender) buildMessage(msg Message, messageID string) []byte {
	var buf bytes.Buffer
	header := func(k, v string) {
		buf.WriteString(k)
		buf.WriteString(": ")
		buf.WriteString(v)
		buf.WriteString("\r\n")
	}

	header("From", msg.From)
	header("To", msg.To)
	header("Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	header("Date", s.now().Format(time.RFC1123Z))
	header("Message-ID", messageID)
	header("MIME-Version", "1.0")
	header("Content-Type", `text/html; charset="UTF-8"`)
	header("Content-Transfer-Encoding", "8bit")
	buf.WriteString("\r\n")
	buf.WriteString(strings.ReplaceAll(strings.ReplaceAll(msg.HTML, "\r\n", "\n"), "\n", "\r\n"))

	return buf.Bytes()
}

func (s *SMTPSender) newMessageID(from string) string {
	domain := "localhost"
	if at := strings.LastIndex(from, "@"); at >= 0 && at < len(from)-1 {
		domain = from[at+1:]
	}
	var b [12]byte
	_, _ = rand.Read(b[:])
	return fmt.Sprintf("<%d.%s@%s>", s.now().UnixNano(), hex.EncodeToString(b[:]), domain)
}
