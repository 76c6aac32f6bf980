package mail

import (
	"context"
	"net"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSMTPServer struct {
	addr     string
	received chan string
	rcpts    chan string
}

// startFakeSMTP accepts one session; RCPT to rejectRcpt is refused with 550.
func startFakeSMTP(t *testing.T, rejectRcpt string) *fakeSMTPServer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	srv := &fakeSMTPServer{
		addr:     ln.Addr().String(),
		received: make(chan string, 1),
		rcpts:    make(chan string, 4),
	}

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		tp := textproto.NewConn(conn)
		_ = tp.PrintfLine("220 localhost ESMTP test")
		for {
			line, err := tp.ReadLine()
			if err != nil {
				return
			}
			cmd := strings.ToUpper(line)
			switch {
			case strings.HasPrefix(cmd, "EHLO"):
				_ = tp.PrintfLine("250-localhost")
				_ = tp.PrintfLine("250 8BITMIME")
			case strings.HasPrefix(cmd, "RCPT TO:"):
				rcpt := strings.Trim(line[len("RCPT TO:"):], "<> ")
				srv.rcpts <- rcpt
				if rejectRcpt != "" && rcpt == rejectRcpt {
					_ = tp.PrintfLine("550 mailbox unavailable")
					continue
				}
				_ = tp.PrintfLine("250 OK")
			case cmd == "DATA":
				_ = tp.PrintfLine("354 go ahead")
				lines, err := tp.ReadDotLines()
				if err != nil {
					return
				}
				srv.received <- strings.Join(lines, "\n")
				_ = tp.PrintfLine("250 OK queued")
			case cmd == "QUIT":
				_ = tp.PrintfLine("221 bye")
				return
			default:
				_ = tp.PrintfLine("250 OK")
			}
		}
	}()

	return srv
}

func newTestSMTPSender(t *testing.T, addr string) *SMTPSender {
	t.Helper()
	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := net.LookupPort("tcp", portStr)
	require.NoError(t, err)

	s, err := NewSMTPSender(SMTPOptions{Host: host, Port: port, Username: "agency@example.com", Password: "secret"})
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2025, 12, 1, 10, 0, 0, 0, time.UTC) }
	return s
}

func TestSMTPSender_Send(t *testing.T) {
	srv := startFakeSMTP(t, "")
	s := newTestSMTPSender(t, srv.addr)

	receipt, err := s.Send(context.Background(), Message{
		From:    "Kashika Travel <agency@example.com>",
		To:      "asha@example.com",
		Subject: "Thank you",
		HTML:    "<h2>Hello</h2>\n<p>Asha</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, "smtp", receipt.Provider)
	assert.Contains(t, receipt.MessageID, "@example.com>")

	assert.Equal(t, "asha@example.com", <-srv.rcpts)

	select {
	case body := <-srv.received:
		assert.Contains(t, body, "From: Kashika Travel <agency@example.com>")
		assert.Contains(t, body, "Subject: Thank you")
		assert.Contains(t, body, `Content-Type: text/html; charset="UTF-8"`)
		assert.Contains(t, body, "<h2>Hello</h2>")
	case <-time.After(2 * time.Second):
		t.Fatal("message was not delivered")
	}
}

func TestSMTPSender_RecipientRejected(t *testing.T) {
	srv := startFakeSMTP(t, "nobody@example.com")
	s := newTestSMTPSender(t, srv.addr)

	_, err := s.Send(context.Background(), Message{
		From: "agency@example.com", To: "nobody@example.com", Subject: "x", HTML: "x",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rcpt")
}

func TestSMTPSender_InvalidAddress(t *testing.T) {
	s, err := NewSMTPSender(SMTPOptions{Host: "127.0.0.1", Port: 1})
	require.NoError(t, err)

	_, err = s.Send(context.Background(), Message{From: "agency@example.com", To: "", Subject: "x"})
	assert.Error(t, err)
}

func TestNewSMTPSender_RequiresHost(t *testing.T) {
	_, err := NewSMTPSender(SMTPOptions{Port: 587})
	assert.Error(t, err)
}

func TestBuildMessage_EncodesSubject(t *testing.T) {
	s := &SMTPSender{now: time.Now}
	raw := string(s.buildMessage(Message{From: "a@example.com", To: "b@example.com", Subject: "Yātrā", HTML: "a\nb"}, "<id@x>"))

	assert.Contains(t, raw, "Subject: =?utf-8?q?")
	assert.True(t, strings.HasSuffix(raw, "a\r\nb"))
}
