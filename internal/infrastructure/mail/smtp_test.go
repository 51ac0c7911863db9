package mail

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"campus-lending/internal/config"
	domainmail "campus-lending/internal/domain/mail"
)

func TestBuild(t *testing.T) {
	msg, err := Build("lending@uni.edu", domainmail.Message{
		To:      "ana@uni.edu",
		Subject: "Loan approved",
		Body:    "Your request for OSC-01 was approved.",
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()
	assert.Contains(t, raw, "From: <lending@uni.edu>")
	assert.Contains(t, raw, "To: <ana@uni.edu>")
	assert.Contains(t, raw, "Subject: Loan approved")
	assert.Contains(t, raw, "Your request for OSC-01 was approved.")
}

func TestBuild_InvalidAddress(t *testing.T) {
	_, err := Build("lending@uni.edu", domainmail.Message{To: "not an address"})
	assert.Error(t, err)
}

func TestLogSender(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := NewLogSender(zap.New(core))

	require.NoError(t, s.Send(context.Background(), domainmail.Message{To: "a@b.co", Subject: "hi"}))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "a@b.co", logs.All()[0].ContextMap()["to"])
}

func TestNewSMTPSender(t *testing.T) {
	s, err := NewSMTPSender(SMTPConfig{Host: "smtp.uni.edu", Port: 587, Username: "u", Password: "p", From: "x@uni.edu"})
	require.NoError(t, err)
	assert.Equal(t, "x@uni.edu", s.from)
}

func TestNewSender(t *testing.T) {
	s, err := NewSender(&config.Config{}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &LogSender{}, s)

	s, err = NewSender(&config.Config{SMTPHost: "smtp.uni.edu", SMTPPort: 25, MailFrom: "prestamos@uni.edu"}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &SMTPSender{}, s)
}
