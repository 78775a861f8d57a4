package email

import (
	"net/smtp"
	"strings"
	"testing"

	"resumeai-backend/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendNotConfigured(t *testing.T) {
	svc := NewEmailService(&config.Config{})
	assert.False(t, svc.IsConfigured())
	assert.ErrorIs(t, svc.Send(Message{To: "a@b.com"}), ErrNotConfigured)
}

func TestSendStripsHeaderInjection(t *testing.T) {
	svc := NewEmailService(&config.Config{
		SMTPHost: "smtp.test", SMTPPort: "587", SMTPUsername: "u", SMTPPassword: "p", SMTPFromEmail: "noreply@test",
	})

	var gotAddr string
	var gotTo []string
	var gotMsg string
	svc.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		assert.Equal(t, "noreply@test", from)
		return nil
	}

	err := svc.Send(Message{To: "a@b.com", Subject: "Hi\r\nBcc: evil@x.com", HTML: "<p>x</p>"})
	require.NoError(t, err)

	assert.Equal(t, "smtp.test:587", gotAddr)
	assert.Equal(t, []string{"a@b.com"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: Hi  Bcc: evil@x.com\r\n")
	assert.False(t, strings.Contains(gotMsg, "\r\nBcc:"))
	assert.True(t, strings.HasSuffix(gotMsg, "\r\n\r\n<p>x</p>"))
}

func TestRenderUserMessageEscapes(t *testing.T) {
	html, err := RenderUserMessage(UserMessageData{SenderEmail: "me@x.com", Body: "<script>hi</script>"})
	require.NoError(t, err)
	assert.Contains(t, html, "&lt;script&gt;hi&lt;/script&gt;")
}

func TestRenderDigest(t *testing.T) {
	html, err := RenderDigest(DigestData{
		Query: "go developer",
		Jobs:  []DigestJob{{Title: "Backend Engineer", Company: "Acme", ApplyURL: "https://acme.test/apply", MatchScore: 80}},
	})
	require.NoError(t, err)
	assert.Contains(t, html, "Backend Engineer")
	assert.Contains(t, html, "80% match")
	assert.Contains(t, html, `href="https://acme.test/apply"`)
}
