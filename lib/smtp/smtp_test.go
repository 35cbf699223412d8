package smtp

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompose(t *testing.T) {
	message, err := Compose("noreply@example.com", Mail{
		To:       []string{"juan@example.com"},
		Subject:  "Travel order approved",
		HTMLBody: "<p>Approved</p>",
		Attachments: []Attachment{
			{FileName: "TRAVEL_ORDER_to-1.pdf", ContentType: "application/pdf", Body: []byte("%PDF-1.3")},
		},
	})
	require.Nil(t, err)
	raw, err := io.ReadAll(message)
	require.Nil(t, err)
	text := string(raw)
	require.Contains(t, text, "To: juan@example.com")
	require.Contains(t, text, "Subject: Travel Orders - Travel order approved")
	require.Contains(t, text, "Content-Type: application/pdf")
	require.Contains(t, text, "TRAVEL_ORDER_to-1.pdf")
	require.True(t, strings.Contains(text, "<p>Approved</p>"))
}

func TestSendMailNotConfigured(t *testing.T) {
	require.Nil(t, Connect("", "", "", "", "", false))
	require.False(t, Instance.Configured())
	require.Nil(t, Instance.SendMail(Mail{To: []string{"juan@example.com"}}))
}
