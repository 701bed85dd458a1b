package email

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRenderer(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	html, err := r.Render(TemplateData{
		Title:     "Appointment confirmed",
		Body:      "See you <soon>",
		ActionURL: "https://example.com/appointments/1",
	})
	require.NoError(t, err)
	require.Contains(t, html, "Appointment confirmed")
	require.Contains(t, html, "See you &lt;soon&gt;")
	require.Contains(t, html, `href="https://example.com/appointments/1"`)

	html, err = r.Render(TemplateData{Title: "t", Body: "b"})
	require.NoError(t, err)
	require.NotContains(t, html, "<a ")
}

func TestLogRelay(t *testing.T) {
	relay := NewLogRelay(zap.NewNop())

	id, err := relay.Send(context.Background(), Message{To: "a@example.com", Subject: "s", HTML: "<p>x</p>"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	_, err = relay.Send(context.Background(), Message{Subject: "s"})
	require.ErrorIs(t, err, ErrInvalidMessage)
}
