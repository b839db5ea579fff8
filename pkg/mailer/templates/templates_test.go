package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderEventCreated(t *testing.T) {
	data := ToMap(EventData{
		AppName:   "Planner",
		Name:      "Alice",
		EventName: "Launch <party>",
		Date:      time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		Time:      "18:00",
		Location:  "Madrid",
	})

	subject, text, html, err := Render(EventCreated, data)
	require.NoError(t, err)
	assert.Equal(t, "[Planner] New event: Launch <party>", subject)
	assert.Contains(t, text, "31 December 2024")
	assert.Contains(t, text, "Hi Alice,")
	assert.Contains(t, html, "Launch &lt;party&gt;")
}

func TestRenderDefaults(t *testing.T) {
	subject, text, _, err := Render(EventCreated, map[string]any{"EventName": "x"})
	require.NoError(t, err)
	assert.Equal(t, "[Event Planner] New event: x", subject)
	assert.Contains(t, text, "Hi there,")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render("nope", nil)
	assert.Error(t, err)
}
