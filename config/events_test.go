package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultEvents(t *testing.T) {
	events, err := LoadEvents("")
	require.NoError(t, err)
	assert.Equal(t, []string{"concepts", "impetus", "pradnya", "nova"}, events.Names())

	concepts, ok := events.Get("CONCEPTS")
	require.True(t, ok)
	assert.Equal(t, "CO", concepts.Code)
	assert.Equal(t, "CO-%", concepts.JudgeNamespace())
	assert.Equal(t, "CO-", concepts.LabFilter.JudgePrefix)

	pradnya, ok := events.Get("pradnya")
	require.True(t, ok)
	assert.True(t, pradnya.AutoCreateTicket)
	assert.Equal(t, 2, pradnya.TeamSize)

	_, ok = events.Get("hackathon")
	assert.False(t, ok)
	assert.NotEmpty(t, events.Payment.HomeInstitution)
}

func TestParseEvents(t *testing.T) {
	events, err := ParseEvents([]byte(`
edition = "2026"

[[events]]
name = "Demo"
code = "DE"
team_size = 3
judging_slots = ["Morning", "Afternoon"]
`))
	require.NoError(t, err)
	demo, ok := events.Get("demo")
	require.True(t, ok)
	assert.Equal(t, "demo", demo.Name)
	assert.Equal(t, "Demo", demo.Title)

	assert.Equal(t, []string{"Morning", "Afternoon", "7"}, demo.SlotLabels([]string{"7", "1", " 0", "x"}))
	assert.Empty(t, demo.SlotLabels(nil))
}

func TestParseEventsRejectsInvalid(t *testing.T) {
	for name, data := range map[string]string{
		"missing code":  "[[events]]\nname = \"demo\"\nteam_size = 2\n",
		"zero team":     "[[events]]\nname = \"demo\"\ncode = \"DE\"\n",
		"invalid toml":  "[[events]\n",
		"negative team": "[[events]]\nname = \"demo\"\ncode = \"DE\"\nteam_size = -1\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseEvents([]byte(data))
			assert.Error(t, err)
		})
	}
}
