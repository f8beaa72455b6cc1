package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"inc/app_error"
	"inc/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupByDomain(t *testing.T) {
	projects := []*repository.Project{
		{Pid: "CO-0001", Domain: "machine learning"},
		{Pid: "CO-0002", Domain: " APPLICATION DEVELOPMENT "},
		{Pid: "CO-0003", Domain: "Quantum"},
		{Pid: "CO-0004", Domain: ""},
		{Pid: "CO-0005", Domain: "Machine Learning"},
	}

	groups := GroupByDomain([]string{"Application Development", "Machine Learning", "Embedded", "machine learning"}, projects)
	require.Len(t, groups, 3)
	assert.Equal(t, "APPLICATION DEVELOPMENT", groups[0].Domain)
	assert.Equal(t, "MACHINE LEARNING", groups[1].Domain)
	assert.Len(t, groups[1].Projects, 2)
	assert.Equal(t, "OTHERS", groups[2].Domain)
	assert.Equal(t, "CO-0003", groups[2].Projects[0].Pid)
	assert.Equal(t, "CO-0004", groups[2].Projects[1].Pid)

	groups = GroupByDomain([]string{"OTHERS", "Machine Learning"}, projects)
	require.Len(t, groups, 2)
	assert.Equal(t, "OTHERS", groups[0].Domain)
	assert.Len(t, groups[0].Projects, 3)

	assert.Empty(t, GroupByDomain(nil, nil))
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "a smart irrigation system", NormalizeText("  a  smart\n\tirrigation\r\n system "))
	assert.Equal(t, "", NormalizeText(" \n "))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "short", truncate("short", 10))
}

func TestRenderSynopsis(t *testing.T) {
	projects := []*repository.Project{
		{Pid: "CO-0001", Title: "Crop  yield\nprediction", Abstract: strings.Repeat("Lorem ipsum dolor sit amet. ", 80), Domain: "MACHINE LEARNING AND PATTERN RECOGNITION"},
		{Pid: "CO-0002", Title: "Café finder", Abstract: "Finds cafés.", Domain: "APPLICATION DEVELOPMENT"},
	}
	var buf bytes.Buffer
	require.NoError(t, RenderSynopsis(&buf, "Concepts 2026", testEvents(t).Synopsis.Domains, projects))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	assert.Greater(t, buf.Len(), 1000)
}

func TestGenerateSynopsis(t *testing.T) {
	h := newHarness(t)
	seedProjects(t, "concepts", "CO-0001", "CO-0002")
	synopsis := NewSynopsisService(pg.DB, h.events)

	var buf bytes.Buffer
	require.NoError(t, synopsis.Generate(context.Background(), "Concepts", &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))

	err := synopsis.Generate(context.Background(), "unknown", &buf)
	assert.True(t, app_error.Is(err, app_error.KindNotFound))
}
