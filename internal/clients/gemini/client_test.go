package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/bobmcallan/quill/internal/interfaces"
)

func contentText(c *genai.Content) string {
	text := ""
	for _, part := range c.Parts {
		text += part.Text
	}
	return text
}

func TestBuildContentsMergesSystemMessages(t *testing.T) {
	// a corrective system message appended mid-conversation must extend the
	// base rules, not replace them
	system, contents, err := buildContents([]interfaces.Message{
		{Role: interfaces.RoleSystem, Content: "Base rules."},
		{Role: interfaces.RoleUser, Content: "INPUT JSON: {}"},
		{Role: interfaces.RoleSystem, Content: "Fix these issues without changing facts: word count."},
	})
	require.NoError(t, err)

	require.NotNil(t, system)
	assert.Equal(t, "Base rules.\n\nFix these issues without changing facts: word count.", contentText(system))
	require.Len(t, contents, 1)
	assert.Equal(t, "INPUT JSON: {}", contentText(contents[0]))
}

func TestBuildContentsRoleMapping(t *testing.T) {
	system, contents, err := buildContents([]interfaces.Message{
		{Role: interfaces.RoleUser, Content: "first"},
		{Role: interfaces.RoleAssistant, Content: "draft"},
		{Role: interfaces.RoleUser, Content: "second"},
	})
	require.NoError(t, err)

	assert.Nil(t, system)
	require.Len(t, contents, 3)
	assert.Equal(t, string(genai.RoleUser), contents[0].Role)
	assert.Equal(t, string(genai.RoleModel), contents[1].Role)
	assert.Equal(t, string(genai.RoleUser), contents[2].Role)
}

func TestBuildContentsRequiresUserMessage(t *testing.T) {
	_, _, err := buildContents([]interfaces.Message{
		{Role: interfaces.RoleSystem, Content: "rules only"},
	})
	assert.Error(t, err)
}
