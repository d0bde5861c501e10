package seeders

import (
	"testing"

	"formify.app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDemoTemplates(t *testing.T) {
	inputs, err := ParseDemoTemplates(demoTemplatesYAML)
	require.NoError(t, err)
	require.Len(t, inputs, 3)

	topics := map[string]bool{}
	for _, topic := range Topics {
		topics[topic.Name] = true
	}
	for _, in := range inputs {
		assert.NotEmpty(t, in.Title)
		assert.True(t, topics[in.Topic], "topic %q is seeded", in.Topic)
		for _, q := range in.Questions {
			assert.True(t, q.Type.Valid(), "question %q has a known type", q.Title)
			assert.Equal(t, q.Type.IsChoice(), len(q.Options) > 0, "question %q", q.Title)
		}
	}

	first := inputs[0].Questions[0]
	assert.Equal(t, models.QuestionTypeMultipleChoice, first.Type)
	assert.True(t, first.Required)
	assert.Equal(t, "Very satisfied", first.Options[0].Value)
}

func TestParseDemoTemplatesRejectsBadYAML(t *testing.T) {
	_, err := ParseDemoTemplates([]byte("templates: [oops"))
	assert.Error(t, err)
}
