package services

import (
	"bytes"
	"context"
	"testing"

	"formify.app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatisticsService(t *testing.T) {
	s := newMemStore()
	owner := s.addUser("Owner", false)
	tpl := seedTemplate(s, owner.ID,
		choice(models.QuestionTypeMultipleChoice, "Pick", false, "Yes", "No"),
		scalar(models.QuestionTypeParagraph, "Why", false),
	)
	pick, why := tpl.Questions[0], tpl.Questions[1]
	forms := NewFormServiceWith(fakeForms{s}, fakeAnswers{s}, fakeTemplates{s}, fakeTx{s})
	ctx := context.Background()
	for i, choice := range []int{0, 0, 1} {
		u := s.addUser("Filler"+string(rune('A'+i)), false)
		_, err := forms.SubmitForm(ctx, Actor{ID: u.ID}, SubmitInput{TemplateID: tpl.ID, Answers: []AnswerInput{
			{QuestionID: pick.ID, Answer: float64(pick.Options[choice].ID)},
		}})
		require.NoError(t, err)
	}
	svc := NewStatisticsServiceWith(fakeTemplates{s}, fakeForms{s})

	stats, err := svc.TemplateStatistics(ctx, tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalForms)
	require.Len(t, stats.Questions, 2)
	assert.Equal(t, 3, stats.Questions[0].ResponseCount)
	assert.Equal(t, 100, stats.Questions[0].CompletionRate)
	require.Len(t, stats.Questions[0].Buckets, 2)
	assert.Equal(t, 2, stats.Questions[0].Buckets[0].Count)
	assert.Equal(t, 67, stats.Questions[0].Buckets[0].Percentage)
	assert.Equal(t, 33, stats.Questions[0].Buckets[1].Percentage)
	assert.True(t, stats.Questions[1].NoData)
	assert.False(t, stats.UpdatedAt.Before(stats.CreatedAt))

	t.Run("chart", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, svc.RenderChart(ctx, &buf, tpl.ID, pick.ID))
		assert.Contains(t, buf.String(), "echarts")
	})
	t.Run("chart without data", func(t *testing.T) {
		var buf bytes.Buffer
		assert.ErrorIs(t, svc.RenderChart(ctx, &buf, tpl.ID, why.ID), ErrNotFound)
	})
	t.Run("unknown question", func(t *testing.T) {
		var buf bytes.Buffer
		assert.ErrorIs(t, svc.RenderChart(ctx, &buf, tpl.ID, 9999), ErrNotFound)
	})
	t.Run("unknown template", func(t *testing.T) {
		_, err := svc.TemplateStatistics(ctx, 9999)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
