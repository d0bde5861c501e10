package seeders

import (
	"context"
	"fmt"

	"formify.app/configs/configslog"
	"formify.app/models"
	"formify.app/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Topics lists every topic a template may use.
var Topics = []models.Topic{
	{Name: models.TopicOther, Description: "Anything that fits nowhere else"},
	{Name: models.TopicEducation, Description: "Courses, lessons and classroom forms"},
	{Name: models.TopicQuiz, Description: "Knowledge checks and trivia"},
	{Name: models.TopicFeedback, Description: "Opinions about a product, event or service"},
	{Name: models.TopicSurvey, Description: "General surveys and polls"},
	{Name: models.TopicApplication, Description: "Sign-ups, requests and applications"},
}

func SeedTopics(ctx context.Context, db *gorm.DB) error {
	repo := repositories.NewTopicRepositoryTx(db)
	failed := 0
	for _, topic := range Topics {
		topic := topic
		if err := repo.Upsert(ctx, &topic); err != nil {
			configslog.Log.Error("Topic could not be seeded", zap.String("topic", topic.Name), zap.Error(err))
			failed++
			continue
		}
		configslog.SLog.Debugf("Topic '%s' seeded", topic.Name)
	}
	if failed > 0 {
		return fmt.Errorf("%d topic(s) could not be seeded", failed)
	}
	configslog.SLog.Infof("%d topics seeded", len(Topics))
	return nil
}
