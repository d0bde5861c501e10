package seeders

import (
	"context"
	_ "embed"
	"fmt"

	"formify.app/configs/configslog"
	"formify.app/models"
	"formify.app/repositories"
	"formify.app/services"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed demo_templates.yaml
var demoTemplatesYAML []byte

type demoQuestion struct {
	Title    string              `yaml:"title"`
	Type     models.QuestionType `yaml:"type"`
	Required bool                `yaml:"required"`
	Options  []string            `yaml:"options"`
}

type demoTemplate struct {
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Topic       string         `yaml:"topic"`
	Tags        []string       `yaml:"tags"`
	Questions   []demoQuestion `yaml:"questions"`
}

// ParseDemoTemplates decodes the YAML document into template inputs.
func ParseDemoTemplates(data []byte) ([]services.TemplateInput, error) {
	var doc struct {
		Templates []demoTemplate `yaml:"templates"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("demo templates: %w", err)
	}

	inputs := make([]services.TemplateInput, 0, len(doc.Templates))
	for _, t := range doc.Templates {
		in := services.TemplateInput{Title: t.Title, Description: t.Description, Topic: t.Topic}
		for _, label := range t.Tags {
			in.Tags = append(in.Tags, services.TagInput{Label: label})
		}
		for _, q := range t.Questions {
			question := services.QuestionInput{Title: q.Title, Type: q.Type, Required: q.Required}
			for _, value := range q.Options {
				question.Options = append(question.Options, services.OptionInput{Value: value})
			}
			in.Questions = append(in.Questions, question)
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

// SeedDemoTemplates gives owner the embedded demo templates unless they already own templates.
func SeedDemoTemplates(ctx context.Context, db *gorm.DB, owner *models.User) error {
	templateRepo := repositories.NewTemplateRepositoryTx(db)
	existing, err := templateRepo.FindByUserID(ctx, owner.ID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		configslog.SLog.Info("Demo templates already present, skipping")
		return nil
	}

	inputs, err := ParseDemoTemplates(demoTemplatesYAML)
	if err != nil {
		return err
	}
	svc := services.NewTemplateServiceWith(
		templateRepo,
		repositories.NewQuestionRepositoryTx(db),
		repositories.NewTagRepositoryTx(db),
		repositories.NewTopicRepositoryTx(db),
		repositories.NewTransactorTx(db),
	)
	actor := services.Actor{ID: owner.ID, IsAdmin: owner.IsAdmin}
	for _, in := range inputs {
		if _, err := svc.CreateTemplate(ctx, actor, in); err != nil {
			return fmt.Errorf("demo template %q: %w", in.Title, err)
		}
	}
	configslog.SLog.Infof("%d demo templates seeded", len(inputs))
	return nil
}
