package repositories

import (
	"context"
	"strings"
	"testing"

	"formify.app/pkg/queryparams"

	sq "github.com/Masterminds/squirrel"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplySearchFilters(t *testing.T) {
	params := SearchParams{Query: "100%_fun", Topic: "quiz", Tag: "Go"}
	sql, args, err := applySearchFilters(sq.Select("templates.id").From("templates"), params).ToSql()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(sql, "SELECT templates.id FROM templates WHERE "), sql)
	assert.Contains(t, sql, "templates.title ILIKE ?")
	assert.Contains(t, sql, "templates.topic = ?")
	assert.Contains(t, sql, "EXISTS (SELECT 1 FROM template_tags JOIN tags ON tags.id = template_tags.tag_id "+
		"WHERE template_tags.template_id = templates.id AND LOWER(tags.label) = LOWER(?))")
	assert.Equal(t, []interface{}{`%100\%\_fun%`, "quiz", "Go"}, args)
}

func TestApplySearchFilters_TagDoesNotMultiplyRows(t *testing.T) {
	sql, args, err := applySearchFilters(sq.Select("COUNT(*)").From("templates"), SearchParams{Tag: "work"}).ToSql()
	require.NoError(t, err)
	outer := sql[:strings.Index(sql, "EXISTS")]
	assert.NotContains(t, outer, "JOIN", "the outer query must stay one row per template")
	assert.Equal(t, []interface{}{"work"}, args)
}

func TestApplySearchFilters_TopicOnly(t *testing.T) {
	sql, args, err := applySearchFilters(sq.Select("templates.id").From("templates"), SearchParams{Topic: "survey"}).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, sql, "JOIN")
	assert.NotContains(t, sql, "ILIKE")
	assert.Equal(t, []interface{}{"survey"}, args)
}

func TestTemplateRepository_SearchNoMatches(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTemplateRepositoryTx(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM templates WHERE templates.title ILIKE`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	templates, total, err := repo.Search(context.Background(), SearchParams{
		Query:      "feedback",
		ListParams: queryparams.ListParams{Page: 1, PerPage: 10},
	})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, templates)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTemplateRepository_DeleteCascadeOrder(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTemplateRepositoryTx(db)

	mock.ExpectExec(`DELETE FROM "answers" WHERE`).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM "template_likes" WHERE`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "forms" WHERE`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "options" WHERE`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "questions" WHERE`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM template_tags WHERE`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "templates" WHERE`).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DeleteCascade(context.Background(), 12))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTemplateRepository_DeleteCascadeMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTemplateRepositoryTx(db)

	for i := 0; i < 6; i++ {
		mock.ExpectExec(`DELETE FROM`).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectExec(`DELETE FROM "templates" WHERE`).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.DeleteCascade(context.Background(), 12), ErrNotFound)
}
