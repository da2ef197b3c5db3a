package database

import (
	"path/filepath"
	"testing"

	"study_core_backend/internal/config"
	"study_core_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialector(t *testing.T) {
	tests := []struct {
		driver string
		want   string
	}{
		{"postgres", "postgres"},
		{"mysql", "mysql"},
		{"sqlite", "sqlite"},
	}
	for _, tt := range tests {
		d, err := Dialector(&config.DatabaseConfig{Driver: tt.driver, DBName: "x", Host: "localhost"})
		require.NoError(t, err)
		assert.Equal(t, tt.want, d.Name())
	}

	_, err := Dialector(&config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestInitDB_SQLiteMigrates(t *testing.T) {
	cfg := &config.DatabaseConfig{Driver: "sqlite", DBName: filepath.Join(t.TempDir(), "study.db")}

	db, err := InitDB(cfg, "test", false)
	require.NoError(t, err)

	for _, m := range []interface{}{&model.Question{}, &model.ActivityLog{}, &model.ContentChunk{}, "question_topics"} {
		assert.True(t, db.Migrator().HasTable(m))
	}
	assert.True(t, db.Migrator().HasIndex(&model.ActivityLog{}, "idx_activity_user_day"))
}
