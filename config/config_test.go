package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, 2.5, cfg.Catalog.DeletePenalty)
	assert.Nil(t, cfg.Catalog.GradeFloor)
	assert.Nil(t, cfg.Catalog.LikeCountFloor)
	assert.Equal(t, 10, cfg.Catalog.PageSize)
	assert.Equal(t, DefaultWelcomeMessage, cfg.Chat.WelcomeMessage)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Kafka.Enabled())
}

func TestLoad_CatalogOverrides(t *testing.T) {
	t.Setenv("CATALOG_DELETE_PENALTY", "1.5")
	t.Setenv("CATALOG_GRADE_FLOOR", "0")
	t.Setenv("CATALOG_LIKE_COUNT_FLOOR", "0")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("REDIS_HOST", "redis")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1.5, cfg.Catalog.DeletePenalty)
	require.NotNil(t, cfg.Catalog.GradeFloor)
	assert.Equal(t, 0.0, *cfg.Catalog.GradeFloor)
	require.NotNil(t, cfg.Catalog.LikeCountFloor)
	assert.Equal(t, 0, *cfg.Catalog.LikeCountFloor)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled())
	assert.True(t, cfg.Redis.Enabled())
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "penalty", key: "CATALOG_DELETE_PENALTY", val: "abc"},
		{name: "grade floor", key: "CATALOG_GRADE_FLOOR", val: "low"},
		{name: "like floor", key: "CATALOG_LIKE_COUNT_FLOOR", val: "1.5"},
		{name: "page size", key: "CATALOG_PAGE_SIZE", val: "0"},
		{name: "redis db", key: "REDIS_DB", val: "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestParseSlice(t *testing.T) {
	assert.Equal(t, []string{}, parseSlice(""))
	assert.Equal(t, []string{"a", "b"}, parseSlice("a,,b "))
}
