package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("BOARD_COLUMNS", "")
	t.Setenv("CATEGORY_CACHE_TTL", "")

	cfg := Load()
	require.Equal(t, "8008", cfg.Port)
	require.Equal(t, "Backlog,Ready,Work in progress,Done", cfg.BoardColumns)
	require.Equal(t, time.Minute, cfg.CategoryCacheTTL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("PROJECT_CATEGORIES", "Bug, Feature")
	t.Setenv("CATEGORY_CACHE_TTL", "30")
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")

	cfg := Load()
	require.Equal(t, "9000", cfg.Port)
	require.Equal(t, "Bug, Feature", cfg.ProjectCategories)
	require.Equal(t, 30*time.Second, cfg.CategoryCacheTTL)
	require.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestSplitList(t *testing.T) {
	require.Equal(t, []string{"a", "b"}, SplitList(" a ,, b ,"))
	require.Empty(t, SplitList(""))
}
