package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "AZURE_DEPLOYMENT=o1-mini\nAZURE_ENDPOINT=https://example.openai.azure.com\nSTRICT_BOARD_WIDTH=true\nCONTENT_FILTER_RETRIES=4\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Setup(path)

	require.NoError(t, err)
	assert.Equal(t, "o1-mini", cfg.AzureDeployment)
	assert.Equal(t, "https://example.openai.azure.com", cfg.AzureEndpoint)
	assert.True(t, cfg.StrictBoardWidth)
	assert.Equal(t, 4, cfg.ContentFilterRetries)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "2024-10-21", cfg.AzureApiVersion)
	assert.Equal(t, 5*time.Second, cfg.RedisPingTimeout)
	assert.Equal(t, 10*time.Second, cfg.MongoConnectTimeout)
}

func TestSetupEnvOverridesAndMissingFile(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("HISTORY_TTL_HOURS", "6")
	t.Setenv("REDIS_PING_TIMEOUT", "750ms")

	cfg, err := Setup(filepath.Join(t.TempDir(), "missing.env"))

	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.LlmProvider)
	assert.Equal(t, 6, cfg.HistoryTtlHours)
	assert.Equal(t, 750*time.Millisecond, cfg.RedisPingTimeout)
	assert.Equal(t, []string{"o1", "reasoning"}, cfg.ReasoningPatterns())
}

func TestReasoningPatterns(t *testing.T) {
	cfg := Config{ReasoningModels: " o1, o3 ,,reasoning "}
	assert.Equal(t, []string{"o1", "o3", "reasoning"}, cfg.ReasoningPatterns())
	assert.Nil(t, Config{}.ReasoningPatterns())
}
