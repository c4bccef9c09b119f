package config

import (
	"os"
	"testing"

	"chatpoker-server/internal/util"

	"github.com/stretchr/testify/assert"
)

func TestInstance(t *testing.T) {
	clear1 := util.SetEnv("CP_CONFIG_FILE", "testdata/config.yaml")
	defer clear1()
	clear2 := util.SetEnv("CP_CHAT_APP_SECRET", "env-secret")
	defer clear2()

	a := assert.New(t)
	a.NoError(Load())
	cfg := Instance()
	a.Equal("postgres://poker@db.internal:5432/poker?sslmode=disable", cfg.PGDSN)
	a.Equal("cli_test_app", cfg.Chat.AppID)
	a.Equal("file-token", cfg.Chat.VerificationToken)
	a.Equal("env-secret", cfg.Chat.AppSecret)
	a.Equal("debug", cfg.Log.Level)

	// ensure that it's only loaded once
	_ = os.Setenv("CP_CHAT_APP_SECRET", "env-secret-2")
	// ensure we aren't using a pointer
	cfg.Chat.AppSecret = "bad"
	cfg = Instance()
	assert.Equal(t, "env-secret", cfg.Chat.AppSecret)
}

func TestDefaults(t *testing.T) {
	clear1 := util.SetEnv("CP_CONFIG_FILE", "testdata/does-not-exist.yaml")
	defer clear1()

	assert.NoError(t, Load())
	cfg := Instance()
	assert.Equal(t, "./sql", cfg.MigrationsPath)
	assert.Equal(t, "https://open.larksuite.com/open-apis", cfg.Chat.BaseURL)
}
