package config

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0644))
	return p
}

func TestGetConfigDefaults(t *testing.T) {
	p := writeConfig(t, "bot:\n  token: abc\n")

	cnf := &Conf{}
	require.NoError(t, GetConfig(p, cnf))

	assert.Equal(t, ":8080", cnf.Server.Listen)
	assert.Equal(t, BOT_API_SERVER, cnf.Bot.ApiServer)
	assert.Equal(t, WEBHOOK_PATH, cnf.Bot.WebhookPath)
	assert.Equal(t, STATE_BACKEND_MEMORY, cnf.State.Backend)
	assert.Equal(t, 10*time.Minute, cnf.StateTTL())
	assert.Equal(t, 10, cnf.Triggers.PageSize)
	assert.Equal(t, 8, cnf.Queue.MaxConcurrent)
}

func TestGetConfigValues(t *testing.T) {
	p := writeConfig(t, `
server:
  host: https://bot.example.com
  listen: ":9000"
bot:
  token: abc
  webhook_secret: s3cret
  superuser_id: 42
  superuser_only_management: true
database:
  path: /tmp/t.db
state:
  backend: sqlite
  ttl: 5m
triggers:
  page_size: 20
`)

	cnf := &Conf{}
	require.NoError(t, GetConfig(p, cnf))

	assert.Equal(t, "https://bot.example.com/bot/receive/", cnf.WebhookURL())
	assert.Equal(t, int64(42), cnf.Bot.SuperuserID)
	assert.True(t, cnf.Bot.SuperuserOnlyManagement)
	assert.Equal(t, STATE_BACKEND_SQLITE, cnf.State.Backend)
	assert.Equal(t, 5*time.Minute, cnf.StateTTL())
	assert.Equal(t, 20, cnf.Triggers.PageSize)
}

func TestNegativeTTLDisablesExpiry(t *testing.T) {
	cnf := &Conf{Bot: Bot{Token: "abc"}, State: State{TTL: -time.Second}}
	cnf.SetDefaults()

	require.NoError(t, cnf.Validate())
	assert.Zero(t, cnf.StateTTL())
}

func TestGetConfigErrors(t *testing.T) {
	cases := map[string]string{
		"no token":        "server:\n  listen: \":1\"\n",
		"unknown backend": "bot:\n  token: abc\nstate:\n  backend: redis\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, GetConfig(writeConfig(t, body), &Conf{}))
		})
	}

	assert.Error(t, GetConfig(filepath.Join(t.TempDir(), "absent.yml"), &Conf{}))
}

func TestInject(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cnf := &Conf{Bot: Bot{Token: "abc"}}

	r := gin.New()
	r.Use(Inject("cnf", cnf))
	r.GET("/", func(c *gin.Context) {
		got := c.MustGet("cnf").(*Conf)
		c.String(http.StatusOK, got.Bot.Token)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "abc", w.Body.String())
}
