package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-yaml"
)

const (
	BOT_API_SERVER = "https://api.telegram.org"
	WEBHOOK_PATH   = "/bot/receive/"

	STATE_BACKEND_MEMORY = "memory"
	STATE_BACKEND_SQLITE = "sqlite"
)

type (
	// Conf настройки приложения
	Conf struct {
		Server Server `yaml:"server"`

		Bot      Bot      `yaml:"bot"`
		Database Database `yaml:"database"`
		State    State    `yaml:"state"`
		Triggers Triggers `yaml:"triggers"`
		Queue    Queue    `yaml:"queue"`

		TextsFile  string `yaml:"texts_file"`
		LoggerFile string `yaml:"logger_file"`

		RunInDebug bool `yaml:"-"`
	}

	Server struct {
		// внешний адрес, на который мессенджер шлет вебхуки
		Host   string `yaml:"host"`
		Listen string `yaml:"listen"`
	}

	Bot struct {
		Token         string `yaml:"token"`
		ApiServer     string `yaml:"api_server"`
		WebhookPath   string `yaml:"webhook_path"`
		WebhookSecret string `yaml:"webhook_secret"`

		SuperuserID             int64 `yaml:"superuser_id"`
		SuperuserOnlyManagement bool  `yaml:"superuser_only_management"`
	}

	Database struct {
		Path string `yaml:"path"`
	}

	State struct {
		Backend string `yaml:"backend"`
		// через сколько ожидание медиа сбрасывается, отрицательное значение - никогда
		TTL           time.Duration `yaml:"ttl"`
		SweepSchedule string        `yaml:"sweep_schedule"`
	}

	Triggers struct {
		PageSize        int `yaml:"page_size"`
		InlineCacheTime int `yaml:"inline_cache_time"`
	}

	Queue struct {
		MaxConcurrent  int           `yaml:"max_concurrent"`
		HandlerTimeout time.Duration `yaml:"handler_timeout"`
	}
)

// GetConfig читает yaml и проставляет значения по умолчанию.
func GetConfig(configPath string, cnf *Conf) error {
	input, err := os.Open(configPath)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	defer input.Close()

	if err := yaml.NewDecoder(input).Decode(cnf); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	cnf.SetDefaults()
	return cnf.Validate()
}

func (cnf *Conf) SetDefaults() {
	if cnf.Server.Listen == "" {
		cnf.Server.Listen = ":8080"
	}
	if cnf.Bot.ApiServer == "" {
		cnf.Bot.ApiServer = BOT_API_SERVER
	}
	if cnf.Bot.WebhookPath == "" {
		cnf.Bot.WebhookPath = WEBHOOK_PATH
	}
	if cnf.Database.Path == "" {
		cnf.Database.Path = "./data/triggers.db"
	}
	if cnf.State.Backend == "" {
		cnf.State.Backend = STATE_BACKEND_MEMORY
	}
	if cnf.State.TTL == 0 {
		cnf.State.TTL = 10 * time.Minute
	}
	if cnf.State.SweepSchedule == "" {
		cnf.State.SweepSchedule = "@every 1m"
	}
	if cnf.Triggers.PageSize <= 0 {
		cnf.Triggers.PageSize = 10
	}
	if cnf.Triggers.InlineCacheTime <= 0 {
		cnf.Triggers.InlineCacheTime = 5
	}
	if cnf.Queue.MaxConcurrent <= 0 {
		cnf.Queue.MaxConcurrent = 8
	}
	if cnf.Queue.HandlerTimeout <= 0 {
		cnf.Queue.HandlerTimeout = 30 * time.Second
	}
}

func (cnf *Conf) Validate() error {
	if cnf.Bot.Token == "" {
		return errors.New("bot.token is required")
	}
	switch cnf.State.Backend {
	case STATE_BACKEND_MEMORY, STATE_BACKEND_SQLITE:
	default:
		return fmt.Errorf("unknown state.backend: %s", cnf.State.Backend)
	}
	if cnf.Database.Path == "" {
		return errors.New("database.path is required")
	}
	return nil
}

// StateTTL время жизни состояния ожидания, 0 если не ограничено.
func (cnf *Conf) StateTTL() time.Duration {
	if cnf.State.TTL < 0 {
		return 0
	}
	return cnf.State.TTL
}

// WebhookURL полный адрес вебхука для регистрации.
func (cnf *Conf) WebhookURL() string {
	return cnf.Server.Host + cnf.Bot.WebhookPath
}

func Inject(key string, cnf *Conf) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(key, cnf)
	}
}
