package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Cfg struct {
	App        App
	Database   Database
	Logger     Logger
	OpenAI     OpenAI
	Browser    Browser
	Filler     Filler
	Agent      Agent
	Migrations Migrations
}

type App struct {
	Host string
	Port string
}

type Database struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

type Migrations struct {
	Path string
}

type Logger struct {
	Env        string
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type OpenAI struct {
	KeyAI             string
	Model             string
	MaxTokens         int
	RequestsPerMinute int
	TokensPerHour     int
}

type Browser struct {
	Display         string
	Headless        bool
	UserDataDir     string
	BrowsersPath    string
	Timeout         time.Duration
	NavigateTimeout time.Duration
}

// Filler задает паузы и лимиты движка заполнения форм.
type Filler struct {
	InitialWait   time.Duration
	SettleDelay   time.Duration
	FillPause     time.Duration
	ClickPause    time.Duration
	PreSubmit     time.Duration
	EntryTimeout  time.Duration
	ScriptRetries int
	LocateEntry   bool
}

// Agent - повторы навигации и защита от сбоящих сайтов.
type Agent struct {
	Retries       int
	RetryDelay    time.Duration
	MaxFailures   int
	ResetTimeout  time.Duration
	AllowCritical bool
}

func Load() (*Cfg, error) {
	_ = godotenv.Load()

	cfg := &Cfg{
		App: App{
			Host: env("APP_HOST", "0.0.0.0"),
			Port: env("APP_PORT", "8080"),
		},
		Database: Database{
			Host:     os.Getenv("DB_HOST"),
			Port:     os.Getenv("DB_PORT"),
			Name:     os.Getenv("DB_NAME"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASS"),
			SSLMode:  env("DB_SSLMODE", "disable"),
		},
		Logger: Logger{
			Env:        env("ENV", "dev"),
			Level:      env("LOG_LEVEL", "info"),
			File:       os.Getenv("LOG_FILE"),
			MaxSizeMB:  envInt("LOG_MAX_SIZE_MB", 50),
			MaxBackups: envInt("LOG_MAX_BACKUPS", 3),
			MaxAgeDays: envInt("LOG_MAX_AGE_DAYS", 14),
		},
		OpenAI: OpenAI{
			KeyAI:             os.Getenv("OPENAI_API_KEY"),
			Model:             env("OPENAI_MODEL", "gpt-4o"),
			MaxTokens:         envInt("OPENAI_MAX_TOKENS", 4000),
			RequestsPerMinute: envInt("OPENAI_RPM", 60),
			TokensPerHour:     envInt("OPENAI_TPH", 90000),
		},
		Browser: Browser{
			Display:         env("DISPLAY", ":0"),
			Headless:        envBool("PW_HEADLESS"),
			UserDataDir:     env("PW_USER_DATA_DIR", ""),
			BrowsersPath:    env("PLAYWRIGHT_BROWSERS_PATH", ""),
			Timeout:         envDuration("PW_TIMEOUT", 30*time.Second),
			NavigateTimeout: envDuration("PW_NAVIGATE_TIMEOUT", 60*time.Second),
		},
		Filler: Filler{
			InitialWait:   envDuration("FILL_INITIAL_WAIT", 2*time.Second),
			SettleDelay:   envDuration("FILL_SETTLE_DELAY", 3*time.Second),
			FillPause:     envDuration("FILL_PAUSE", 500*time.Millisecond),
			ClickPause:    envDuration("FILL_CLICK_PAUSE", 2*time.Second),
			PreSubmit:     envDuration("FILL_PRE_SUBMIT", 2*time.Second),
			EntryTimeout:  envDuration("FILL_ENTRY_TIMEOUT", 10*time.Second),
			ScriptRetries: envInt("FILL_SCRIPT_RETRIES", 2),
			LocateEntry:   envBoolDefault("FILL_LOCATE_ENTRY", true),
		},
		Agent: Agent{
			Retries:       envInt("AGENT_RETRIES", 3),
			RetryDelay:    envDuration("AGENT_RETRY_DELAY", 2*time.Second),
			MaxFailures:   envInt("AGENT_MAX_FAILURES", 5),
			ResetTimeout:  envDuration("AGENT_RESET_TIMEOUT", time.Minute),
			AllowCritical: envBool("AGENT_ALLOW_CRITICAL"),
		},
		Migrations: Migrations{
			Path: env("MIGRATIONS_PATH", "file://migrations"),
		},
	}

	return cfg, nil
}

// DSN собирает строку подключения к Postgres.
func (d Database) DSN() string {
	return "host=" + d.Host +
		" port=" + d.Port +
		" user=" + d.User +
		" password=" + d.Password +
		" dbname=" + d.Name +
		" sslmode=" + d.SSLMode
}

// URL возвращает адрес БД в формате, который понимает golang-migrate.
func (d Database) URL() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.Name + "?sslmode=" + d.SSLMode
}

func env(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func envInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "true" || v == "1" || v == "yes"
}

func envBoolDefault(key string, defaultValue bool) bool {
	if os.Getenv(key) == "" {
		return defaultValue
	}
	return envBool(key)
}

// envDuration принимает как "3s"/"500ms", так и целое число миллисекунд.
func envDuration(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Millisecond
	}
	return defaultValue
}
