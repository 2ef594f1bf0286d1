package core

import (
	"time"
)

const (
	// DefaultSearchLimit is the number of search candidates requested per query
	DefaultSearchLimit = 8
	// DefaultMenuWidth is the number of buttons per keyboard row
	DefaultMenuWidth = 4
	// DefaultTitleBudget is the character budget for candidate titles in menus
	DefaultTitleBudget = 40
	// DefaultRefTTL is how long a pending reference stays resolvable
	DefaultRefTTL = 30 * time.Minute
)

type Config struct {
	Telegram TelegramConfig
	Extract  ExtractConfig
	Deezer   DeezerConfig
	Server   ServerConfig
	Log      LogConfig
	App      AppConfig
}

type TelegramConfig struct {
	BotToken            string
	AppURL              string   // externally reachable base URL; enables webhook mode when set
	GateChannels        []string // channels the user must be a member of, e.g. "@mychannel"
	Language            string   // default bot language for user-facing messages
	FloodLimitPerMinute int
}

type ExtractConfig struct {
	Provider      string // youtube, soundcloud or deezer
	BinPath       string // yt-dlp binary
	ScratchDir    string
	SearchLimit   int
	AudioBitrate  string // re-encode target for audio fetches
	SearchTimeout time.Duration
	FetchTimeout  time.Duration
}

type DeezerConfig struct {
	BaseURL string
	Timeout time.Duration
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type AppConfig struct {
	MenuWidth     int
	TitleBudget   int
	RefCapacity   int
	RefTTL        time.Duration
	FetchWorkers  int
	FetchQueue    int
	FileCacheSize int
}

func DefaultConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{
			Language:            "en",
			FloodLimitPerMinute: 10,
		},
		Extract: ExtractConfig{
			Provider:      "youtube",
			BinPath:       "yt-dlp",
			ScratchDir:    "./downloads",
			SearchLimit:   DefaultSearchLimit,
			AudioBitrate:  "192K",
			SearchTimeout: 30 * time.Second,
			FetchTimeout:  5 * time.Minute,
		},
		Deezer: DeezerConfig{
			BaseURL: "https://api.deezer.com",
			Timeout: 15 * time.Second,
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		App: AppConfig{
			MenuWidth:     DefaultMenuWidth,
			TitleBudget:   DefaultTitleBudget,
			RefCapacity:   4096,
			RefTTL:        DefaultRefTTL,
			FetchWorkers:  4,
			FetchQueue:    16,
			FileCacheSize: 1024,
		},
	}
}
