package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Workspace  string           `mapstructure:"workspace"`
	Log        LogConfig        `mapstructure:"log"`
	Nmap       NmapConfig       `mapstructure:"nmap"`
	Gobuster   GobusterConfig   `mapstructure:"gobuster"`
	Web        WebConfig        `mapstructure:"web"`
	Screenshot ScreenshotConfig `mapstructure:"screenshot"`
	Report     ReportConfig     `mapstructure:"report"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

type NmapConfig struct {
	Path    string        `mapstructure:"path"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type GobusterConfig struct {
	Path       string        `mapstructure:"path"`
	Wordlist   string        `mapstructure:"wordlist"`
	Extensions string        `mapstructure:"extensions"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type WebConfig struct {
	Timeout  time.Duration `mapstructure:"timeout"`
	Insecure bool          `mapstructure:"insecure"`
}

type ScreenshotConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type ReportConfig struct {
	Client   string   `mapstructure:"client"`
	Type     string   `mapstructure:"type"`
	Author   string   `mapstructure:"author"`
	InScope  []string `mapstructure:"in_scope"`
	OutScope []string `mapstructure:"out_scope"`
	Tools    []string `mapstructure:"tools"`
	Summary  string   `mapstructure:"summary"`
	From     string   `mapstructure:"from"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("workspace", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)
	v.SetDefault("nmap.path", "nmap")
	v.SetDefault("nmap.timeout", 10*time.Minute)
	v.SetDefault("gobuster.path", "gobuster")
	v.SetDefault("gobuster.wordlist", "/usr/share/wordlists/dirb/common.txt")
	v.SetDefault("gobuster.extensions", "php,html,txt")
	v.SetDefault("gobuster.timeout", 5*time.Minute)
	v.SetDefault("web.timeout", 5*time.Second)
	v.SetDefault("web.insecure", true)
	v.SetDefault("screenshot.timeout", 15*time.Second)
	v.SetDefault("report.client", "Client")
	v.SetDefault("report.type", "Penetration Test")
	v.SetDefault("report.author", "eJPT Certified Tester")
}

// Load reads the optional config file and unmarshals v into a Config.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}
