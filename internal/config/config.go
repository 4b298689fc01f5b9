package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config 聚合小部件与本地桩服务的配置项。
type Config struct {
	Widget WidgetConfig
	Server ServerConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	widget, err := loadWidgetConfig()
	if err != nil {
		return nil, err
	}

	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Widget: widget, Server: server}, nil
}

// WidgetConfig 描述聊天小部件客户端配置。
type WidgetConfig struct {
	APIBase        string
	APIKey         string
	Locale         string
	StateDir       string
	TimeoutSeconds int
}

func loadWidgetConfig() (WidgetConfig, error) {
	timeoutSeconds := 30
	if override, err := parseOptionalIntEnv("CHATBOT_HTTP_TIMEOUT"); err != nil {
		return WidgetConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return WidgetConfig{}, fmt.Errorf("invalid CHATBOT_HTTP_TIMEOUT value %d: must be positive", *override)
		}
		timeoutSeconds = *override
	}

	return WidgetConfig{
		APIBase:        getEnvOrDefault("CHATBOT_API_BASE", "http://localhost:8080/v1"),
		APIKey:         strings.TrimSpace(os.Getenv("CHATBOT_API_KEY")),
		Locale:         getEnvOrDefault("CHATBOT_LOCALE", "zh-TW"),
		StateDir:       strings.TrimSpace(os.Getenv("CHATBOT_STATE_DIR")),
		TimeoutSeconds: timeoutSeconds,
	}, nil
}

// ServerConfig 描述本地桩后端的 HTTP 服务配置。
type ServerConfig struct {
	Addr   string
	APIKey string
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	addr := port
	if !strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		addr = ":" + port
	}

	return ServerConfig{
		Addr:   addr,
		APIKey: strings.TrimSpace(os.Getenv("CHATBOT_API_KEY")),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
