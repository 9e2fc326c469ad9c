package config

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"staff-rota/internal/permissions"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type RotaConfig struct {
	DatabaseURL        string
	SiteName           string
	Departments        []string
	FeedListenAddr     string
	TelegramToken      string
	StaffChannelChatID int64
	Actor              string
	Editors            []string
	Managers           []string
}

var instance *RotaConfig
var once sync.Once

func GetRotaConfig() *RotaConfig {
	once.Do(func() {
		instance = &RotaConfig{}

		if err := godotenv.Load(); err != nil {
			logrus.Debugf("no .env file loaded: %s", err.Error())
		}

		instance.DatabaseURL = getEnv("DATABASE_URL", "rota.db")
		instance.SiteName = getEnv("SITE_NAME", "Rota")
		instance.Departments = getEnvAsList("DEPARTMENTS", nil)
		instance.FeedListenAddr = getEnv("FEED_LISTEN_ADDR", ":8090")
		instance.TelegramToken = getEnv("TELEGRAM_BOT_TOKEN", "")
		instance.StaffChannelChatID = getEnvAsInt("STAFF_CHANNEL_CHAT_ID", 0)
		instance.Actor = getEnv("ROTA_ACTOR", "local")
		instance.Editors = getEnvAsList("ROTA_EDITORS", nil)
		instance.Managers = getEnvAsList("ROTA_MANAGERS", nil)
	})

	return instance
}

// PermissionChecker builds the capability checker from the configured
// grants. With no grants configured the install is single-user and every
// actor is a manager.
func (c *RotaConfig) PermissionChecker() permissions.Checker {
	if len(c.Editors) == 0 && len(c.Managers) == 0 {
		return permissions.AllowAll()
	}

	grants := map[string]permissions.Role{}
	for _, actor := range c.Editors {
		grants[actor] = permissions.RoleEditor
	}
	for _, actor := range c.Managers {
		grants[actor] = permissions.RoleManager
	}
	return permissions.NewRoleChecker(grants, permissions.RoleViewer)
}

// NotifierConfigured reports whether publish announcements can be sent.
func (c *RotaConfig) NotifierConfigured() bool {
	return c.TelegramToken != "" && c.StaffChannelChatID != 0
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultVal
}

func getEnvAsInt(name string, defaultVal int64) int64 {
	valStr := getEnv(name, "")
	if val, err := strconv.Atoi(valStr); err == nil {
		return int64(val)
	}

	return defaultVal
}

func getEnvAsList(name string, defaultVal []string) []string {
	valStr := getEnv(name, "")
	if valStr == "" {
		return defaultVal
	}

	var values []string
	for _, part := range strings.Split(valStr, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
