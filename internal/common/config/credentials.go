package config

import (
	"fmt"
	"os"
	"strings"

	"design-exporter/internal/exporter/models"
)

// Имена переменных окружения с ключами внешних моделей.
const (
	GeminiAPIKey = "GEMINI_API_KEY"
	OpenAIAPIKey = "OPENAI_API_KEY"
)

// Credential читает ключ из окружения процесса в момент вызова.
// Пустое значение: фатальная ошибка конфигурации для вызывающей стадии.
func Credential(name string) (string, error) {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return "", models.NewError(models.ErrCodeMissingCredential,
			fmt.Sprintf("%s is not set", name), nil)
	}
	return value, nil
}
