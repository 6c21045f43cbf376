// Package scorm загрузка конфигурации и запуск из командной строки сервиса
// SCORM-плеера: разбор imsmanifest.xml, навигация по курсу, раздача файлов пакета
// и API учебных объектов.
package scorm

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
	"github.com/labstack/gommon/color"
)

// конфигурация длиннее считается переданной в base64
const maxConfigNameLen = 200

const configExt = ".cfg"

var (
	ErrConfig = errors.New("config file is empty")
	warning   = color.Red("[Fail]")
)

// ConfigLoad читаем конфигурацию
// 1. значения по-умолчанию и переменные окружения
// 2. файл конфигурации (без расширения добавляется .cfg) или сама конфигурация в base64
// 3. значения из файла перекрывают значения окружения
func ConfigLoad(config string, cfgPointer interface{}) (payload string, err error) {
	if err := envconfig.Process("", cfgPointer); err != nil {
		fmt.Println(warning, "Unable load default environment:", err)
		return "", fmt.Errorf("unable load default environment: %w", err)
	}

	if len(config) == 0 {
		return "", ErrConfig
	}

	if len(config) < maxConfigNameLen {
		if !strings.Contains(config, ".") {
			config += configExt
		}

		data, err := os.ReadFile(config)
		if err != nil {
			return "", fmt.Errorf("unable read configfile (%s): %w", config, err)
		}
		payload = string(data)
	} else {
		// пробуем расшифровать из base64
		debase, err := base64.StdEncoding.DecodeString(config)
		if err != nil {
			return "", fmt.Errorf("unable decode to string from base64 configfile: %w", err)
		}
		payload = string(debase)
	}

	return payload, DecodeConfig(payload, cfgPointer)
}

// DecodeConfig Читаем конфигурация из строки
func DecodeConfig(configfile string, cfg interface{}) (err error) {
	if _, err = toml.Decode(configfile, cfg); err != nil {
		fmt.Println(warning, "Error:", err)
	}

	return err
}
