package model

import (
	"strconv"
	"strings"
	"time"

	str2duration "github.com/xhit/go-str2duration/v2"
)

// Duration интервал в конфигурации: 10s, 5m, 2h, 1d, 1w.
// Число без единицы измерения считается минутами.
type Duration struct {
	Value time.Duration
}

// UnmarshalText method satisfying toml unmarshal interface
func (d *Duration) UnmarshalText(text []byte) (err error) {
	t := strings.TrimSpace(string(text))
	if t == "" {
		d.Value = 0
		return nil
	}
	if _, err = strconv.Atoi(t); err == nil {
		t += "m"
	}
	d.Value, err = str2duration.ParseDuration(t)

	return err
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(str2duration.String(d.Value)), nil
}

type Bool struct {
	Value bool
}

// UnmarshalText method satisfying toml unmarshal interface
func (d *Bool) UnmarshalText(text []byte) error {
	d.Value = strings.EqualFold(strings.TrimSpace(string(text)), "true")
	return nil
}

func (d Bool) MarshalText() ([]byte, error) {
	return []byte(strconv.FormatBool(d.Value)), nil
}

type Int struct {
	Value int
}

// UnmarshalText method satisfying toml unmarshal interface
func (d *Int) UnmarshalText(text []byte) (err error) {
	tt := strings.TrimSpace(string(text))
	if tt == "" {
		d.Value = 0
		return nil
	}
	d.Value, err = strconv.Atoi(tt)

	return err
}

func (d Int) MarshalText() ([]byte, error) {
	return []byte(strconv.Itoa(d.Value)), nil
}
