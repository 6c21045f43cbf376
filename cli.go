package scorm

import (
	"context"

	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

var ErrFormat = errors.New("unknown output format")

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// StartFunc запуск сервиса с файлом конфигурации и портом (пустой порт - из конфигурации)
type StartFunc func(ctx context.Context, configfile, port string) error

// ParseFunc вывод канонической формы манифеста из файла
type ParseFunc func(ctx context.Context, file, format string) error

// RunServiceFuncCLI обрабатываем параметры с консоли и вызываем переданную функцию
func RunServiceFuncCLI(ctx context.Context, args []string, start StartFunc, parse ParseFunc) error {
	appCLI := cli.NewApp()
	appCLI.Name = "scorm"
	appCLI.Usage = "SCORM player service"
	appCLI.Commands = []cli.Command{
		{
			Name:  "start",
			Usage: "Start SCORM player service",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "config, c",
					Usage: "Название файла конфигурации, с которым будет запущен сервис",
					Value: "scorm",
				},
				cli.StringFlag{
					Name:  "port, p",
					Usage: "Порт, на котором запустить процесс",
					Value: "",
				},
			},
			Action: func(c *cli.Context) error {
				return start(ctx, c.String("config"), c.String("port"))
			},
		},
		{
			Name:  "parse",
			Usage: "Print canonical form of imsmanifest.xml",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "file, f",
					Usage: "Путь к imsmanifest.xml",
					Value: "imsmanifest.xml",
				},
				cli.StringFlag{
					Name:  "format",
					Usage: "json или yaml",
					Value: FormatJSON,
				},
			},
			Action: func(c *cli.Context) error {
				format := c.String("format")
				if format != FormatJSON && format != FormatYAML {
					return errors.Wrap(ErrFormat, format)
				}
				return parse(ctx, c.String("file"), format)
			},
		},
	}

	return appCLI.Run(args)
}
