package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/goccy/go-yaml"
)

type (
	loggerConfig struct {
		Logging *struct {
			// сохранять ли логи в файл
			Enabled bool `yaml:"enabled"`
			// папка для логов, по умолчанию "./log"
			Directory string `yaml:"directory"`
			// формат даты и времени в имени файла
			FilenameFormat string `yaml:"filename_format"`
		} `yaml:"logging"`

		Color *struct {
			// отключить все цвета
			NoColor bool `yaml:"no_color"`

			Crit    colorConf `yaml:"crit"`
			Debug   colorConf `yaml:"debug"`
			Warning colorConf `yaml:"warning"`
			Event   colorConf `yaml:"event"`
		} `yaml:"color"`
	}

	colorConf struct {
		Enabled bool    `yaml:"enabled"`
		Rgb     *[3]int `yaml:"rgb"`
	}

	paint func(a ...interface{}) string

	// Logger пишет строки с префиксом уровня. Значение передается в компоненты явно.
	Logger struct {
		out     *log.Logger
		isDebug bool

		critColor    paint
		debugColor   paint
		warningColor paint
		eventColor   paint

		exit func(code int)
	}
)

var std = New(os.Stdout, false)

// New создает логгер без цветов, пишущий в w.
func New(w io.Writer, debug bool) *Logger {
	plain := func(a ...interface{}) string { return fmt.Sprint(a...) }
	return &Logger{
		out:          log.New(w, "[APP] ", log.Ldate|log.Ltime|log.Lmsgprefix),
		isDebug:      debug,
		critColor:    plain,
		debugColor:   plain,
		warningColor: plain,
		eventColor:   plain,
		exit:         os.Exit,
	}
}

// Default возвращает логгер, настроенный через InitLogger.
func Default() *Logger {
	return std
}

// InitLogger настраивает логгер по умолчанию. Возвращает открытый файл логов, если он используется.
func InitLogger(debug bool, configPath string) *os.File {
	std = New(os.Stdout, debug)

	f, err := std.Configure(configPath)
	if err != nil {
		std.Warning("Ошибка загрузки настроек для логов", err)
	}
	return f
}

// Configure применяет настройки цветов и записи в файл из yaml.
func (l *Logger) Configure(configPath string) (*os.File, error) {
	if configPath == "" {
		return nil, nil
	}

	input, err := os.Open(configPath)
	if err != nil {
		l.Info("Настройки для логов не найдены")
		return nil, nil
	}
	defer input.Close()

	cnf := &loggerConfig{}
	if err := yaml.NewDecoder(input).Decode(cnf); err != nil {
		return nil, err
	}

	if cnf.Color != nil && !cnf.Color.NoColor {
		setColorCnf := func(cData colorConf, fallback *color.Color, target *paint) {
			if !cData.Enabled {
				return
			}
			c := fallback
			if cData.Rgb != nil {
				c = color.RGB((*cData.Rgb)[0], (*cData.Rgb)[1], (*cData.Rgb)[2])
			}
			c.EnableColor()
			*target = c.SprintFunc()
		}

		setColorCnf(cnf.Color.Crit, color.RGB(255, 0, 0), &l.critColor)
		setColorCnf(cnf.Color.Debug, color.RGB(255, 165, 0), &l.debugColor)
		setColorCnf(cnf.Color.Warning, color.RGB(255, 255, 0), &l.warningColor)
		setColorCnf(cnf.Color.Event, color.RGB(0, 255, 0), &l.eventColor)
	}

	if cnf.Logging == nil || !cnf.Logging.Enabled {
		return nil, nil
	}

	if cnf.Logging.Directory == "" {
		cnf.Logging.Directory = "./log"
	}
	if cnf.Logging.FilenameFormat == "" {
		cnf.Logging.FilenameFormat = "app"
	}

	if err := os.MkdirAll(cnf.Logging.Directory, 0755); err != nil {
		return nil, err
	}

	fileName := fmt.Sprintf("%s/%s.log", cnf.Logging.Directory, time.Now().Format(cnf.Logging.FilenameFormat))
	logFile, err := os.OpenFile(fileName, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0666)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", fileName, err)
	}
	l.out.SetOutput(io.MultiWriter(l.out.Writer(), logFile))

	return logFile, nil
}

func (l *Logger) Info(v ...interface{}) {
	l.out.Print("[INFO] ", fmt.Sprintln(v...))
}

func (l *Logger) Event(v ...interface{}) {
	l.out.Print(l.eventColor("[Event] ", fmt.Sprintln(v...)))
}

func (l *Logger) Warning(v ...interface{}) {
	l.out.Print(l.warningColor("[WARNING] ", fmt.Sprintln(v...)))
}

// Debug пишет только в режиме отладки, не строковые аргументы сериализуются в json.
func (l *Logger) Debug(v ...interface{}) {
	if !l.isDebug {
		return
	}

	message := new(bytes.Buffer)
	for _, str := range v {
		if s, ok := str.(string); ok {
			_, _ = fmt.Fprintf(message, "%s ", s)
			continue
		}
		if err, ok := str.(error); ok {
			_, _ = fmt.Fprintf(message, "%s ", err.Error())
			continue
		}
		b, _ := json.MarshalIndent(str, "", " ")
		_, _ = fmt.Fprintf(message, "%s ", string(b))
	}

	l.out.Print(l.debugColor("[DEBUG] ", message))
}

func (l *Logger) Crit(v ...interface{}) {
	l.out.Print(l.critColor("Critical error: ", fmt.Sprintln(v...)))
	time.Sleep(time.Second)
	l.exit(1)
}

func Info(v ...interface{})    { std.Info(v...) }
func Event(v ...interface{})   { std.Event(v...) }
func Warning(v ...interface{}) { std.Warning(v...) }
func Debug(v ...interface{})   { std.Debug(v...) }
func Crit(v ...interface{})    { std.Crit(v...) }
