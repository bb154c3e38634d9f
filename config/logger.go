package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"

	"qpc/misc"
)

type LoggerConfig struct {
	Level       string `yaml:"level" validate:"required,oneof=none debug normal"`
	Destination string `yaml:"destination,omitempty" sanitize:"path_clean,assure_dir_exists_for_file" validate:"omitempty,filepath"`
	Mode        string `yaml:"mode,omitempty" validate:"omitempty,oneof=append overwrite"`
}

type LoggingConfig struct {
	FileLogger    LoggerConfig `yaml:"file"`
	ConsoleLogger LoggerConfig `yaml:"console"`
}

// Prepare builds the program logger. Console output is split: info and
// below go to stdout, errors go to stderr with the verbose error field
// suppressed. An optional file sink captures everything at the
// configured level. A debug run forces both sinks to full verbosity.
func (conf *LoggingConfig) Prepare(debugRun bool) (*zap.Logger, error) {

	level := conf.ConsoleLogger.Level
	if debugRun {
		level = "debug"
	}
	outCore, errCore := consoleCores(level)

	fileCore, redirected, err := conf.fileCore(debugRun)
	if err != nil {
		return nil, err
	}

	log := zap.New(zapcore.NewTee(errCore, outCore, fileCore), zap.AddCaller())
	if redirected != "" {
		log.Warn("Log file was redirected to new location", zap.String("location", redirected))
	}
	return log.Named(misc.GetAppName()), nil
}

// consoleCores returns the stdout core for the requested level and the
// stderr core for errors. Colors are enabled per stream when the
// terminal supports them.
func consoleCores(level string) (out, errs zapcore.Core) {

	encoderFor := func(f *os.File) zapcore.EncoderConfig {
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeCaller = nil
		if EnableColorOutput(f) {
			ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
			ec.TimeKey = zapcore.OmitKey
		} else {
			ec.EncodeLevel = zapcore.CapitalLevelEncoder
		}
		return ec
	}

	var floor zapcore.Level
	switch level {
	case "normal":
		floor = zapcore.InfoLevel
	case "debug":
		floor = zapcore.DebugLevel
	default:
		return zapcore.NewNopCore(), zapcore.NewNopCore()
	}

	out = zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderFor(os.Stdout)),
		zapcore.Lock(os.Stdout),
		zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return floor <= lvl && lvl < zapcore.ErrorLevel
		}))
	errs = zapcore.NewCore(
		newConsoleErrEncoder(encoderFor(os.Stderr)),
		zapcore.Lock(os.Stderr),
		zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return lvl >= zapcore.ErrorLevel
		}))
	return out, errs
}

// fileCore opens the configured log file, falling back to a temp file
// when the destination is not writable. It also points the runtime
// crash output at a companion panic log so stack traces survive a
// crash during batch processing.
func (conf *LoggingConfig) fileCore(debugRun bool) (zapcore.Core, string, error) {

	level := conf.FileLogger.Level
	mode := conf.FileLogger.Mode
	if debugRun && conf.FileLogger.Destination != "" {
		level = "debug"
		mode = "overwrite"
	}

	var atomLevel zap.AtomicLevel
	switch level {
	case "debug":
		atomLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "normal":
		atomLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	default:
		return zapcore.NewNopCore(), "", nil
	}

	open := func(fname string) (*os.File, error) {
		flags := os.O_CREATE | os.O_WRONLY
		if mode == "append" {
			flags |= os.O_APPEND
		} else {
			flags |= os.O_TRUNC
		}
		return os.OpenFile(fname, flags, 0644)
	}

	// capture panic log if possible
	panicPath := filepath.Join(filepath.Dir(conf.FileLogger.Destination), misc.GetAppName()+"-panic.log")
	ef, err := open(panicPath)
	if err != nil {
		ef, err = os.CreateTemp("", misc.GetAppName()+"-panic.*.log")
	}
	if err == nil {
		debug.SetCrashOutput(ef, debug.CrashOptions{})
		ef.Close()
	}

	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())

	f, err := open(conf.FileLogger.Destination)
	if err == nil {
		return zapcore.NewCore(enc, zapcore.Lock(f), atomLevel), "", nil
	}
	if f, err = os.CreateTemp("", misc.GetAppName()+".*.log"); err == nil {
		return zapcore.NewCore(enc, zapcore.Lock(f), atomLevel), f.Name(), nil
	}
	return nil, "", fmt.Errorf("unable to access file log destination (%s): %w", conf.FileLogger.Destination, err)
}

// When logging error to console - do not output verbose message.

type consoleErrEnc struct {
	zapcore.Encoder
}

func newConsoleErrEncoder(cfg zapcore.EncoderConfig) zapcore.Encoder {
	return consoleErrEnc{zapcore.NewConsoleEncoder(cfg)}
}

func (c consoleErrEnc) Clone() zapcore.Encoder {
	return consoleErrEnc{c.Encoder.Clone()}
}

func (c consoleErrEnc) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	flat := make([]zapcore.Field, 0, len(fields))
	for _, f := range fields {
		if f.Type == zapcore.ErrorType {
			e := f.Interface.(error)
			f.Interface = errors.New(e.Error())
		}
		flat = append(flat, f)
	}
	return c.Encoder.EncodeEntry(ent, flat)
}
