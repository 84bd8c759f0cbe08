package logger

import (
	"io"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"go.uber.org/zap"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Option zap构造选项
type Option = zap.Option

func AddCaller() Option            { return zap.AddCaller() }
func AddCallerSkip(skip int) Option { return zap.AddCallerSkip(skip) }
func WithStacktrace(level Level) Option {
	return zap.AddStacktrace(toZapLevel(level))
}

// NewSizeRotateWriter 按大小切割的日志输出（lumberjack）
// maxSize单位MB，maxAge单位天
func NewSizeRotateWriter(filename string, maxSize, maxBackups, maxAge int, compress bool) io.Writer {
	return &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		MaxAge:     maxAge,
		Compress:   compress,
	}
}

// NewTimeRotateWriter 按时间切割的日志输出（file-rotatelogs）
func NewTimeRotateWriter(filename string, rotationTime, maxAge time.Duration) (io.Writer, error) {
	return rotatelogs.New(
		filename+".%Y%m%d%H%M",
		rotatelogs.WithLinkName(filename),
		rotatelogs.WithRotationTime(rotationTime),
		rotatelogs.WithMaxAge(maxAge),
	)
}
