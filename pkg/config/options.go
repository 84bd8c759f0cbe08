package config

import (
	"time"

	"github.com/junbin-yang/go-rudt/pkg/logger"
)

// Option 配置管理器选项
type Option func(*Manager)

// WithAppName 设置应用名称（用于默认配置文件名）
func WithAppName(name string) Option {
	return func(m *Manager) {
		m.appName = name
	}
}

// WithForceFormat 强制指定配置格式（无视文件后缀）
func WithForceFormat(s Serializer) Option {
	return func(m *Manager) {
		m.forceFormat = s
	}
}

// WithDefaultPaths 设置默认配置文件查找路径模板
func WithDefaultPaths(paths ...string) Option {
	return func(m *Manager) {
		m.defaultPaths = paths
	}
}

// WithWatch 启用配置文件监听，文件变化防抖后自动重载
func WithWatch(interval time.Duration) Option {
	return func(m *Manager) {
		m.enableWatch = true
		m.debounce = interval
	}
}

// WithLogger 设置日志实现
func WithLogger(l logger.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}
