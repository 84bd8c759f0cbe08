package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/junbin-yang/go-rudt/pkg/logger"
)

// Manager 传输配置管理器：按默认值→配置文件→环境变量的顺序组装配置，
// 可选监听配置文件变化自动重载
type Manager struct {
	cfg              *TransferConfig
	configPath       string
	appName          string
	serializer       Serializer   // 当前使用的序列化器
	forceFormat      Serializer   // 强制指定的格式（优先级最高）
	supportedFormats []Serializer // 支持的配置格式列表
	defaultPaths     []string     // 默认配置路径模板
	log              logger.Logger

	once    sync.Once
	mu      sync.RWMutex
	loadErr error

	enableWatch bool
	debounce    time.Duration
	watcher     *fsnotify.Watcher
	watchQuit   chan struct{}
	watchOnce   sync.Once

	callbacks []func(old, new *TransferConfig)
}

// NewManager 创建配置管理器
func NewManager(options ...Option) *Manager {
	m := &Manager{
		cfg:              Default(),
		appName:          "rudt",
		serializer:       &YAMLSerializer{},
		supportedFormats: []Serializer{&YAMLSerializer{}, &JSONSerializer{}, &INISerializer{}},
		defaultPaths: []string{
			"./{{.AppName}}",
			"{{.ExecDir}}/{{.AppName}}",
			"/etc/{{.AppName}}",
		},
		log:       logger.Default(),
		watchQuit: make(chan struct{}),
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// Load 加载配置。customPath为空时按默认路径模板查找；
// 找不到配置文件不算错误，使用默认值加环境变量覆盖
func (m *Manager) Load(customPath string) error {
	m.once.Do(func() {
		if customPath != "" {
			if err := validateConfigPath(customPath); err != nil {
				m.loadErr = fmt.Errorf("配置路径无效: %w", err)
				return
			}
			m.configPath = customPath
			m.chooseSerializer(customPath)
		} else if path, err := m.findDefaultConfigPath(); err == nil {
			m.configPath = path
		}

		if m.configPath != "" {
			if err := m.parseConfigFile(m.cfg); err != nil {
				m.loadErr = err
				return
			}
		}
		applyEnvOverrides(m.cfg)
		if err := m.cfg.Validate(); err != nil {
			m.loadErr = fmt.Errorf("配置校验失败: %w", err)
			return
		}
		if m.enableWatch && m.configPath != "" {
			if err := m.startWatch(); err != nil {
				m.log.Warn("启动配置监听失败", logger.GetError(err))
			}
		}
	})
	return m.loadErr
}

// Get 获取当前配置快照
func (m *Manager) Get() (*TransferConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	snapshot := *m.cfg
	return &snapshot, nil
}

// Save 把当前配置写回配置文件（先写临时文件再替换）
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.configPath == "" {
		return errors.New("配置路径未初始化")
	}
	data, err := m.serializer.Marshal(m.cfg)
	if err != nil {
		return fmt.Errorf("序列化配置失败(%s): %w", m.serializer.Name(), err)
	}
	tmp := m.configPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("写临时配置失败: %w", err)
	}
	if err := os.Rename(tmp, m.configPath); err != nil {
		return fmt.Errorf("替换配置文件失败: %w", err)
	}
	return nil
}

// Reload 重新加载配置文件并触发变更回调
func (m *Manager) Reload() error {
	m.mu.RLock()
	path := m.configPath
	m.mu.RUnlock()
	if path == "" {
		return errors.New("配置路径未初始化")
	}
	if err := validateConfigPath(path); err != nil {
		return fmt.Errorf("配置路径无效: %w", err)
	}

	next := Default()
	if err := m.parseConfigFile(next); err != nil {
		return err
	}
	applyEnvOverrides(next)
	if err := next.Validate(); err != nil {
		return fmt.Errorf("配置校验失败: %w", err)
	}

	m.mu.Lock()
	old := m.cfg
	m.cfg = next
	m.loadErr = nil
	callbacks := make([]func(old, new *TransferConfig), len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.mu.Unlock()

	// 回调在锁外执行
	for _, cb := range callbacks {
		cb(old, next)
	}
	return nil
}

// OnChange 注册配置变更回调
func (m *Manager) OnChange(cb func(old, new *TransferConfig)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, cb)
}

// Close 停止配置监听
func (m *Manager) Close() {
	m.stopWatch()
	close(m.watchQuit)
}

// chooseSerializer 按文件后缀选择序列化器，强制格式优先
func (m *Manager) chooseSerializer(path string) {
	if m.forceFormat != nil {
		m.serializer = m.forceFormat
		return
	}
	ext := filepath.Ext(path)
	for _, s := range m.supportedFormats {
		if s.Ext() == ext {
			m.serializer = s
			return
		}
	}
}

// findDefaultConfigPath 按路径模板依次查找配置文件
func (m *Manager) findDefaultConfigPath() (string, error) {
	execPath, _ := os.Executable()
	execDir := filepath.Dir(execPath)

	for _, tpl := range m.defaultPaths {
		base := replacePathVars(tpl, map[string]string{
			"AppName": m.appName,
			"ExecDir": execDir,
		})
		if err := validateConfigPath(base); err == nil {
			m.chooseSerializer(base)
			return base, nil
		}
		for _, s := range m.supportedFormats {
			full := base + s.Ext()
			if err := validateConfigPath(full); err == nil {
				m.serializer = s
				return full, nil
			}
		}
	}
	return "", errors.New("未找到配置文件")
}

func (m *Manager) parseConfigFile(dst *TransferConfig) error {
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return fmt.Errorf("读取配置文件失败: %w", err)
	}
	if err := m.serializer.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("解析配置失败(%s): %w", m.serializer.Name(), err)
	}
	return nil
}

// startWatch 启动配置文件监听，写入事件防抖后自动重载
func (m *Manager) startWatch() error {
	var err error
	m.watchOnce.Do(func() {
		if m.debounce <= 0 {
			m.debounce = 500 * time.Millisecond
		}
		m.watcher, err = fsnotify.NewWatcher()
		if err != nil {
			return
		}
		if err = m.watcher.Add(m.configPath); err != nil {
			m.watcher.Close()
			m.watcher = nil
			return
		}
		go m.watchLoop(m.watcher)
	})
	return err
}

func (m *Manager) stopWatch() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.watcher != nil {
		m.watcher.Close()
		m.watcher = nil
	}
}

func (m *Manager) watchLoop(w *fsnotify.Watcher) {
	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				timer.Reset(m.debounce)
			}
		case <-timer.C:
			if err := m.Reload(); err != nil {
				m.log.Warn("配置自动重载失败", logger.GetError(err))
			} else {
				m.log.Info("配置已自动重载", logger.String("path", m.configPath))
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			m.log.Warn("配置监听错误", logger.GetError(err))
		case <-m.watchQuit:
			return
		}
	}
}

// replacePathVars 替换路径模板变量
func replacePathVars(tpl string, vars map[string]string) string {
	out := tpl
	for k, v := range vars {
		out = strings.ReplaceAll(out, "{{."+k+"}}", v)
	}
	return out
}

// validateConfigPath 校验配置路径指向普通文件
func validateConfigPath(path string) error {
	if path == "" {
		return errors.New("路径为空")
	}
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	if fi.IsDir() {
		return fmt.Errorf("路径是目录: %s", path)
	}
	return nil
}
