package sender

import "errors"

var (
	// ErrNilChannel 未提供通道
	ErrNilChannel = errors.New("sender: channel is nil")
	// ErrInvalidConfig 配置非法，启动即失败，不可恢复
	ErrInvalidConfig = errors.New("sender: invalid config")
	// ErrPeerDead 连续超时超过上限，对端视为失联
	ErrPeerDead = errors.New("sender: peer presumed dead")
)
