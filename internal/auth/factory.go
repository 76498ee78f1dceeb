package auth

import (
	"errors"
	"fmt"

	"github.com/shengyanli1982/taskgate-go/internal/config"
	"github.com/shengyanli1982/taskgate-go/internal/constants"
)

// 工厂相关错误定义
var (
	ErrInvalidAuthType   = errors.New("invalid auth type")
	ErrInvalidAuthConfig = errors.New("invalid auth config")
)

// AuthenticatorFactory 代表认证器工厂接口
type AuthenticatorFactory interface {
	// Create 根据配置创建认证器
	// authConfig: 认证配置信息，nil时返回无认证
	Create(authConfig *config.AuthConfig) (Authenticator, error)
}

// defaultFactory 代表默认认证器工厂实现
type defaultFactory struct{}

// NewFactory 创建新的认证器工厂实例
func NewFactory() AuthenticatorFactory {
	return &defaultFactory{}
}

// Create 根据配置创建对应的认证器
func (f *defaultFactory) Create(authConfig *config.AuthConfig) (Authenticator, error) {
	// 没有认证配置时使用无认证
	if authConfig == nil {
		return NewNoneAuthenticator(), nil
	}

	switch authConfig.Type {
	case constants.AuthTypeNone, "":
		return NewNoneAuthenticator(), nil

	case constants.AuthTypeBearer:
		if authConfig.Token == "" {
			return nil, fmt.Errorf("%w: bearer token is required", ErrInvalidAuthConfig)
		}
		return NewBearerAuthenticator(authConfig.Token)

	case constants.AuthTypeBasic:
		if authConfig.Username == "" || authConfig.Password == "" {
			return nil, fmt.Errorf("%w: username and password are required for basic auth", ErrInvalidAuthConfig)
		}
		return NewBasicAuthenticator(authConfig.Username, authConfig.Password)

	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidAuthType, authConfig.Type)
	}
}
