// Package auth 提供后端请求的认证器实现
package auth

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/shengyanli1982/taskgate-go/internal/constants"
)

// 认证相关错误定义
var (
	ErrNilRequest    = errors.New("request cannot be nil")
	ErrEmptyToken    = errors.New("bearer token cannot be empty")
	ErrEmptyUsername = errors.New("username cannot be empty")
	ErrEmptyPassword = errors.New("password cannot be empty")
)

// Authenticator 代表认证器接口，定义HTTP请求认证的行为
type Authenticator interface {
	// Apply 将认证信息应用到HTTP请求中
	// req: 要应用认证的HTTP请求
	Apply(req *http.Request) error

	// Type 获取认证器类型
	Type() string
}

// noneAuthenticator 代表无认证实现
type noneAuthenticator struct{}

// NewNoneAuthenticator 创建新的无认证认证器
func NewNoneAuthenticator() Authenticator {
	return &noneAuthenticator{}
}

// Apply 对HTTP请求不进行任何认证操作
func (a *noneAuthenticator) Apply(req *http.Request) error {
	// 无认证模式下不对请求进行任何修改
	return nil
}

// Type 获取认证器类型
func (a *noneAuthenticator) Type() string {
	return constants.AuthTypeNone
}

// bearerAuthenticator 代表Bearer Token认证实现
type bearerAuthenticator struct {
	token string
}

// NewBearerAuthenticator 创建新的Bearer Token认证器
// token: Bearer Token值
func NewBearerAuthenticator(token string) (Authenticator, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrEmptyToken
	}

	return &bearerAuthenticator{
		token: strings.TrimSpace(token),
	}, nil
}

// Apply 将Bearer Token应用到HTTP请求的Authorization头部
func (a *bearerAuthenticator) Apply(req *http.Request) error {
	if req == nil {
		return ErrNilRequest
	}

	req.Header.Set(constants.HeaderAuthorization, constants.BearerPrefix+a.token)
	return nil
}

// Type 获取认证器类型
func (a *bearerAuthenticator) Type() string {
	return constants.AuthTypeBearer
}

// basicAuthenticator 代表Basic Auth认证实现
type basicAuthenticator struct {
	username string
	password string
}

// NewBasicAuthenticator 创建新的Basic Auth认证器
// username: 用户名
// password: 密码
func NewBasicAuthenticator(username, password string) (Authenticator, error) {
	if strings.TrimSpace(username) == "" {
		return nil, ErrEmptyUsername
	}
	if strings.TrimSpace(password) == "" {
		return nil, ErrEmptyPassword
	}

	return &basicAuthenticator{
		username: strings.TrimSpace(username),
		password: strings.TrimSpace(password),
	}, nil
}

// Apply 将Basic Auth凭据应用到HTTP请求的Authorization头部
func (a *basicAuthenticator) Apply(req *http.Request) error {
	if req == nil {
		return ErrNilRequest
	}

	credentials := a.username + ":" + a.password
	encoded := base64.StdEncoding.EncodeToString([]byte(credentials))
	req.Header.Set(constants.HeaderAuthorization, constants.BasicPrefix+encoded)
	return nil
}

// Type 获取认证器类型
func (a *basicAuthenticator) Type() string {
	return constants.AuthTypeBasic
}
