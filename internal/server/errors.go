package server

import (
	"errors"

	"github.com/shengyanli1982/taskgate-go/internal/constants"
)

// 服务器相关错误定义
var (
	ErrServerAlreadyStarted = errors.New(constants.ErrMsgServerAlreadyStarted)
	ErrServerNotStarted     = errors.New(constants.ErrMsgServerNotStarted)
)
