package client

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"github.com/shengyanli1982/taskgate-go/internal/config"
	"github.com/shengyanli1982/taskgate-go/internal/constants"
)

// ConnectionPool 连接池管理器，为后端客户端提供可复用的HTTP传输层
type ConnectionPool struct {
	transport *http.Transport
	config    *config.BackendConfig
}

// NewConnectionPool 创建新的连接池实例
func NewConnectionPool(cfg *config.BackendConfig) *ConnectionPool {
	connectTimeout := time.Duration(constants.DefaultConnectTimeout) * time.Millisecond
	idleTimeout := time.Duration(constants.DefaultIdleTimeout) * time.Millisecond
	if cfg.Timeout != nil {
		if cfg.Timeout.Connect > 0 {
			connectTimeout = time.Duration(cfg.Timeout.Connect) * time.Millisecond
		}
		if cfg.Timeout.Idle > 0 {
			idleTimeout = time.Duration(cfg.Timeout.Idle) * time.Millisecond
		}
	}

	// 创建自定义Transport
	transport := &http.Transport{
		TLSHandshakeTimeout: 30 * time.Second,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: false,
		},
		DialContext: (&net.Dialer{
			Timeout:   connectTimeout,
			KeepAlive: time.Duration(constants.DefaultKeepAlive) * time.Millisecond,
		}).DialContext,
		IdleConnTimeout:       idleTimeout,
		ExpectContinueTimeout: 1 * time.Second,
	}

	// 设置连接池配置
	if cfg.Connect != nil {
		transport.MaxIdleConns = cfg.Connect.IdleTotal
		transport.MaxIdleConnsPerHost = cfg.Connect.IdlePerHost
		transport.MaxConnsPerHost = cfg.Connect.MaxPerHost
	}

	return &ConnectionPool{
		transport: transport,
		config:    cfg,
	}
}

// GetTransport 获取HTTP传输层
func (p *ConnectionPool) GetTransport() *http.Transport {
	return p.transport
}

// Close 关闭连接池
func (p *ConnectionPool) Close() error {
	p.transport.CloseIdleConnections()
	return nil
}
