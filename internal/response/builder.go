// Package response 提供基于httptool.BaseHttpResponse的统一HTTP响应格式
//
// 管理端点使用统一的响应信封，支持链式调用和与gin框架的无缝集成
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shengyanli1982/toolkit/pkg/httptool"
)

// 响应代码常量定义
const (
	// CodeSuccess 表示操作成功
	CodeSuccess = 0

	// 1000-1999: 客户端错误
	CodeBadRequest = 1000 // 请求参数错误
	CodeNotFound   = 1003 // 资源未找到

	// 2000-2999: 服务器错误
	CodeInternalError      = 2000 // 服务器内部错误
	CodeServiceUnavailable = 2002 // 服务不可用

	// 3000-3999: 弹性中间件错误
	CodeCircuitBreakerOpen = 3000 // 熔断器开启
	CodeBackendTimeout     = 3001 // 后端调用超时
)

// ResponseBuilder 是基于httptool.BaseHttpResponse的统一响应构建器
type ResponseBuilder struct {
	response *httptool.BaseHttpResponse
}

// Success 创建成功响应构建器
func Success(data interface{}) *ResponseBuilder {
	return &ResponseBuilder{
		response: &httptool.BaseHttpResponse{
			Code: CodeSuccess,
			Data: data,
		},
	}
}

// Error 创建错误响应构建器
func Error(code int64, message string) *ResponseBuilder {
	return &ResponseBuilder{
		response: &httptool.BaseHttpResponse{
			Code:         code,
			ErrorMessage: message,
		},
	}
}

// WithDetail 添加错误详细信息，支持链式调用
func (r *ResponseBuilder) WithDetail(detail interface{}) *ResponseBuilder {
	r.response.ErrorDetail = detail
	return r
}

// WithData 设置响应数据，支持链式调用
func (r *ResponseBuilder) WithData(data interface{}) *ResponseBuilder {
	r.response.Data = data
	return r
}

// JSON 将响应输出为JSON格式到gin.Context
func (r *ResponseBuilder) JSON(c *gin.Context, httpStatus int) {
	c.JSON(httpStatus, r.response)
}

// GetResponse 获取底层的BaseHttpResponse对象
func (r *ResponseBuilder) GetResponse() *httptool.BaseHttpResponse {
	return r.response
}

// 便捷方法：常见的成功响应

// OK 返回标准的成功响应（HTTP 200）
func OK(c *gin.Context, data interface{}) {
	Success(data).JSON(c, http.StatusOK)
}

// NoContent 返回无内容响应（HTTP 204）
func NoContent(c *gin.Context) {
	Success(nil).JSON(c, http.StatusNoContent)
}

// 便捷方法：常见的错误响应

// BadRequest 返回客户端请求错误响应（HTTP 400）
func BadRequest(c *gin.Context, message string) {
	Error(CodeBadRequest, message).JSON(c, http.StatusBadRequest)
}

// NotFound 返回资源未找到错误响应（HTTP 404）
func NotFound(c *gin.Context, message string) {
	Error(CodeNotFound, message).JSON(c, http.StatusNotFound)
}

// InternalServerError 返回服务器内部错误响应（HTTP 500）
func InternalServerError(c *gin.Context, message string) {
	Error(CodeInternalError, message).JSON(c, http.StatusInternalServerError)
}

// ServiceUnavailable 返回服务不可用错误响应（HTTP 503）
func ServiceUnavailable(c *gin.Context, message string) {
	Error(CodeServiceUnavailable, message).JSON(c, http.StatusServiceUnavailable)
}
