// Package tracing 提供链路追踪和请求上下文协作者
//
// 基于 OpenTelemetry API 实现，未安装 SDK 时所有操作退化为空实现，
// 上游网关层负责配置具体的 TracerProvider
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/shengyanli1982/taskgate-go/internal/constants"
)

// requestIDKey 请求ID在context中的键类型，未导出避免冲突
type requestIDKey struct{}

// WithRequestID 将请求ID写入context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFrom 从context读取请求ID，不存在时返回false
func RequestIDFrom(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(requestIDKey{}).(string)
	return requestID, ok && requestID != ""
}

// Tracer 返回项目统一的追踪器实例
func Tracer() trace.Tracer {
	return otel.Tracer(constants.TracerName)
}

// WithSpan 在一个跨度内执行fn，自动附加环境请求ID并记录执行结果
// name: 跨度名称
// fn: 待执行的操作
func WithSpan(ctx context.Context, name string, fn func(ctx context.Context, span trace.Span) (any, error)) (any, error) {
	ctx, span := Tracer().Start(ctx, name)
	defer span.End()

	// 附加环境请求ID（如果存在）
	if requestID, ok := RequestIDFrom(ctx); ok {
		span.SetAttributes(attribute.String(constants.AttrRequestID, requestID))
	}

	result, err := fn(ctx, span)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return result, nil
}
