package api

import "time"

// API服务默认配置值
const (
	// === HTTP API配置 ===

	// defaultHTTPEnabled 默认启用HTTP API
	defaultHTTPEnabled = true

	// defaultHTTPHost HTTP监听地址，监听所有网络接口
	defaultHTTPHost = "0.0.0.0"

	// defaultHTTPPort HTTP端口
	defaultHTTPPort = 8080

	// defaultHTTPReadTimeout HTTP读取超时
	defaultHTTPReadTimeout = 15 * time.Second

	// defaultHTTPWriteTimeout HTTP写入超时
	defaultHTTPWriteTimeout = 15 * time.Second

	// defaultHTTPIdleTimeout 空闲连接超时
	defaultHTTPIdleTimeout = 60 * time.Second

	// defaultMaxRequestSize 最大请求大小设为16MB
	// 上传接口以 base64 data URL 携带最大 10MiB 的图片，编码后约 13.4MB
	defaultMaxRequestSize = 16 * 1024 * 1024

	// defaultCORSEnabled 默认启用CORS，前端铸造页面跨域调用
	defaultCORSEnabled = true

	// defaultRateLimitReadPerSecond 每IP读请求QPS
	defaultRateLimitReadPerSecond = 50

	// defaultRateLimitWritePerSecond 每IP写请求QPS
	defaultRateLimitWritePerSecond = 5

	// === 签名配置 ===

	// defaultSignatureRequired 默认要求写请求签名
	defaultSignatureRequired = true

	// defaultSignatureMaxSkew 签名时间戳允许偏差
	defaultSignatureMaxSkew = 5 * time.Minute
)

// defaultCORSOrigins 默认允许所有源
var defaultCORSOrigins = []string{"*"}
