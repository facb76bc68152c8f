// Package types provides configuration type definitions.
package types

// AppConfig 应用程序根配置
// 只包含JSON配置文件解析所需的结构，不包含任何内部字段
// 默认值和完整配置结构在 internal/config/*/defaults.go 和 internal/config/*/config.go 中定义
type AppConfig struct {
	// 应用程序基本信息
	AppName *string `json:"app_name,omitempty"` // 应用名称
	DataDir *string `json:"data_dir,omitempty"` // 数据目录路径
	Version *string `json:"version,omitempty"`  // 应用版本

	// Environment 运行环境：dev | test | prod
	// 只影响日志级别、签名校验默认值等运维属性
	Environment *string `json:"environment,omitempty"`

	// API服务配置
	API *UserAPIConfig `json:"api,omitempty"`

	// 存储配置
	Storage *UserStorageConfig `json:"storage,omitempty"`

	// 日志配置
	Log *UserLogConfig `json:"log,omitempty"`

	// 事件配置
	Event *UserEventConfig `json:"event,omitempty"`

	// 代币注册表配置 - 对应配置文件中的 registry 字段
	Registry *UserRegistryConfig `json:"registry,omitempty"`

	// 元数据上传配置 - 对应配置文件中的 nft_storage 字段
	NFTStorage *UserNFTStorageConfig `json:"nft_storage,omitempty"`

	// 签名防重放缓存配置
	Replay *UserReplayConfig `json:"replay,omitempty"`
}

// UserAPIConfig 用户API配置
// 只包含JSON配置文件中实际出现的字段
type UserAPIConfig struct {
	HTTPEnabled *bool   `json:"http_enabled,omitempty"` // 是否启用HTTP服务（默认true）
	HTTPHost    *string `json:"http_host,omitempty"`    // 监听地址
	HTTPPort    *int    `json:"http_port,omitempty"`    // HTTP监听端口

	// HTTP CORS 配置
	HTTPCorsEnabled *bool    `json:"http_cors_enabled,omitempty"` // 是否启用CORS（默认true）
	HTTPCorsOrigins []string `json:"http_cors_origins,omitempty"` // 允许的CORS源（默认["*"]）

	// 签名校验
	RequireSignature *bool   `json:"require_signature,omitempty"`  // 写请求是否必须签名（默认true）
	SignatureMaxSkew *string `json:"signature_max_skew,omitempty"` // 签名时间戳允许偏差，如 "5m"

	// 限流
	RateLimitReadPerSecond  *int `json:"rate_limit_read_per_second,omitempty"`  // 每IP读请求QPS
	RateLimitWritePerSecond *int `json:"rate_limit_write_per_second,omitempty"` // 每IP写请求QPS

	MaxRequestSize *int64 `json:"max_request_size,omitempty"` // 最大请求体大小(字节)
}

// UserStorageConfig 用户存储配置
// 统一使用 data_root 作为数据根目录，badger 数据位于 {data_root}/badger
type UserStorageConfig struct {
	DataRoot *string `json:"data_root,omitempty"` // 数据根目录
	InMemory *bool   `json:"in_memory,omitempty"` // 使用内存BadgerDB（数据不持久化）
}

// UserLogConfig 用户日志配置
// 只包含JSON配置文件中实际出现的字段
type UserLogConfig struct {
	Level     *string `json:"level,omitempty"`      // 日志级别：debug, info, warn, error, fatal
	FilePath  *string `json:"file_path,omitempty"`  // 日志文件路径
	ToConsole *bool   `json:"to_console,omitempty"` // 是否同时输出到控制台
}

// UserEventConfig 用户事件配置
type UserEventConfig struct {
	Enabled *bool `json:"enabled,omitempty"` // 是否启用事件总线
}

// UserRegistryConfig 用户代币注册表配置
//
// 创作者列表和铸造费仅在注册表首次初始化时写入账本；
// 之后的变更通过管理员接口完成，配置文件不会覆盖账本中的值。
type UserRegistryConfig struct {
	Admin     *string  `json:"admin,omitempty"`      // 管理员地址（0x前缀十六进制）
	Creators  []string `json:"creators,omitempty"`   // 初始创作者地址列表
	PublicFee *string  `json:"public_fee,omitempty"` // 非创作者铸造费，以ether计的十进制字符串，如 "0.15"
	CacheSize *int     `json:"cache_size,omitempty"` // 代币记录读缓存条目数
}

// UserNFTStorageConfig 用户元数据上传配置
type UserNFTStorageConfig struct {
	Backend      *string `json:"backend,omitempty"`        // 对象存储后端：badger | memory
	MaxImageSize *int64  `json:"max_image_size,omitempty"` // 图片最大字节数
}

// UserReplayConfig 用户防重放缓存配置
type UserReplayConfig struct {
	Backend       *string `json:"backend,omitempty"`        // memory | redis
	RedisAddr     *string `json:"redis_addr,omitempty"`     // Redis地址，如 "127.0.0.1:6379"
	RedisPassword *string `json:"redis_password,omitempty"` // Redis密码
	RedisDB       *int    `json:"redis_db,omitempty"`       // Redis库编号
	KeyPrefix     *string `json:"key_prefix,omitempty"`     // Redis键前缀
}
