package registry

const (
	// defaultPublicFeeEther 非创作者铸造费，以ether计
	defaultPublicFeeEther = "0.15"

	// defaultCacheSize 代币记录读缓存条目数
	defaultCacheSize = 1024
)
