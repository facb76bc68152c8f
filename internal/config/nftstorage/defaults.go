package nftstorage

const (
	// defaultBackend 默认使用 BadgerDB 保存对象
	defaultBackend = BackendBadger

	// defaultMaxImageSize 图片最大 10MiB
	defaultMaxImageSize = 10 << 20
)
