// Package nftstorage 定义NFT元数据上传服务接口
//
// 上传服务校验手表元数据，将图片与生成的 metadata.json 以内容寻址方式保存，
// 返回可直接作为代币URI的存储定位符。
package nftstorage

import (
	"context"

	"github.com/unicus/v1/pkg/types"
)

// Uploader 元数据上传服务
type Uploader interface {
	// Upload 校验并保存图片和元数据，返回存储定位符
	Upload(ctx context.Context, req types.UploadRequest) (*types.UploadResult, error)

	// Get 按CID读取对象，返回内容和内容类型
	Get(ctx context.Context, cid string) ([]byte, string, error)

	// Resolve 解析 "<dirCID>/<name>" 形式的定位符，返回内容和内容类型
	Resolve(ctx context.Context, locator string) ([]byte, string, error)
}
