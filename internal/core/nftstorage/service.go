// Package nftstorage 实现手表NFT元数据上传服务
//
// 上传流程：
//  1. 校验元数据字段、文件名扩展名、图片大小与实际格式
//  2. 图片以 raw 编解码器寻址，包进单文件目录 {imageFileName: imageCID}
//  3. 生成 metadata.json（image 字段指向 ipfs://<图片目录CID>/<imageFileName>）
//  4. metadata.json 包进目录 {"metadata.json": metaCID}
//  5. 返回 "<目录CID>/metadata.json" 作为代币URI
//
// 所有对象内容寻址存放在 go-datastore 中，相同内容重复上传不产生新写入。
package nftstorage

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ipfs/go-cid"
	ds "github.com/ipfs/go-datastore"
	nftstorageconfig "github.com/unicus/v1/internal/config/nftstorage"
	"github.com/unicus/v1/pkg/interfaces/infrastructure/event"
	"github.com/unicus/v1/pkg/interfaces/infrastructure/log"
	"github.com/unicus/v1/pkg/interfaces/infrastructure/metrics"
	nftstorageif "github.com/unicus/v1/pkg/interfaces/nftstorage"
	"github.com/unicus/v1/pkg/types"
	"github.com/unicus/v1/pkg/utils"
	"github.com/unicus/v1/pkg/utils/timeutil"
)

var (
	_ nftstorageif.Uploader  = (*Service)(nil)
	_ metrics.MemoryReporter = (*Service)(nil)
)

// MetadataFileName 元数据文档在目录中的文件名
const MetadataFileName = "metadata.json"

// dataURLPrefix 图片 data URL 前缀
var dataURLPrefix = regexp.MustCompile(`^data:image/[\w.+-]+;base64,`)

// Service 元数据上传服务
type Service struct {
	objects  *objectStore
	root     ds.Datastore
	options  *nftstorageconfig.NFTStorageOptions
	validate *validator.Validate

	eventBus event.EventBus            // 可为nil
	logger   log.Logger                // 可为nil
	recorder metrics.OperationRecorder // 可为nil

	storedObjects atomic.Int64
	storedBytes   atomic.Int64
}

// NewService 创建上传服务
func NewService(
	root ds.Datastore,
	options *nftstorageconfig.NFTStorageOptions,
	eventBus event.EventBus,
	logger log.Logger,
	recorder metrics.OperationRecorder,
) (*Service, error) {
	if root == nil {
		return nil, fmt.Errorf("数据存储不能为空")
	}
	if options == nil {
		options = nftstorageconfig.New(nil).GetOptions()
	}
	return &Service{
		objects:  newObjectStore(root),
		root:     root,
		options:  options,
		validate: newValidator(timeutil.Now),
		eventBus: eventBus,
		logger:   logger,
		recorder: recorder,
	}, nil
}

// Upload 校验并保存图片与元数据
func (s *Service) Upload(ctx context.Context, req types.UploadRequest) (result *types.UploadResult, err error) {
	start := time.Now()
	defer func() {
		if s.recorder != nil {
			s.recorder.ObserveOperation("upload", err, time.Since(start))
		}
	}()

	md := req.Metadata
	if err := s.validateMetadata(&md); err != nil {
		return nil, err
	}
	ext, err := fileExtension(md.FileName)
	if err != nil {
		return nil, err
	}

	image, err := s.decodeImage(req)
	if err != nil {
		return nil, err
	}

	fileName := imageFileName(md.Name, ext)

	// 图片对象与图片目录
	imageCID, imageNew, err := s.objects.put(ctx, cid.Raw, image, md.FileType)
	if err != nil {
		return nil, err
	}
	imageDirCID, _, err := s.objects.putDirectory(ctx, map[string]string{fileName: imageCID.String()})
	if err != nil {
		return nil, err
	}
	imageURL := types.TokenURIPrefix + imageDirCID.String() + "/" + fileName

	// 元数据文档与元数据目录
	doc, err := json.Marshal(buildMetadataDocument(&md, imageURL))
	if err != nil {
		return nil, fmt.Errorf("编码元数据文档失败: %w", err)
	}
	metaCID, _, err := s.objects.put(ctx, cid.Raw, doc, contentTypeJSON)
	if err != nil {
		return nil, err
	}
	dirCID, _, err := s.objects.putDirectory(ctx, map[string]string{MetadataFileName: metaCID.String()})
	if err != nil {
		return nil, err
	}

	if imageNew {
		s.storedObjects.Add(1)
		s.storedBytes.Add(int64(len(image)))
	}

	result = &types.UploadResult{
		Locator:       dirCID.String() + "/" + MetadataFileName,
		DirectoryCID:  dirCID.String(),
		MetadataCID:   metaCID.String(),
		ImageCID:      imageCID.String(),
		ImageDirCID:   imageDirCID.String(),
		ImageURL:      imageURL,
		ImageFileName: fileName,
		ImageSize:     int64(len(image)),
	}

	if s.logger != nil {
		s.logger.Infof("📦 元数据已保存: locator=%s image=%s size=%d", result.Locator, fileName, len(image))
	}
	if s.eventBus != nil {
		s.eventBus.Publish(event.TopicMetadataUploaded, result)
	}
	return result, nil
}

// decodeImage 取出图片字节并校验大小和实际格式
func (s *Service) decodeImage(req types.UploadRequest) ([]byte, error) {
	image := req.Image
	if len(image) == 0 && req.ImageDataURL != "" {
		raw := dataURLPrefix.ReplaceAllString(strings.TrimSpace(req.ImageDataURL), "")
		decoded, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidImageEncoding, err)
		}
		image = decoded
	}

	if len(image) == 0 {
		return nil, ErrEmptyImage
	}
	if limit := s.options.MaxImageSize; limit > 0 && int64(len(image)) > limit {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrImageTooLarge, len(image), limit)
	}
	// 只按内容嗅探，不信任扩展名
	if detected := utils.DetectMimeType(image); !utils.IsImageMime(detected) {
		return nil, fmt.Errorf("%w: detected %s", ErrNotImage, detected)
	}
	return image, nil
}

// buildMetadataDocument 生成 metadata.json 文档
func buildMetadataDocument(md *types.WatchMetadata, imageURL string) *types.NFTMetadataDocument {
	return &types.NFTMetadataDocument{
		Name: md.Name,
		Description: fmt.Sprintf("Unicus Watch NFT: \nSerial: %s,\nModel: %s,\nYear: %d,\nCase: %s,\nExtras: %s",
			md.Serial, md.Model, md.Year, md.Case, md.Extras),
		Image: imageURL,
		Attributes: []types.NFTAttribute{
			{TraitType: "Serial", Value: md.Serial},
			{TraitType: "Model", Value: md.Model},
			{TraitType: "Year", Value: md.Year},
			{TraitType: "Case", Value: md.Case},
			{TraitType: "Extras", Value: md.Extras},
		},
	}
}

// Get 按CID读取对象
func (s *Service) Get(ctx context.Context, cidStr string) ([]byte, string, error) {
	c, err := cid.Decode(strings.TrimSpace(cidStr))
	if err != nil {
		return nil, "", ErrInvalidCID
	}
	return s.objects.get(ctx, c)
}

// Resolve 解析 "<dirCID>/<name>" 定位符，可带 ipfs:// 前缀
// 不含文件名时返回目录对象本身
func (s *Service) Resolve(ctx context.Context, locator string) ([]byte, string, error) {
	locator = strings.TrimPrefix(strings.TrimSpace(locator), types.TokenURIPrefix)
	dirPart, name, hasName := strings.Cut(locator, "/")
	if !hasName || name == "" {
		return s.Get(ctx, dirPart)
	}

	dirCID, err := cid.Decode(dirPart)
	if err != nil {
		return nil, "", ErrInvalidCID
	}
	dir, err := s.objects.getDirectory(ctx, dirCID)
	if err != nil {
		return nil, "", err
	}
	target, ok := dir.Links[name]
	if !ok {
		return nil, "", ErrObjectNotFound
	}
	return s.Get(ctx, target)
}

// Close 关闭数据存储
func (s *Service) Close() error {
	return s.root.Close()
}

// ModuleName 实现 MemoryReporter
func (s *Service) ModuleName() string {
	return "nftstorage"
}

// CollectMemoryStats 实现 MemoryReporter
// 统计的是本进程新写入的图片，不含启动前已有的对象
func (s *Service) CollectMemoryStats() metrics.ModuleMemoryStats {
	return metrics.ModuleMemoryStats{
		Module:      "nftstorage",
		Objects:     s.storedObjects.Load(),
		ApproxBytes: s.storedBytes.Load(),
	}
}
