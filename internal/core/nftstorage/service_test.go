package nftstorage

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	ds "github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	eventconfig "github.com/unicus/v1/internal/config/event"
	nftstorageconfig "github.com/unicus/v1/internal/config/nftstorage"
	badgerconfig "github.com/unicus/v1/internal/config/storage/badger"
	"github.com/unicus/v1/internal/core/infrastructure/event"
	"github.com/unicus/v1/internal/core/infrastructure/storage/badger"
	eventiface "github.com/unicus/v1/pkg/interfaces/infrastructure/event"
	"github.com/unicus/v1/pkg/types"
	"github.com/unicus/v1/pkg/utils/timeutil"
)

// pngImage 生成一张 1x1 的 PNG 图片
func pngImage(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, c)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func validMetadata() types.WatchMetadata {
	return types.WatchMetadata{
		Name:     "Rolex Submariner 2020!",
		Serial:   "SN-123456",
		Model:    "126610LN",
		Year:     2020,
		Case:     "Oystersteel 41mm",
		Extras:   "box and papers",
		FileType: "image/png",
		FileName: "photo.front.png",
	}
}

func newMemoryService(t *testing.T) *Service {
	t.Helper()
	root, err := NewDatastore(nftstorageconfig.BackendMemory, nil)
	require.NoError(t, err)
	svc, err := NewService(root, nil, nil, nil, nil)
	require.NoError(t, err)
	return svc
}

// TestUpload_StoresObjectsAndReturnsLocator 测试完整上传流程
func TestUpload_StoresObjectsAndReturnsLocator(t *testing.T) {
	// Arrange
	svc := newMemoryService(t)
	ctx := context.Background()
	img := pngImage(t, color.White)

	// Act
	res, err := svc.Upload(ctx, types.UploadRequest{Image: img, Metadata: validMetadata()})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, res.DirectoryCID+"/metadata.json", res.Locator)
	assert.False(t, strings.HasPrefix(res.Locator, "ipfs://"), "定位符不带 ipfs:// 前缀")
	assert.Equal(t, "rolex_submariner_2020.png", res.ImageFileName)
	assert.Equal(t, "ipfs://"+res.ImageDirCID+"/rolex_submariner_2020.png", res.ImageURL)
	assert.Equal(t, int64(len(img)), res.ImageSize)

	// 元数据文档
	data, contentType, err := svc.Resolve(ctx, res.Locator)
	require.NoError(t, err)
	assert.Equal(t, "application/json", contentType)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "Rolex Submariner 2020!", doc["name"])
	assert.Equal(t, "Unicus Watch NFT: \nSerial: SN-123456,\nModel: 126610LN,\nYear: 2020,\nCase: Oystersteel 41mm,\nExtras: box and papers", doc["description"])
	assert.Equal(t, res.ImageURL, doc["image"])

	attrs, ok := doc["attributes"].([]interface{})
	require.True(t, ok)
	require.Len(t, attrs, 5)
	year := attrs[2].(map[string]interface{})
	assert.Equal(t, "Year", year["trait_type"])
	assert.Equal(t, float64(2020), year["value"], "Year 属性为数值")

	// 图片可以通过 image 字段解析
	got, imgType, err := svc.Resolve(ctx, res.ImageURL)
	require.NoError(t, err)
	assert.Equal(t, img, got)
	assert.Equal(t, "image/png", imgType)

	// 原始图片CID可以直接读取
	raw, _, err := svc.Get(ctx, res.ImageCID)
	require.NoError(t, err)
	assert.Equal(t, img, raw)
}

// TestUpload_Idempotent 相同内容得到相同CID，且不重复写入
func TestUpload_Idempotent(t *testing.T) {
	svc := newMemoryService(t)
	ctx := context.Background()
	req := types.UploadRequest{Image: pngImage(t, color.Black), Metadata: validMetadata()}

	first, err := svc.Upload(ctx, req)
	require.NoError(t, err)
	second, err := svc.Upload(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), svc.CollectMemoryStats().Objects, "重复上传不应计为新对象")

	other := req
	other.Metadata.Serial = "SN-654321"
	third, err := svc.Upload(ctx, other)
	require.NoError(t, err)
	assert.NotEqual(t, first.Locator, third.Locator, "元数据不同定位符不同")
	assert.Equal(t, first.ImageCID, third.ImageCID, "图片相同则图片CID相同")
}

// TestUpload_DataURL 测试 data URL 形式的图片
func TestUpload_DataURL(t *testing.T) {
	svc := newMemoryService(t)
	img := pngImage(t, color.White)

	res, err := svc.Upload(context.Background(), types.UploadRequest{
		ImageDataURL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(img),
		Metadata:     validMetadata(),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(len(img)), res.ImageSize)
}

// TestUpload_Validation 测试上传校验规则
func TestUpload_Validation(t *testing.T) {
	img := pngImage(t, color.White)
	nextYear := time.Now().Year() + 1

	tests := []struct {
		name      string
		mutate    func(r *types.UploadRequest)
		wantErr   error
		wantField string
	}{
		{"名称过短", func(r *types.UploadRequest) { r.Metadata.Name = "Rolx" }, ErrInvalidMetadata, "name"},
		{"序列号过短", func(r *types.UploadRequest) { r.Metadata.Serial = "123" }, ErrInvalidMetadata, "serial"},
		{"型号为空", func(r *types.UploadRequest) { r.Metadata.Model = "" }, ErrInvalidMetadata, "model"},
		{"表壳过短", func(r *types.UploadRequest) { r.Metadata.Case = "41" }, ErrInvalidMetadata, "case"},
		{"年份在未来", func(r *types.UploadRequest) { r.Metadata.Year = nextYear }, ErrInvalidMetadata, "year"},
		{"文件类型不允许", func(r *types.UploadRequest) { r.Metadata.FileType = "image/webp" }, ErrInvalidMetadata, "fileType"},
		{"文件名含路径", func(r *types.UploadRequest) { r.Metadata.FileName = "dir/photo.png" }, ErrInvalidMetadata, "fileName"},
		{"文件名无扩展名", func(r *types.UploadRequest) { r.Metadata.FileName = "photo" }, ErrMissingExtension, ""},
		{"图片为空", func(r *types.UploadRequest) { r.Image = nil }, ErrEmptyImage, ""},
		{"非图片内容", func(r *types.UploadRequest) { r.Image = []byte("plain text, not an image") }, ErrNotImage, ""},
		{"base64无效", func(r *types.UploadRequest) { r.Image = nil; r.ImageDataURL = "data:image/png;base64,@@@" }, ErrInvalidImageEncoding, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newMemoryService(t)
			req := types.UploadRequest{Image: img, Metadata: validMetadata()}
			tt.mutate(&req)

			_, err := svc.Upload(context.Background(), req)

			require.ErrorIs(t, err, tt.wantErr)
			if tt.wantField != "" {
				fields := FieldErrors(err)
				require.Len(t, fields, 1)
				assert.Equal(t, tt.wantField, fields[0].Field)
			}
		})
	}
}

// TestUpload_MinLengthCountsRunes 最小长度按字符计数，四字节表情算一个字符
func TestUpload_MinLengthCountsRunes(t *testing.T) {
	svc := newMemoryService(t)
	img := pngImage(t, color.White)

	short := validMetadata()
	short.Name = "abc🕰"
	_, err := svc.Upload(context.Background(), types.UploadRequest{Image: img, Metadata: short})
	require.ErrorIs(t, err, ErrInvalidMetadata, "四个字符不满足最小长度")
	fields := FieldErrors(err)
	require.Len(t, fields, 1)
	assert.Equal(t, "name", fields[0].Field)

	enough := validMetadata()
	enough.Name = "abcd🕰"
	_, err = svc.Upload(context.Background(), types.UploadRequest{Image: img, Metadata: enough})
	assert.NoError(t, err, "五个字符满足最小长度")
}

// TestUpload_YearFollowsClock 测试年份上限取自注入的时钟
func TestUpload_YearFollowsClock(t *testing.T) {
	timeutil.SetNowFunc(func() time.Time { return time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC) })
	defer timeutil.SetNowFunc(nil)

	svc := newMemoryService(t)
	_, err := svc.Upload(context.Background(), types.UploadRequest{Image: pngImage(t, color.White), Metadata: validMetadata()})

	require.ErrorIs(t, err, ErrInvalidMetadata, "2020 年在 2019 年的时钟下属于未来")
	assert.Equal(t, "year", FieldErrors(err)[0].Field)
}

// TestUpload_ImageTooLarge 测试图片大小限制
func TestUpload_ImageTooLarge(t *testing.T) {
	root, err := NewDatastore(nftstorageconfig.BackendMemory, nil)
	require.NoError(t, err)
	img := pngImage(t, color.White)
	svc, err := NewService(root, &nftstorageconfig.NFTStorageOptions{MaxImageSize: int64(len(img) - 1)}, nil, nil, nil)
	require.NoError(t, err)

	_, err = svc.Upload(context.Background(), types.UploadRequest{Image: img, Metadata: validMetadata()})

	assert.ErrorIs(t, err, ErrImageTooLarge)
}

// TestImageFileName 测试图片文件名生成
func TestImageFileName(t *testing.T) {
	tests := []struct {
		name, ext, want string
	}{
		{"Rolex Submariner", ".png", "rolex_submariner.png"},
		{"  Omega   Speedmaster (Moon) ", ".jpg", "_omega_speedmaster_moon_.jpg"},
		{"Patek-Philippe 5711/1A", ".gif", "patekphilippe_57111a.gif"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, imageFileName(tt.name, tt.ext), tt.name)
	}
}

// TestGetAndResolve_Errors 测试读取错误
func TestGetAndResolve_Errors(t *testing.T) {
	svc := newMemoryService(t)
	ctx := context.Background()

	_, _, err := svc.Get(ctx, "not-a-cid")
	assert.ErrorIs(t, err, ErrInvalidCID)

	unknown, err := computeCID(0x55, []byte("missing"))
	require.NoError(t, err)
	_, _, err = svc.Get(ctx, unknown.String())
	assert.ErrorIs(t, err, ErrObjectNotFound)

	res, err := svc.Upload(ctx, types.UploadRequest{Image: pngImage(t, color.White), Metadata: validMetadata()})
	require.NoError(t, err)
	_, _, err = svc.Resolve(ctx, res.DirectoryCID+"/other.json")
	assert.ErrorIs(t, err, ErrObjectNotFound)
	_, _, err = svc.Resolve(ctx, res.MetadataCID+"/metadata.json")
	assert.ErrorIs(t, err, ErrInvalidCID, "raw 对象不是目录")
}

// TestUpload_BadgerBackendAndEvent 测试 badger 后端与上传事件
func TestUpload_BadgerBackendAndEvent(t *testing.T) {
	// Arrange
	store, err := badger.New(badgerconfig.New(&badgerconfig.BadgerOptions{InMemory: true}), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	root, err := NewDatastore(nftstorageconfig.BackendBadger, store)
	require.NoError(t, err)

	bus := event.New(eventconfig.New(nil), nil)
	var uploaded []*types.UploadResult
	require.NoError(t, bus.Subscribe(eventiface.TopicMetadataUploaded, func(r *types.UploadResult) {
		uploaded = append(uploaded, r)
	}))

	svc, err := NewService(root, nil, bus, nil, nil)
	require.NoError(t, err)
	ctx := context.Background()

	// Act
	res, err := svc.Upload(ctx, types.UploadRequest{Image: pngImage(t, color.White), Metadata: validMetadata()})
	require.NoError(t, err)

	// Assert
	require.Len(t, uploaded, 1)
	assert.Equal(t, res.Locator, uploaded[0].Locator)

	data, _, err := svc.Resolve(ctx, "ipfs://"+res.Locator)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name":"Rolex Submariner 2020!"`)

	// 图片、图片目录、元数据、元数据目录共4个对象
	results, err := root.Query(ctx, query.Query{Prefix: "/blocks", KeysOnly: true})
	require.NoError(t, err)
	entries, err := results.Rest()
	require.NoError(t, err)
	assert.Len(t, entries, 4)

	has, err := root.Has(ctx, ds.NewKey("/blocks/"+res.ImageCID))
	require.NoError(t, err)
	assert.True(t, has)
}

// TestNewDatastore_Errors 测试后端选择
func TestNewDatastore_Errors(t *testing.T) {
	_, err := NewDatastore(nftstorageconfig.BackendBadger, nil)
	assert.Error(t, err)
	_, err = NewDatastore("s3", nil)
	assert.Error(t, err)
}
