package types

// WatchMetadata 用户提交的手表元数据
type WatchMetadata struct {
	Name     string `json:"name" validate:"required,min=5"`
	Serial   string `json:"serial" validate:"required,min=5"`
	Model    string `json:"model" validate:"required,min=5"`
	Year     int    `json:"year" validate:"notfuture"`
	Case     string `json:"case" validate:"required,min=5"`
	Extras   string `json:"extras"`
	FileType string `json:"fileType" validate:"required,imagemime"`
	FileName string `json:"fileName" validate:"required,filename"`
}

// UploadRequest 元数据上传请求
//
// Image 与 ImageDataURL 二选一；两者都提供时以 Image 为准。
type UploadRequest struct {
	Image        []byte        `json:"-"`
	ImageDataURL string        `json:"image,omitempty"`
	Metadata     WatchMetadata `json:"metadata"`
}

// UploadResult 上传结果
type UploadResult struct {
	// Locator 存储定位符 "<dirCID>/metadata.json"，直接作为 Mint 的 uri 参数
	Locator       string `json:"locator"`
	DirectoryCID  string `json:"directory_cid"` // metadata.json 所在目录
	MetadataCID   string `json:"metadata_cid"`
	ImageCID      string `json:"image_cid"`     // 图片原始内容
	ImageDirCID   string `json:"image_dir_cid"` // 图片所在目录
	ImageURL      string `json:"image_url"`     // ipfs://<imageDirCID>/<imageFileName>
	ImageFileName string `json:"image_file_name"`
	ImageSize     int64  `json:"image_size"`
}

// NFTAttribute 元数据文档中的一条属性
type NFTAttribute struct {
	TraitType string      `json:"trait_type"`
	Value     interface{} `json:"value"`
}

// NFTMetadataDocument 生成的 metadata.json 文档
type NFTMetadataDocument struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Image       string         `json:"image"`
	Attributes  []NFTAttribute `json:"attributes"`
}
