package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/unicus/v1/pkg/types"
	"github.com/unicus/v1/pkg/utils"
)

// newUploadCmd 上传手表图片与元数据
func newUploadCmd() *cobra.Command {
	var (
		imagePath string
		meta      types.WatchMetadata
	)

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "上传手表图片与元数据，返回可直接用于 mint 的 locator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := os.ReadFile(imagePath)
			if err != nil {
				return fmt.Errorf("读取图片失败: %w", err)
			}
			if meta.FileName == "" {
				meta.FileName = filepath.Base(imagePath)
			}
			if meta.FileType == "" {
				meta.FileType = utils.DetectMimeType(image, meta.FileName)
			}

			client, err := getClient()
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			res, err := client.Upload(ctx, image, meta)
			if err != nil {
				return err
			}
			formatter.PrintSuccess(fmt.Sprintf("上传完成，铸造: unicus mint %s", res.Locator))
			return formatter.Print(res)
		},
	}

	f := cmd.Flags()
	f.StringVar(&imagePath, "image", "", "图片文件路径")
	f.StringVar(&meta.Name, "name", "", "名称")
	f.StringVar(&meta.Serial, "serial", "", "序列号")
	f.StringVar(&meta.Model, "model", "", "型号")
	f.IntVar(&meta.Year, "year", 0, "出厂年份")
	f.StringVar(&meta.Case, "case", "", "表壳材质与尺寸")
	f.StringVar(&meta.Extras, "extras", "", "附加说明")
	f.StringVar(&meta.FileName, "file-name", "", "图片文件名（缺省取 --image 文件名）")
	f.StringVar(&meta.FileType, "file-type", "", "图片MIME类型（缺省自动识别）")
	for _, name := range []string{"image", "name", "serial", "model", "case"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
