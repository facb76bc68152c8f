package configs

import (
	_ "embed"
	"fmt"
)

// 嵌入所有环境的配置文件
//
//go:embed development/config.json
var developmentConfig []byte

//go:embed testing/config.json
var testingConfig []byte

//go:embed production/config.json
var productionConfig []byte

// GetDevelopmentConfig 获取开发环境配置
// 未指定 --config 时节点使用该配置启动
func GetDevelopmentConfig() []byte {
	return developmentConfig
}

// GetTestingConfig 获取测试环境配置（内存存储）
func GetTestingConfig() []byte {
	return testingConfig
}

// GetProductionConfig 获取生产环境配置模板
func GetProductionConfig() []byte {
	return productionConfig
}

// GetTemplate 按环境名获取配置模板：dev | test | prod
func GetTemplate(env string) ([]byte, error) {
	switch env {
	case "dev":
		return developmentConfig, nil
	case "test":
		return testingConfig, nil
	case "prod":
		return productionConfig, nil
	default:
		return nil, fmt.Errorf("未知环境 %q，有效选项: dev | test | prod", env)
	}
}
