package config

import (
	"fmt"
	"os"
	"strings"

	confv1 "product-catalog-go/internal/conf/v1"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

// Module 提供 Fx 模块
var Module = fx.Module("config",
	fx.Provide(
		// 提供配置加载函数
		func() (*confv1.Bootstrap, error) {
			// 从环境变量获取配置路径，如果没有设置则使用默认路径
			configPath := getConfigPath()

			conf, err := Init(configPath)
			if err != nil {
				return nil, fmt.Errorf("load config from %s failed: %w", configPath, err)
			}

			fmt.Printf("Configuration loaded successfully from: %s\n", configPath)
			return conf, nil
		},
	),
)

// Init 初始化配置加载，仅从本地文件读取
func Init(configPath string) (*confv1.Bootstrap, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	localConf := &confv1.Bootstrap{}

	// 从本地文件读取配置
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// 获取 Viper 的所有配置为一个 map
	m := v.AllSettings()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Metadata: nil,
		// 允许将 snake_case 键与 CamelCase 字段匹配
		TagName: "json", // 明确告诉 mapstructure 使用 json tag
		Result:  localConf,
	})
	if err != nil {
		return nil, fmt.Errorf("create decoder: %w", err)
	}

	if err := decoder.Decode(m); err != nil {
		return nil, fmt.Errorf("decode config map into struct: %w", err)
	}

	return localConf, nil
}

// getConfigPath 从环境变量获取配置路径
func getConfigPath() string {
	// 优先使用环境变量 CONFIG_PATH
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		return configPath
	}

	// 如果没有设置环境变量，根据运行环境返回默认路径
	// 在Docker容器中，配置文件位于/app/configs/config.yaml
	// 在开发环境中，配置文件位于configs/config.yaml
	if isRunningInContainer() {
		return "/app/configs/config.yaml"
	}

	return "configs/config.yaml"
}

// isRunningInContainer 检查是否在容器中运行
func isRunningInContainer() bool {
	// 1. 检查/.dockerenv文件是否存在
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}

	// 2. 检查/proc/1/cgroup文件内容
	if cgroup, err := os.ReadFile("/proc/1/cgroup"); err == nil {
		if strings.Contains(string(cgroup), "docker") || strings.Contains(string(cgroup), "kubepods") {
			return true
		}
	}

	// 3. 检查容器相关的环境变量
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" || os.Getenv("CONTAINER") != "" {
		return true
	}

	return false
}

// ValidateConfig 验证配置的完整性
func ValidateConfig(conf *confv1.Bootstrap) error {
	if conf == nil {
		return fmt.Errorf("configuration is nil")
	}

	// 验证服务器配置
	if conf.Server == nil || conf.Server.Http == nil || conf.Server.Http.Addr == "" {
		return fmt.Errorf("server configuration is required")
	}

	// 验证数据库配置
	if conf.Data == nil || conf.Data.Database == nil {
		return fmt.Errorf("database configuration is required")
	}

	// 验证 Redis 配置
	if conf.Data.Redis == nil {
		return fmt.Errorf("redis configuration is required")
	}

	// 认证配置允许密钥为空（会自动生成），但结构必须存在
	if conf.Auth == nil {
		return fmt.Errorf("auth configuration is required")
	}

	return nil
}
