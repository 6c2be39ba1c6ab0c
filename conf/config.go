package conf

import (
	"fmt"
	"gopkg.in/yaml.v3"
	"os"
	"strings"
	"time"
)

// 配置加载（RPC节点、钱包密钥、代币表等）

type WebhookConfig struct {
	Secret string `yaml:"secret"`
}

// ChainConfig 链配置，启动时构建唯一的链客户端
type ChainConfig struct {
	Name        string  `yaml:"name"`         // polygon / ethereum / arbitrum ...
	DisplayName string  `yaml:"display_name"` // 用于日志和告警展示
	Id          int64   `yaml:"id"`           // chain id
	Rpc         string  `yaml:"rpc"`
	Explorer    string  `yaml:"explorer"` // 浏览器地址，拼接 tx/{hash}
	Currency    string  `yaml:"currency"` // 原生币符号
	Router      string  `yaml:"router"`   // swap router 合约地址
	PrivateKey  string  `yaml:"private_key"`
	GasMin      float64 `yaml:"gas_min"` // 原生币最低余额，0表示使用链默认值
}

// TokenConfig 代币注册表中的一项
type TokenConfig struct {
	Address  string `yaml:"address"`
	Decimals uint8  `yaml:"decimals"`
	Name     string `yaml:"name"`
}

type TokensConfig struct {
	Stablecoin string                 `yaml:"stablecoin"` // 交易对中的稳定币符号
	Token      string                 `yaml:"token"`      // 投机代币符号
	Registry   map[string]TokenConfig `yaml:"registry"`
}

// RoutingConfig 外部寻路服务
type RoutingConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

type StrategyConfig struct {
	Size           float64 `yaml:"size"`            // 每次买入占稳定币余额的比例 (0~1)
	Min            float64 `yaml:"min"`             // 稳定币余额低于该值时停止买入
	ApproveCeiling float64 `yaml:"approve_ceiling"` // 授权批量上限，摊薄后续授权的gas
}

// ExecutorConfig 交易确认轮询参数
type ExecutorConfig struct {
	ConfirmTimeout  time.Duration `yaml:"confirm-timeout"`
	PollInterval    time.Duration `yaml:"poll-interval"`
	PollMaxInterval time.Duration `yaml:"poll-max-interval"`
}

type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatId int64  `yaml:"chat_id"`
}

type StoreConfig struct {
	Dir string `yaml:"dir"` // 持久化文档目录
}

type LogConfig struct {
	Level      string `yaml:"level"`
	FileName   string `yaml:"file-name"`
	TimeFormat string `yaml:"time-format"`
	MaxSize    int    `yaml:"max-size"`
	MaxBackups int    `yaml:"max-backups"`
	MaxAge     int    `yaml:"max-age"`
	Compress   bool   `yaml:"compress"`
	LocalTime  bool   `yaml:"local-time"`
	Console    bool   `yaml:"console"`
}

type Config struct {
	AppName      string `yaml:"app_name"`
	Listen       string `yaml:"listen"`
	Mode         string `yaml:"mode"`
	Language     string `yaml:"language"`
	MaxPingCount int    `yaml:"max-ping-count"`

	Webhook  WebhookConfig  `yaml:"webhook"`
	Chain    ChainConfig    `yaml:"chain"`
	Tokens   TokensConfig   `yaml:"tokens"`
	Routing  RoutingConfig  `yaml:"routing"`
	Strategy StrategyConfig `yaml:"strategy"`
	Executor ExecutorConfig `yaml:"executor"`
	Telegram TelegramConfig `yaml:"telegram"`
	Store    StoreConfig    `yaml:"store"`
	Log      LogConfig      `yaml:"log"`
}

var AppConfig Config

func LoadConfig(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("Read config file error %w", err)
	}
	if err := yaml.Unmarshal(data, &AppConfig); err != nil {
		return fmt.Errorf("Unmarshal config yaml error: %w", err)
	}
	return AppConfig.Validate()
}

// Validate 启动时校验，未知符号直接失败，避免下单时才发现配置错误
func (c *Config) Validate() error {
	if c.Chain.Rpc == "" {
		return fmt.Errorf("config: chain.rpc is required")
	}
	if c.Chain.Id <= 0 {
		return fmt.Errorf("config: chain.id is required")
	}
	if !isHexAddress(c.Chain.Router) {
		return fmt.Errorf("config: invalid chain.router %q", c.Chain.Router)
	}
	for _, symbol := range []string{c.Tokens.Stablecoin, c.Tokens.Token} {
		tc, ok := c.Tokens.Registry[symbol]
		if !ok {
			return fmt.Errorf("config: token %q not found in registry", symbol)
		}
		if !isHexAddress(tc.Address) {
			return fmt.Errorf("config: token %q invalid address %q", symbol, tc.Address)
		}
		if tc.Decimals == 0 {
			return fmt.Errorf("config: token %q missing decimals", symbol)
		}
	}
	if c.Strategy.Size <= 0 {
		c.Strategy.Size = 0.5
	}
	// 投入比例不能超过全部余额
	if c.Strategy.Size > 1 {
		c.Strategy.Size = 1
	}
	if c.Executor.ConfirmTimeout <= 0 {
		c.Executor.ConfirmTimeout = 3 * time.Minute
	}
	if c.Executor.PollInterval <= 0 {
		c.Executor.PollInterval = 2 * time.Second
	}
	if c.Executor.PollMaxInterval <= 0 {
		c.Executor.PollMaxInterval = 15 * time.Second
	}
	if c.Store.Dir == "" {
		c.Store.Dir = "logs"
	}
	return nil
}

func isHexAddress(s string) bool {
	return len(s) == 42 && strings.HasPrefix(s, "0x")
}
