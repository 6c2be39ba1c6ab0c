package main

import (
	"log"
	api "swapflow/cmd/swapflow"
	"swapflow/conf"
	"swapflow/internal/middleware"
	"swapflow/pkg/logger"
)

// 启动服务（监听webhook）

/*
测试

BODY='{"type":"BUY","price":"1800.5"}'
SECRET="ab12cd34ef56abcdef1234567890abcdef1234567890abcdef1234567890"
SIGNATURE=$(echo -n $BODY | openssl dgst -sha256 -hmac $SECRET | sed 's/^.* //')

curl -X POST http://localhost:8090/api/v1/webhook \
  -H "Content-Type: application/json" \
  -H "X-Signature: $SIGNATURE" \
  -d "$BODY"
*/

func main() {

	// 加载配置文件
	err := conf.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	appCfg := conf.AppConfig

	logger.Init(appCfg.Log)
	defer logger.Sync()

	srvRouter, err := api.InitRouter()
	if err != nil {
		logger.Fatal("init trading pipeline failed", logger.Pair("error", err.Error()))
	}

	srv := api.NewServer(&appCfg)
	srv.Run(middleware.NewMiddleware(), srvRouter)
}
