// 更换向量模型后重算来源文档切片的向量
//
// 需要重算的来源文档列在任务文件中（默认 scripts/reembed.yaml）：
//
//	sources:
//	  - 6f1c2f0e-...
//	all: false
//
// all 为 true 时重算全部来源文档。
//
// 用法: go run scripts/reembed_chunks.go -job scripts/reembed.yaml

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"study_core_backend/internal/config"
	"study_core_backend/internal/model"
	"study_core_backend/internal/repository"
	"study_core_backend/internal/service"
	"study_core_backend/pkg/database"
	"study_core_backend/pkg/embedding"
	"study_core_backend/pkg/logger"

	"gopkg.in/yaml.v3"
)

type reembedJob struct {
	Sources []string `yaml:"sources"`
	All     bool     `yaml:"all"`
}

func main() {
	configDir := flag.String("config", "configs", "配置文件所在目录")
	jobPath := flag.String("job", "scripts/reembed.yaml", "任务文件")
	flag.Parse()

	data, err := os.ReadFile(*jobPath)
	if err != nil {
		log.Fatalf("无法读取任务文件: %v", err)
	}

	var job reembedJob
	if err := yaml.Unmarshal(data, &job); err != nil {
		log.Fatalf("解析任务文件失败: %v", err)
	}

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode, false)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	sourceIDs := job.Sources
	if job.All {
		if err := db.Model(&model.Source{}).Pluck("id", &sourceIDs).Error; err != nil {
			log.Fatalf("读取来源文档失败: %v", err)
		}
	}

	embedder := embedding.NewOpenAIEmbedder(embedding.Config{
		BaseURL:    cfg.Embedding.BaseURL,
		APIKey:     cfg.Embedding.APIKey,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
	})
	ingestion := service.NewIngestionService(
		repository.NewSourceRepository(db),
		repository.NewChunkRepository(db),
		embedder,
		service.NewStorageService(&cfg.Storage),
		cfg.Embedding.BatchSize,
	)

	log.Printf("使用模型 %s 重算 %d 个来源文档...", embedder.Model(), len(sourceIDs))
	for _, id := range sourceIDs {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		n, err := ingestion.ReembedSource(ctx, id)
		cancel()
		if err != nil {
			log.Printf("来源文档 %s 重算失败: %v", id, err)
			continue
		}
		log.Printf("来源文档 %s 完成，%d 个切片", id, n)
	}
	log.Println("完成！")
}
