// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	dbEnv             = "NEWSFLOW_DB"
	embeddingHostEnv  = "NEWSFLOW_EMBEDDING_HOST"
	embeddingModelEnv = "NEWSFLOW_EMBEDDING_MODEL"
	embeddingTokenEnv = "NEWSFLOW_EMBEDDING_TOKEN"
	modelCacheDirEnv  = "NEWSFLOW_MODEL_CACHE_DIR"
	workersEnv        = "NEWSFLOW_WORKERS"
)

// Config is the file-backed configuration. Flags set on the command line
// take precedence over environment variables, which take precedence over the file.
type Config struct {
	Database  string          `yaml:"database"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
}

type EmbeddingConfig struct {
	Host          string `yaml:"host"`
	Model         string `yaml:"model"`
	Token         string `yaml:"token"`
	BatchSize     int    `yaml:"batchSize"`
	ModelCacheDir string `yaml:"modelCacheDir"`
}

type PipelineConfig struct {
	Workers  int  `yaml:"workers"`
	PageSize int  `yaml:"pageSize"`
	Strict   bool `yaml:"strict"`
}

func defaultConfig() Config {
	return Config{
		Embedding: EmbeddingConfig{
			Host:      "http://localhost:11434/v1",
			Model:     "embeddinggemma",
			BatchSize: 32,
		},
		Pipeline: PipelineConfig{
			Workers:  4,
			PageSize: 100,
		},
	}
}

// loadConfig reads path (if given) over the defaults and applies environment
// overrides. A missing or malformed file is an error.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		var fileCfg Config
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg = mergeConfig(cfg, fileCfg)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(dbEnv); v != "" {
		c.Database = v
	}
	if v := os.Getenv(embeddingHostEnv); v != "" {
		c.Embedding.Host = v
	}
	if v := os.Getenv(embeddingModelEnv); v != "" {
		c.Embedding.Model = v
	}
	if v := os.Getenv(embeddingTokenEnv); v != "" {
		c.Embedding.Token = v
	}
	if v := os.Getenv(modelCacheDirEnv); v != "" {
		c.Embedding.ModelCacheDir = v
	}
	if v := os.Getenv(workersEnv); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", workersEnv, err)
		}
		c.Pipeline.Workers = n
	}
	return nil
}

func mergeConfig(base, override Config) Config {
	if override.Database != "" {
		base.Database = override.Database
	}

	if override.Embedding.Host != "" {
		base.Embedding.Host = override.Embedding.Host
	}
	if override.Embedding.Model != "" {
		base.Embedding.Model = override.Embedding.Model
	}
	if override.Embedding.Token != "" {
		base.Embedding.Token = override.Embedding.Token
	}
	if override.Embedding.BatchSize > 0 {
		base.Embedding.BatchSize = override.Embedding.BatchSize
	}
	if override.Embedding.ModelCacheDir != "" {
		base.Embedding.ModelCacheDir = override.Embedding.ModelCacheDir
	}

	if override.Pipeline.Workers > 0 {
		base.Pipeline.Workers = override.Pipeline.Workers
	}
	if override.Pipeline.PageSize > 0 {
		base.Pipeline.PageSize = override.Pipeline.PageSize
	}
	base.Pipeline.Strict = base.Pipeline.Strict || override.Pipeline.Strict

	return base
}
