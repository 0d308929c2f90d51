package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	LlamaParse LlamaParseConfig
	OpenAI     OpenAIConfig
	GigaChat   GigaChatConfig
	RAG        RAGConfig
	Logger     LoggerConfig
}

type LoggerConfig struct {
	Level string
	File  string // optional, appended to stdout output
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Enabled reports whether a database host was configured.
func (c DatabaseConfig) Enabled() bool { return c.Host != "" }

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func (c RedisConfig) Enabled() bool { return c.Addr != "" }

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type JWTConfig struct {
	SecretKey  string
	Expiration time.Duration
}

type LlamaParseConfig struct {
	APIKey       string
	BaseURL      string
	ResultType   string // text or markdown
	PollInterval time.Duration
}

type OpenAIConfig struct {
	APIKey         string
	BaseURL        string
	ChatModel      string
	EmbeddingModel string
	Temperature    float64
}

type GigaChatConfig struct {
	APIKey             string
	Scope              string
	Model              string
	InsecureSkipVerify bool
}

type RAGConfig struct {
	Parser          string // llamaparse or fitz
	Generator       string // openai or gigachat
	ChunkSize       int
	ChunkOverlap    int
	TopK            int
	ExternalTimeout time.Duration
}

var envFiles = []string{".env", "../.env", "../../.env"}

func Load() (*Config, error) {
	// .env is optional; plain environment variables work too (Docker/K8s)
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	return &Config{
		Server: ServerConfig{
			Port:         v.GetString("SERVER_PORT"),
			ReadTimeout:  time.Duration(v.GetInt("SERVER_READ_TIMEOUT")) * time.Second,
			WriteTimeout: time.Duration(v.GetInt("SERVER_WRITE_TIMEOUT")) * time.Second,
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			TTL:      time.Duration(v.GetInt("REDIS_TTL_MINUTES")) * time.Minute,
		},
		JWT: JWTConfig{
			SecretKey:  v.GetString("JWT_SECRET_KEY"),
			Expiration: time.Duration(v.GetInt("JWT_EXPIRATION_HOURS")) * time.Hour,
		},
		LlamaParse: LlamaParseConfig{
			APIKey:       v.GetString("LLAMA_CLOUD_API_KEY"),
			BaseURL:      v.GetString("LLAMA_CLOUD_BASE_URL"),
			ResultType:   v.GetString("LLAMA_PARSE_RESULT_TYPE"),
			PollInterval: time.Duration(v.GetInt("LLAMA_PARSE_POLL_MS")) * time.Millisecond,
		},
		OpenAI: OpenAIConfig{
			APIKey:         v.GetString("OPENAI_API_KEY"),
			BaseURL:        v.GetString("OPENAI_BASE_URL"),
			ChatModel:      v.GetString("OPENAI_CHAT_MODEL"),
			EmbeddingModel: v.GetString("OPENAI_EMBEDDING_MODEL"),
			Temperature:    v.GetFloat64("OPENAI_TEMPERATURE"),
		},
		GigaChat: GigaChatConfig{
			APIKey:             v.GetString("GIGACHAT_API_KEY"),
			Scope:              v.GetString("GIGACHAT_SCOPE"),
			Model:              v.GetString("GIGACHAT_MODEL"),
			InsecureSkipVerify: v.GetBool("GIGACHAT_INSECURE_SKIP_VERIFY"),
		},
		RAG: RAGConfig{
			Parser:          strings.ToLower(v.GetString("RAG_PARSER")),
			Generator:       strings.ToLower(v.GetString("RAG_GENERATOR")),
			ChunkSize:       v.GetInt("RAG_CHUNK_SIZE"),
			ChunkOverlap:    v.GetInt("RAG_CHUNK_OVERLAP"),
			TopK:            v.GetInt("RAG_TOP_K"),
			ExternalTimeout: time.Duration(v.GetInt("EXTERNAL_TIMEOUT_SECONDS")) * time.Second,
		},
		Logger: LoggerConfig{
			Level: v.GetString("LOG_LEVEL"),
			File:  v.GetString("LOG_FILE"),
		},
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8000")
	v.SetDefault("SERVER_READ_TIMEOUT", 30)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 300)

	v.SetDefault("DB_HOST", "")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "invoice_rag")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_TTL_MINUTES", 60)

	v.SetDefault("JWT_SECRET_KEY", "")
	v.SetDefault("JWT_EXPIRATION_HOURS", 24)

	v.SetDefault("LLAMA_CLOUD_API_KEY", "")
	v.SetDefault("LLAMA_CLOUD_BASE_URL", "https://api.cloud.llamaindex.ai/api/parsing")
	v.SetDefault("LLAMA_PARSE_RESULT_TYPE", "text")
	v.SetDefault("LLAMA_PARSE_POLL_MS", 1000)

	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("OPENAI_BASE_URL", "")
	v.SetDefault("OPENAI_CHAT_MODEL", "gpt-4o-mini")
	v.SetDefault("OPENAI_EMBEDDING_MODEL", "text-embedding-ada-002")
	v.SetDefault("OPENAI_TEMPERATURE", 0.1)

	v.SetDefault("GIGACHAT_API_KEY", "")
	v.SetDefault("GIGACHAT_SCOPE", "GIGACHAT_API_PERS")
	v.SetDefault("GIGACHAT_MODEL", "GigaChat")
	v.SetDefault("GIGACHAT_INSECURE_SKIP_VERIFY", false)

	v.SetDefault("RAG_PARSER", "llamaparse")
	v.SetDefault("RAG_GENERATOR", "openai")
	v.SetDefault("RAG_CHUNK_SIZE", 1024)
	v.SetDefault("RAG_CHUNK_OVERLAP", 200)
	v.SetDefault("RAG_TOP_K", 2)
	v.SetDefault("EXTERNAL_TIMEOUT_SECONDS", 120)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "")
}
