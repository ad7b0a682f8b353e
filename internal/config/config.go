package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App        App        `mapstructure:",squash"`
	Server     Server     `mapstructure:",squash"`
	Auth       Auth       `mapstructure:",squash"`
	AdPlatform AdPlatform `mapstructure:",squash"`
	Database   Database   `mapstructure:",squash"`
	Sync       Sync       `mapstructure:",squash"`
	Scheduler  Scheduler  `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

type AdPlatform struct {
	URL      string `mapstructure:"ad_platform_api_url"`
	Email    string `mapstructure:"ad_platform_email"`
	Password string `mapstructure:"ad_platform_password"`
}

type Database struct {
	DSN       string `mapstructure:"-"`
	Host      string `mapstructure:"db_host"`
	Port      int    `mapstructure:"db_port"`
	Name      string `mapstructure:"db_name"`
	User      string `mapstructure:"db_user"`
	Password  string `mapstructure:"db_password"`
	SSLMode   string `mapstructure:"db_sslmode"`
	// MockDB é o valor bruto de USE_MOCK_DB; só "true" (qualquer caixa) liga o modo
	MockDB    string `mapstructure:"use_mock_db"`
	UseMockDB bool   `mapstructure:"-"`
}

// Sync agrupa os parâmetros do pipeline de sincronização de campanhas
type Sync struct {
	PageSize          int           `mapstructure:"sync_page_size"`
	PageRetries       int           `mapstructure:"sync_page_retries"`
	ItemRetries       int           `mapstructure:"sync_item_retries"`
	AuthTimeout       time.Duration `mapstructure:"sync_auth_timeout"`
	ListTimeout       time.Duration `mapstructure:"sync_list_timeout"`
	ItemTimeout       time.Duration `mapstructure:"sync_item_timeout"`
	PageRetryDelay    time.Duration `mapstructure:"sync_page_retry_delay"`
	UnavailableDelay  time.Duration `mapstructure:"sync_unavailable_delay"`
	DefaultRetryAfter time.Duration `mapstructure:"sync_default_retry_after"`
	MaxItemRetryAfter time.Duration `mapstructure:"sync_max_item_retry_after"`
	ItemDelay         time.Duration `mapstructure:"sync_item_delay"`
	// MaxThrottleWaits limita esperas consecutivas por 429/503. Zero mantém espera ilimitada.
	MaxThrottleWaits int `mapstructure:"sync_max_throttle_waits"`
}

type Scheduler struct {
	CronSchedule string `mapstructure:"campaign_sync_cron"`
	Enabled      bool   `mapstructure:"campaign_sync_enabled"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("HOST", "localhost")
	v.SetDefault("PORT", "8000")

	v.SetDefault("AUTH_SECRET", "")

	v.SetDefault("AD_PLATFORM_API_URL", "http://localhost:3001")
	v.SetDefault("AD_PLATFORM_EMAIL", "")
	v.SetDefault("AD_PLATFORM_PASSWORD", "")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_NAME", "mixoads")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("USE_MOCK_DB", "false")

	v.SetDefault("SYNC_PAGE_SIZE", 10)
	v.SetDefault("SYNC_PAGE_RETRIES", 2)
	v.SetDefault("SYNC_ITEM_RETRIES", 3)
	v.SetDefault("SYNC_AUTH_TIMEOUT", "5s")
	v.SetDefault("SYNC_LIST_TIMEOUT", "5s")
	v.SetDefault("SYNC_ITEM_TIMEOUT", "3s")
	v.SetDefault("SYNC_PAGE_RETRY_DELAY", "1s")
	v.SetDefault("SYNC_UNAVAILABLE_DELAY", "1s")
	v.SetDefault("SYNC_DEFAULT_RETRY_AFTER", "10s")
	v.SetDefault("SYNC_MAX_ITEM_RETRY_AFTER", "10s")
	v.SetDefault("SYNC_ITEM_DELAY", "300ms")
	v.SetDefault("SYNC_MAX_THROTTLE_WAITS", 0)

	v.SetDefault("CAMPAIGN_SYNC_CRON", "0 2 * * *") // Todos os dias às 2h da manhã
	v.SetDefault("CAMPAIGN_SYNC_ENABLED", false)
}

// NewConfig monta a configuração a partir do .env e das variáveis de ambiente.
// A instância do viper é local, nada fica em estado global.
func NewConfig() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	setDefaults(v)

	v.SetConfigType("env")
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		logrus.Debug("Usando variáveis de ambiente (viper não conseguiu ler .env): ", err)
	}

	config := &Config{}
	err := v.Unmarshal(config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, fmt.Errorf("erro ao decodificar configuração: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.Database.UseMockDB = strings.EqualFold(config.Database.MockDB, "true")
	config.Database.DSN = config.Database.BuildDSN()

	return config, nil
}

// Validate verifica os campos sem os quais o pipeline não consegue rodar
func (c *Config) Validate() error {
	if c.AdPlatform.URL == "" {
		return fmt.Errorf("AD_PLATFORM_API_URL não pode ser vazio")
	}
	if _, err := url.ParseRequestURI(c.AdPlatform.URL); err != nil {
		return fmt.Errorf("AD_PLATFORM_API_URL inválida: %w", err)
	}
	if c.Sync.PageSize <= 0 {
		return fmt.Errorf("SYNC_PAGE_SIZE deve ser maior que zero")
	}
	if c.Sync.PageRetries <= 0 || c.Sync.ItemRetries <= 0 {
		return fmt.Errorf("SYNC_PAGE_RETRIES e SYNC_ITEM_RETRIES devem ser maiores que zero")
	}
	return nil
}

// BuildDSN monta a URL de conexão do lib/pq
func (d Database) BuildDSN() string {
	dsn := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}

	if d.SSLMode != "" {
		dsn.RawQuery = url.Values{"sslmode": []string{d.SSLMode}}.Encode()
	}

	return dsn.String()
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Debug("Arquivo .env carregado de: ", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado, usando apenas variáveis de ambiente")
}
