package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Conf is the application configuration, loaded once at startup.
var Conf *Config

type (
	ServerConfig struct {
		Address       string        `mapstructure:"address"`
		SecureCookies bool          `mapstructure:"secureCookies"`
		ReadTimeout   time.Duration `mapstructure:"readTimeout"`
		WriteTimeout  time.Duration `mapstructure:"writeTimeout"`
	}

	BackendConfig struct {
		BaseURL string        `mapstructure:"baseURL"`
		Timeout time.Duration `mapstructure:"timeout"`
		Demo    bool          `mapstructure:"demo"`
	}

	Config struct {
		Env                 string        `mapstructure:"env"`
		Debug               bool          `mapstructure:"debug"`
		TestMode            bool          `mapstructure:"testMode"`
		AppName             string        `mapstructure:"appName"`
		Build               string        `mapstructure:"build"`
		SecretKey           string        `mapstructure:"secretKey"`
		InstitutionalDomain string        `mapstructure:"institutionalDomain"`
		RollbarToken        string        `mapstructure:"rollbarToken"`
		Server              ServerConfig  `mapstructure:"server"`
		Backend             BackendConfig `mapstructure:"backend"`
	}
)

func init() {
	conf, err := LoadConfig(os.Getenv("ENV"))
	if err != nil {
		log.Fatalf("config.LoadConfig: %v", err)
	}
	Conf = conf
}

// LoadConfig reads defaults, the optional `config/.env.<env>` file and ENV-prefixed variables.
// env is one of DEV (default), TEST, QA, PROD.
func LoadConfig(env string) (*Config, error) {
	v := viper.New()

	env = strings.ToUpper(env)
	if env == "" {
		env = "DEV"
	}

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("env", env)
	v.SetDefault("debug", env == "DEV" || env == "TEST")
	v.SetDefault("testMode", env == "TEST")
	v.SetDefault("appName", "SmartCampus")
	v.SetDefault("build", "dev")
	v.SetDefault("secretKey", "k3q!v9-campus)z$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy")
	v.SetDefault("institutionalDomain", "ucv.edu.pe")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.secureCookies", env == "PROD")
	v.SetDefault("server.readTimeout", 10*time.Second)
	v.SetDefault("server.writeTimeout", 15*time.Second)
	v.SetDefault("backend.baseURL", "http://localhost:4000")
	v.SetDefault("backend.timeout", 15*time.Second)
	v.SetDefault("backend.demo", false)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "stat %s", dotEnvPath)
	}

	// e.g. DEV_BACKEND_BASEURL=https://smartcampusucv.onrender.com
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	conf := new(Config)
	if err := v.Unmarshal(conf); err != nil {
		return nil, errors.Wrap(err, "unmarshalling config")
	}
	conf.Backend.BaseURL = strings.TrimRight(conf.Backend.BaseURL, "/")
	conf.InstitutionalDomain = CleanString(strings.TrimPrefix(conf.InstitutionalDomain, "@"), true /* lower */)
	return conf, nil
}
