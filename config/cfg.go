package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	SourceConfig struct {
		CredentialsPath string        `yaml:"credentials_path,omitempty" sanitize:"assure_file_access"`
		Credentials     SecretString  `yaml:"credentials,omitempty"`
		Endpoint        string        `yaml:"endpoint" validate:"required,url"`
		Timeout         time.Duration `yaml:"timeout" validate:"gte=0"`
	}

	ListsConfig struct {
		Nesting ListNesting `yaml:"nesting"`
	}

	ImagesConfig struct {
		Workers        int         `yaml:"workers" validate:"min=1,max=64"`
		ScaleToDisplay bool        `yaml:"scale_to_display"`
		Format         ImageFormat `yaml:"format"`
		JPEGQuality    int         `yaml:"jpeq_quality_level" validate:"min=40,max=100"`
		CachePath      string      `yaml:"cache_path,omitempty" sanitize:"path_clean,assure_dir_exists_for_file" validate:"omitempty,filepath"`
	}

	FontsConfig struct {
		Google  bool     `yaml:"google"`
		Exclude []string `yaml:"exclude" validate:"dive,required"`
	}

	DocumentConfig struct {
		OutputNameTemplate    string       `yaml:"output_name_template"`
		FileNameTransliterate bool         `yaml:"file_name_transliterate"`
		Lang                  string       `yaml:"lang" validate:"required"`
		StylesheetPath        string       `yaml:"stylesheet_path" sanitize:"assure_file_access"`
		Lists                 ListsConfig  `yaml:"lists"`
		Images                ImagesConfig `yaml:"images"`
		Fonts                 FontsConfig  `yaml:"fonts"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Source    SourceConfig   `yaml:"source"`
		Document  DocumentConfig `yaml:"document"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above
	OutputNameTemplateFieldName TemplateFieldName = "output_name_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(OutputNameTemplateFieldName)),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if !process {
		return cfg, nil
	}
	if err := gencfg.Sanitize(cfg); err != nil {
		return nil, err
	}
	if err := gencfg.Validate(cfg); err != nil {
		return nil, err
	}
	if !cfg.Document.Lists.Nesting.IsValid() {
		return nil, fmt.Errorf("bad lists nesting mode: %s", cfg.Document.Lists.Nesting)
	}
	if !cfg.Document.Images.Format.IsValid() {
		return nil, fmt.Errorf("bad image format: %s", cfg.Document.Images.Format)
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to
// provide sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

// Dump returns actual configuration as YAML, secrets are masked.
func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}

// CredentialsEnv names environment variable pointing to service account key
// file when configuration has none.
const CredentialsEnv = "GOOGLE_APPLICATION_CREDENTIALS"

// CredentialsJSON returns service account key, inline value takes precedence
// over file, file over environment.
func (conf *SourceConfig) CredentialsJSON() ([]byte, error) {
	if len(conf.Credentials) > 0 {
		return []byte(conf.Credentials), nil
	}
	path := conf.CredentialsPath
	if len(path) == 0 {
		path = os.Getenv(CredentialsEnv)
	}
	if len(path) == 0 {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials: %w", err)
	}
	return data, nil
}
