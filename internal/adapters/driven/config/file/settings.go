package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// configFileName is the settings file within the config directory.
const configFileName = "config.toml"

// Settings holds all user-tunable configuration.
type Settings struct {
	// DataDir is where the raw cache, entity index, and vector
	// snapshot live. Defaults to <configDir>/data.
	DataDir string `toml:"data_dir"`

	Encoder  EncoderSettings  `toml:"encoder"`
	Chunking ChunkingSettings `toml:"chunking"`
	Fetch    FetchSettings    `toml:"fetch"`
}

// EncoderSettings configures the embedding backend.
type EncoderSettings struct {
	// BaseURL of an OpenAI-compatible embeddings API.
	BaseURL string `toml:"base_url"`

	// APIKey authenticates against the API. Optional for local servers.
	// The LEXROUTE_API_KEY environment variable takes precedence.
	APIKey string `toml:"api_key"`

	Model string `toml:"model"`

	// Dimensions overrides the model's native vector size. Zero means
	// use the model default.
	Dimensions int `toml:"dimensions"`
}

// ChunkingSettings configures article splitting.
type ChunkingSettings struct {
	MaxChars int `toml:"max_chars"`
	MinChars int `toml:"min_chars"`
}

// FetchSettings configures the Cellar connector.
type FetchSettings struct {
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// Store loads and saves Settings from a TOML file.
type Store struct {
	configDir string
	filePath  string
}

// NewStore creates a settings store rooted at configDir.
// If configDir is empty, defaults to ~/.lexroute.
func NewStore(configDir string) (*Store, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".lexroute")
	}

	return &Store{
		configDir: configDir,
		filePath:  filepath.Join(configDir, configFileName),
	}, nil
}

// Load reads settings from disk, filling defaults for anything unset.
// A missing file yields pure defaults with no error.
func (s *Store) Load() (*Settings, error) {
	settings := s.defaults()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			s.applyEnv(settings)
			return settings, nil
		}
		return nil, fmt.Errorf("reading %s: %w", s.filePath, err)
	}

	if err := toml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.filePath, err)
	}

	s.fillDefaults(settings)
	s.applyEnv(settings)
	return settings, nil
}

// Save writes settings to disk, creating the config directory if needed.
func (s *Store) Save(settings *Settings) error {
	if err := os.MkdirAll(s.configDir, 0o700); err != nil {
		return err
	}

	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	// API key may be present, keep the file private.
	return os.WriteFile(s.filePath, data, 0o600)
}

// Path returns the settings file path.
func (s *Store) Path() string {
	return s.filePath
}

func (s *Store) defaults() *Settings {
	return &Settings{
		DataDir: filepath.Join(s.configDir, "data"),
		Encoder: EncoderSettings{
			BaseURL: "https://api.openai.com/v1",
			Model:   "text-embedding-3-small",
		},
		Chunking: ChunkingSettings{
			MaxChars: 2000,
			MinChars: 200,
		},
		Fetch: FetchSettings{
			RequestsPerSecond: 1.0,
		},
	}
}

// fillDefaults restores defaults for fields the file left zero.
func (s *Store) fillDefaults(settings *Settings) {
	base := s.defaults()

	if settings.DataDir == "" {
		settings.DataDir = base.DataDir
	}
	if settings.Encoder.BaseURL == "" {
		settings.Encoder.BaseURL = base.Encoder.BaseURL
	}
	if settings.Encoder.Model == "" {
		settings.Encoder.Model = base.Encoder.Model
	}
	if settings.Chunking.MaxChars == 0 {
		settings.Chunking.MaxChars = base.Chunking.MaxChars
	}
	if settings.Chunking.MinChars == 0 {
		settings.Chunking.MinChars = base.Chunking.MinChars
	}
	if settings.Fetch.RequestsPerSecond == 0 {
		settings.Fetch.RequestsPerSecond = base.Fetch.RequestsPerSecond
	}
}

func (s *Store) applyEnv(settings *Settings) {
	if key := os.Getenv("LEXROUTE_API_KEY"); key != "" {
		settings.Encoder.APIKey = key
	}
}
