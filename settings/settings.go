// Package settings defines the configuration a transcription request reads.
//
// A Settings value holds only scalar fields, so passing it by value gives each
// request its own immutable copy.
package settings

import (
	"time"

	"github.com/kbukum/voicenote/validation"
)

// Backend selects the transcription backend.
type Backend string

const (
	BackendRemote Backend = "remote"
	BackendLocal  Backend = "local"
)

// Defaults.
const (
	DefaultAPIURL          = "https://api.openai.com/v1/audio/transcriptions"
	DefaultModel           = "whisper-1"
	DefaultLanguage        = "en"
	DefaultLocalBinaryPath = "whisper-cli"
	DefaultFFmpegPath      = "ffmpeg"
	DefaultAPITimeout      = 120 * time.Second
)

// Settings is the transcription configuration. Empty optional strings mean
// absent: no prompt field is sent and no folder prefix is applied.
type Settings struct {
	Backend Backend `yaml:"backend" mapstructure:"backend" validate:"oneof=remote local"`

	// Remote backend.
	APIURL     string        `yaml:"api_url" mapstructure:"api_url" validate:"omitempty,url"`
	APIKey     string        `yaml:"api_key" mapstructure:"api_key"`
	Model      string        `yaml:"model" mapstructure:"model"`
	Prompt     string        `yaml:"prompt" mapstructure:"prompt"`
	Language   string        `yaml:"language" mapstructure:"language"`
	APITimeout time.Duration `yaml:"api_timeout" mapstructure:"api_timeout" validate:"gte=0"`

	// Local backend.
	LocalModelPath  string        `yaml:"local_model_path" mapstructure:"local_model_path"`
	LocalBinaryPath string        `yaml:"local_binary_path" mapstructure:"local_binary_path"`
	FFmpegPath      string        `yaml:"ffmpeg_path" mapstructure:"ffmpeg_path"`
	LocalTimeout    time.Duration `yaml:"local_timeout" mapstructure:"local_timeout" validate:"gte=0"`

	// Result handling.
	SaveAudioFile                   bool   `yaml:"save_audio_file" mapstructure:"save_audio_file"`
	SaveAudioFilePath               string `yaml:"save_audio_file_path" mapstructure:"save_audio_file_path"`
	CreateNewFileAfterRecording     bool   `yaml:"create_new_file_after_recording" mapstructure:"create_new_file_after_recording"`
	CreateNewFileAfterRecordingPath string `yaml:"create_new_file_after_recording_path" mapstructure:"create_new_file_after_recording_path"`

	Debug bool `yaml:"debug" mapstructure:"debug"`
}

// Default returns settings with every default applied. Load config on top of
// it so boolean defaults survive keys that are absent from the file.
func Default() Settings {
	s := Settings{CreateNewFileAfterRecording: true}
	s.ApplyDefaults()
	return s
}

// ApplyDefaults fills empty fields with their defaults.
func (s *Settings) ApplyDefaults() {
	if s.Backend == "" {
		s.Backend = BackendRemote
	}
	if s.APIURL == "" {
		s.APIURL = DefaultAPIURL
	}
	if s.Model == "" {
		s.Model = DefaultModel
	}
	if s.Language == "" {
		s.Language = DefaultLanguage
	}
	if s.LocalBinaryPath == "" {
		s.LocalBinaryPath = DefaultLocalBinaryPath
	}
	if s.FFmpegPath == "" {
		s.FFmpegPath = DefaultFFmpegPath
	}
	if s.APITimeout == 0 {
		s.APITimeout = DefaultAPITimeout
	}
}

// Validate checks field formats. Backend preconditions such as a missing
// credential or model path are reported by the backend at transcription time.
func (s Settings) Validate() error {
	return validation.ValidateStruct(s)
}

// IsLocal reports whether the local pipeline is selected.
func (s Settings) IsLocal() bool {
	return s.Backend == BackendLocal
}
