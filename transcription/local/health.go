package local

import (
	"context"
	"os"
	"strings"

	"github.com/kbukum/voicenote/process"
	"github.com/kbukum/voicenote/provider"
	"github.com/kbukum/voicenote/settings"
)

var _ provider.HealthChecker = (*Backend)(nil)

// IsAvailable reports whether both executables resolve and the model exists.
func (b *Backend) IsAvailable(ctx context.Context) bool {
	return b.Health(ctx).Status == provider.StatusHealthy
}

// Health checks the executables and model file from the configured settings.
func (b *Backend) Health(_ context.Context) provider.HealthStatus {
	details := make(map[string]any, 3)
	var problems []string

	for _, bin := range []struct{ key, path string }{
		{"ffmpeg", orDefault(b.settings.FFmpegPath, settings.DefaultFFmpegPath)},
		{"whisper", orDefault(b.settings.LocalBinaryPath, settings.DefaultLocalBinaryPath)},
	} {
		resolved, err := process.LookPath(bin.path)
		if err != nil {
			problems = append(problems, bin.path+" not found")
			continue
		}
		details[bin.key] = resolved
	}

	if model := b.settings.LocalModelPath; model == "" {
		problems = append(problems, "local_model_path is not set")
	} else if st, err := os.Stat(model); err != nil || st.IsDir() {
		problems = append(problems, "model "+model+" not found")
	} else {
		details["model"] = model
	}

	if len(problems) > 0 {
		return provider.HealthStatus{
			Status:  provider.StatusUnavailable,
			Message: strings.Join(problems, "; "),
			Details: details,
		}
	}
	return provider.HealthStatus{Status: provider.StatusHealthy, Details: details}
}
