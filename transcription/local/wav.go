package local

import (
	"fmt"
	"os"
	"time"

	"github.com/go-audio/wav"

	"github.com/kbukum/voicenote/logger"
)

// wavInfo describes a decoded WAV header.
type wavInfo struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Duration   time.Duration
}

// inspectWAV reads the header of the WAV file at path.
func inspectWAV(path string) (wavInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return wavInfo{}, err
	}
	defer f.Close() //nolint:errcheck // read-only

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return wavInfo{}, fmt.Errorf("%s is not a valid wav file", path)
	}
	info := wavInfo{
		SampleRate: int(d.SampleRate),
		Channels:   int(d.NumChans),
		BitDepth:   int(d.BitDepth),
	}
	// Duration is informational; a header without it is still usable.
	if dur, err := d.Duration(); err == nil {
		info.Duration = dur
	}
	return info, nil
}

func (b *Backend) logWAV(log *logger.Logger, path string) {
	info, err := inspectWAV(path)
	if err != nil {
		log.Debug("canonical audio not inspectable", logger.Fields(logger.FieldError, err.Error()))
		return
	}
	log.Debug("canonical audio", logger.Fields(
		"sample_rate", info.SampleRate,
		"channels", info.Channels,
		"bit_depth", info.BitDepth,
		logger.FieldDuration, info.Duration.Milliseconds(),
	))
}
